package shift

import (
	"time"

	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	CompanyID string `json:"-"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Weekdays  []int  `json:"weekdays,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	startHour, startMin, okStart := validator.IsValidClockTime(r.StartTime)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be HH:MM",
		})
	}

	endHour, endMin, okEnd := validator.IsValidClockTime(r.EndTime)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be HH:MM",
		})
	}

	if okStart && okEnd && startHour == endHour && startMin == endMin {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must differ from start_time",
		})
	}

	for _, d := range r.Weekdays {
		if d < 1 || d > 7 {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must be 1 (Monday) through 7 (Sunday)",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Definition converts the request into a ShiftDefinition. Call only
// after Validate.
func (r *CreateShiftRequest) Definition() ShiftDefinition {
	startHour, startMin, _ := validator.IsValidClockTime(r.StartTime)
	endHour, endMin, _ := validator.IsValidClockTime(r.EndTime)
	return ShiftDefinition{
		CompanyID: r.CompanyID,
		Name:      r.Name,
		StartTime: TimeOfDay{Hour: startHour, Minute: startMin},
		EndTime:   TimeOfDay{Hour: endHour, Minute: endMin},
		Weekdays:  r.Weekdays,
	}
}

type AssignShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	ShiftID    string `json:"shift_id"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustmentRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"` // YYYY-MM-DD
	ShiftID    string `json:"shift_id"`
	Reason     string `json:"reason"`
}

func (r *AdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
		})
	}

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequest struct {
	ID         string `json:"id"`
	Approve    bool   `json:"approve"`
	ReviewedBy string `json:"-"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Weekdays  []int  `json:"weekdays,omitempty"`
	Overnight bool   `json:"overnight"`
}

func ToShiftResponse(def ShiftDefinition) ShiftResponse {
	return ShiftResponse{
		ID:        def.ID,
		Name:      def.Name,
		StartTime: def.StartTime.String(),
		EndTime:   def.EndTime.String(),
		Weekdays:  def.Weekdays,
		Overnight: def.Overnight(),
	}
}

type EffectiveShiftResponse struct {
	Shift    ShiftResponse `json:"shift"`
	Date     string        `json:"date"`
	StartsAt string        `json:"starts_at"`
	EndsAt   string        `json:"ends_at"`
	Adjusted bool          `json:"adjusted"`
}

func ToEffectiveShiftResponse(eff EffectiveShift) EffectiveShiftResponse {
	return EffectiveShiftResponse{
		Shift:    ToShiftResponse(eff.Shift),
		Date:     eff.Date.Format("2006-01-02"),
		StartsAt: eff.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:   eff.EndsAt.UTC().Format(time.RFC3339),
		Adjusted: eff.Adjusted,
	}
}
