package overtime

import (
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

// ========================================
// OVERTIME DTOs
// ========================================

type WindowRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	DayOff     bool   `json:"day_off"`
	Reason     string `json:"reason"`
}

func (r *WindowRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
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

type WindowResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	DayOff     bool   `json:"day_off"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

func ToWindowResponse(w OvertimeWindow) WindowResponse {
	return WindowResponse{
		ID:         w.ID,
		EmployeeID: w.EmployeeID,
		Date:       w.Date.Format("2006-01-02"),
		StartTime:  w.StartTime.String(),
		EndTime:    w.EndTime.String(),
		DayOff:     w.DayOff,
		Status:     string(w.Status),
		Reason:     w.Reason,
	}
}
