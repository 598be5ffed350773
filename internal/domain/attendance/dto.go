package attendance

import (
	"time"

	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckRequest struct {
	EmployeeID string `json:"employee_id"`
	// CompanyID scopes the grace/transition lookup; it comes from the
	// token, never the body.
	CompanyID string    `json:"-"`
	At        time.Time `json:"-"`
	Location  string    `json:"location"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectionRequest struct {
	EventID     string  `json:"event_id"`
	EmployeeID  string  `json:"employee_id"`
	Kind        string  `json:"kind"`
	At          string  `json:"at"` // RFC3339
	Location    string  `json:"location"`
	CorrectedBy string  `json:"-"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Kind != string(EventKindCheckIn) && r.Kind != string(EventKindCheckOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be check_in or check_out",
		})
	}

	if _, ok := validator.IsValidDateTime(r.At); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "at",
			Message: "at must be a valid ISO8601 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Kind        string  `json:"kind"`
	At          string  `json:"at"`
	Location    string  `json:"location,omitempty"`
	WorkDate    string  `json:"work_date"`
	PeriodType  string  `json:"period_type"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	IsLate      bool    `json:"is_late"`
	IsEarly     bool    `json:"is_early"`
	IsOvertime  bool    `json:"is_overtime"`
	LateMinutes int     `json:"late_minutes"`
	Corrects    *string `json:"corrects_event_id,omitempty"`
}

// ToResponse converts an Event to its transport shape.
func ToResponse(e Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Kind:        string(e.Kind),
		At:          e.At.UTC().Format(time.RFC3339),
		Location:    e.Location,
		WorkDate:    e.WorkDate.Format("2006-01-02"),
		PeriodType:  string(e.PeriodType),
		PeriodStart: e.PeriodStartsAt.UTC().Format(time.RFC3339),
		PeriodEnd:   e.PeriodEndsAt.UTC().Format(time.RFC3339),
		IsLate:      e.IsLate,
		IsEarly:     e.IsEarly,
		IsOvertime:  e.IsOvertime,
		LateMinutes: e.LateMinutes,
		Corrects:    e.CorrectsEventID,
	}
}
