package response

import (
	"errors"
	"net/http"

	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "An open check-in already exists")
	case errors.Is(err, attendance.ErrEarlyCheckIn):
		BadRequest(w, "Check-in is outside every scheduled period", nil)
	case errors.Is(err, attendance.ErrNoActiveCheckIn):
		BadRequest(w, "No open check-in to close", nil)
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Attendance event not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Event belongs to another employee")

	// Shift domain errors
	case errors.Is(err, shift.ErrEmployeeShiftNotFound):
		NotFound(w, "No shift governs this employee on this date")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrInvalidShift):
		BadRequest(w, "Shift definition is invalid", nil)
	case errors.Is(err, shift.ErrAdjustmentNotFound):
		NotFound(w, "Shift adjustment not found")
	case errors.Is(err, shift.ErrAdjustmentProcessed):
		Conflict(w, "Shift adjustment already processed")
	case errors.Is(err, shift.ErrDuplicateAdjustment):
		Conflict(w, "A shift adjustment already exists for this date")

	// Overtime domain errors
	case errors.Is(err, overtime.ErrWindowNotFound):
		NotFound(w, "Overtime window not found")
	case errors.Is(err, overtime.ErrWindowProcessed):
		Conflict(w, "Overtime window already processed")
	case errors.Is(err, overtime.ErrInvalidWindow):
		BadRequest(w, "Overtime window is invalid", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrLineNotFound):
		NotFound(w, "Payroll line not found")
	case errors.Is(err, payroll.ErrRateSettingsNotFound):
		NotFound(w, "Rate settings not found")
	case errors.Is(err, payroll.ErrInvalidRateSettings):
		BadRequest(w, "Rate settings are invalid or missing", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Payroll period range is invalid", nil)
	case errors.Is(err, payroll.ErrPeriodAlreadyExists):
		Conflict(w, "A payroll period already exists for this range")
	case errors.Is(err, payroll.ErrPeriodAlreadyPaid):
		Conflict(w, "Payroll period is already paid")
	case errors.Is(err, payroll.ErrPeriodNotApproved):
		Conflict(w, "Payroll period must be approved first")
	case errors.Is(err, payroll.ErrEmployeeHasNoRate):
		BadRequest(w, "Employee has no hourly rate configured", nil)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
