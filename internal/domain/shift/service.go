package shift

import (
	"context"
	"time"
)

// ScheduleService manages shift templates, standing assignments, and
// the ad-hoc adjustment approval flow.
type ScheduleService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftDefinition, error)
	ListShifts(ctx context.Context, companyID string) ([]ShiftDefinition, error)
	AssignShift(ctx context.Context, req AssignShiftRequest) error

	RequestAdjustment(ctx context.Context, req AdjustmentRequest) (ShiftAdjustment, error)
	ReviewAdjustment(ctx context.Context, req ReviewRequest) (ShiftAdjustment, error)

	// EffectiveShift resolves which shift governs an employee-date.
	EffectiveShift(ctx context.Context, employeeID string, date time.Time) (EffectiveShift, error)
}
