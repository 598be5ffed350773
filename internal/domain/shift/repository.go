package shift

import (
	"context"
	"time"
)

// ShiftStore persists shift templates, standing assignments, and
// ad-hoc adjustments.
type ShiftStore interface {
	// GetStandingShift returns the employee's standing shift
	// assignment, ErrEmployeeShiftNotFound when none exists.
	GetStandingShift(ctx context.Context, employeeID string) (ShiftDefinition, error)
	// GetApprovedAdjustment returns the approved adjustment covering
	// the exact date, ErrAdjustmentNotFound when none exists.
	GetApprovedAdjustment(ctx context.Context, employeeID string, date time.Time) (ShiftAdjustment, error)

	CreateShift(ctx context.Context, def ShiftDefinition) (ShiftDefinition, error)
	GetShiftByID(ctx context.Context, id string) (ShiftDefinition, error)
	ListShifts(ctx context.Context, companyID string) ([]ShiftDefinition, error)
	AssignStandingShift(ctx context.Context, employeeID, shiftID string) error

	CreateAdjustment(ctx context.Context, adj ShiftAdjustment) (ShiftAdjustment, error)
	SetAdjustmentStatus(ctx context.Context, id string, status ApprovalStatus, reviewedBy string) (ShiftAdjustment, error)
}
