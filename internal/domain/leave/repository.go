package leave

import (
	"context"
	"time"
)

// LeaveStore defines approved-leave reads used by the payroll engine.
type LeaveStore interface {
	// GetApprovedLeave returns approved records overlapping
	// [from, to], ordered by start date.
	GetApprovedLeave(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	CreateRecord(ctx context.Context, rec Record) (Record, error)
}
