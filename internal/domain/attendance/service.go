package attendance

import (
	"context"
	"time"
)

// Ledger defines check-in/check-out admissibility and the queries
// over the recorded event log.
type Ledger interface {
	// RecordCheckIn validates and records a check-in for the employee
	// at the given instant. Fails closed on integrity violations
	// (duplicate open check-in) and on check-ins outside every
	// scheduled or authorized period.
	RecordCheckIn(ctx context.Context, req CheckRequest) (Event, error)

	// RecordCheckOut closes the employee's open session. A checkout
	// past the active period's end without overtime coverage is still
	// recorded, flagged late, and reported through the notification
	// sink rather than failing.
	RecordCheckOut(ctx context.Context, req CheckRequest) (Event, error)

	// DaySummary reports the completeness of one employee-day.
	DaySummary(ctx context.Context, employeeID string, workDate time.Time) (DaySummary, error)

	// ListMyEvents returns the employee's events in a date range.
	ListMyEvents(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// RecordCorrection appends an administrative correction event
	// referencing the event it supersedes.
	RecordCorrection(ctx context.Context, req CorrectionRequest) (Event, error)
}
