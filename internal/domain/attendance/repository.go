package attendance

import (
	"context"
	"time"
)

// EventRepository is the append-only event log, keyed by
// employee-day. There is no update or delete: corrections enter the
// log as new events.
type EventRepository interface {
	// Append stores a new event and returns it with ID and CreatedAt
	// filled in.
	Append(ctx context.Context, event Event) (Event, error)

	// GetByID returns a single event, or ErrEventNotFound.
	GetByID(ctx context.Context, id string) (Event, error)

	// GetOpenCheckIn returns the employee's most recent check-in with
	// no later check-out, or ErrEventNotFound when the employee has no
	// open session.
	GetOpenCheckIn(ctx context.Context, employeeID string) (Event, error)

	// ListByEmployeeDay returns all events for one employee-day in
	// insertion order.
	ListByEmployeeDay(ctx context.Context, employeeID string, workDate time.Time) ([]Event, error)

	// ListByEmployeeRange returns all events for an employee whose
	// WorkDate falls in [from, to], ordered by work date then
	// insertion order.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// ListStaleOpenCheckIns returns open check-ins whose attributed
	// period ended before the cutoff. Used by the sweep job to nudge
	// employees who forgot to check out.
	ListStaleOpenCheckIns(ctx context.Context, cutoff time.Time) ([]Event, error)
}
