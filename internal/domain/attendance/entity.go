package attendance

import (
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/period"
)

// EventKind enum
type EventKind string

const (
	EventKindCheckIn  EventKind = "check_in"
	EventKindCheckOut EventKind = "check_out"
)

// Event is one check-in or check-out. Events are append-only: a
// recorded event is never mutated, corrections are new events plus an
// administrative override so the audit trail survives.
type Event struct {
	ID         string
	EmployeeID string
	Kind       EventKind
	// At is the absolute instant of the event, stored UTC.
	At       time.Time
	Location string
	// WorkDate is the attendance day the event belongs to. For
	// overnight shifts this is the day the shift started, not the
	// calendar day of the instant.
	WorkDate time.Time
	// Period the event was attributed to by the classifier.
	PeriodType     period.PeriodType
	PeriodStartsAt time.Time
	PeriodEndsAt   time.Time
	PeriodSequence int

	IsLate      bool
	IsEarly     bool
	IsOvertime  bool
	LateMinutes int

	// Correction bookkeeping. A correcting event references the event
	// it supersedes; the original stays in the log untouched.
	CorrectsEventID *string
	CorrectedBy     *string

	CreatedAt time.Time
}

// AttributedPeriod rebuilds the Period the event was recorded against.
func (e Event) AttributedPeriod() period.Period {
	return period.Period{
		Type:     e.PeriodType,
		StartsAt: e.PeriodStartsAt,
		EndsAt:   e.PeriodEndsAt,
		Sequence: e.PeriodSequence,
	}
}

// DaySummary describes how complete one employee-day is. A day is
// complete only when every period has a matched check-in/check-out
// pair; partial completion is a valid, queryable state.
type DaySummary struct {
	EmployeeID      string
	WorkDate        time.Time
	Periods         []period.Period
	Events          []Event
	Complete        bool
	OpenPeriods     int
	WorkedMinutes   int
	OvertimeMinutes int
}
