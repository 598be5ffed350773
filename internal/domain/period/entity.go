package period

import "time"

// PeriodType enum
type PeriodType string

const (
	PeriodTypeRegular  PeriodType = "regular"
	PeriodTypeOvertime PeriodType = "overtime"
)

var PeriodTypes = []PeriodType{PeriodTypeRegular, PeriodTypeOvertime}

// Period is one contiguous attendance window on an employee-day,
// either the regular shift or an approved overtime block. Bounds are
// half-open: start inclusive, end exclusive.
type Period struct {
	Type     PeriodType
	StartsAt time.Time
	EndsAt   time.Time
	// Sequence orders the day's periods from 1. Two periods on the
	// same day never share a sequence number.
	Sequence int
}

// Contains reports whether t falls inside the half-open window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}

// Minutes is the scheduled length of the period in whole minutes.
func (p Period) Minutes() int {
	return int(p.EndsAt.Sub(p.StartsAt).Minutes())
}

// State enum
type State string

const (
	StateBeforeShift      State = "before_shift"
	StateInRegular        State = "in_regular"
	StateTransitionWindow State = "transition_window"
	StateInOvertime       State = "in_overtime"
	StateAfterAllPeriods  State = "after_all_periods"
)

var States = []State{
	StateBeforeShift,
	StateInRegular,
	StateTransitionWindow,
	StateInOvertime,
	StateAfterAllPeriods,
}

// CurrentPeriodState is the classification of one instant against an
// employee-day's period list.
type CurrentPeriodState struct {
	State State
	// Active is the period containing the instant, nil outside all
	// periods.
	Active *Period
	// Next is the first period starting after the instant, nil when
	// the day is exhausted.
	Next *Period
	// IsWithinBounds mirrors Active != nil for callers that only need
	// the yes/no answer.
	IsWithinBounds bool
	// IsInTransition marks the buffered handoff gap between a period
	// that just ended and an overtime period about to start.
	IsInTransition bool
}
