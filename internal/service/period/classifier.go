package period

import (
	"sort"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/period"
)

// Classifier maps an instant onto an ordered period list. It is
// stateless per invocation; the conceptual state machine lives in the
// returned CurrentPeriodState. Classification never fails: absence of
// any period is a valid state, not an error.
type Classifier struct {
	transitionBuffer time.Duration
}

// NewClassifier builds a classifier with the given transition buffer.
// The buffer is configuration, never hard-coded; DefaultTransitionBuffer
// is the fallback when settings carry none.
func NewClassifier(transitionBuffer time.Duration) *Classifier {
	if transitionBuffer <= 0 {
		transitionBuffer = DefaultTransitionBuffer
	}
	return &Classifier{transitionBuffer: transitionBuffer}
}

const DefaultTransitionBuffer = 15 * time.Minute

// Classify places now against the day's periods. Windows are
// half-open [start, end); when two adjacent periods overlap the lower
// sequence number wins.
func (c *Classifier) Classify(periods []period.Period, now time.Time) period.CurrentPeriodState {
	return c.ClassifyBuffered(periods, now, 0)
}

// ClassifyBuffered is Classify with a per-call transition buffer, for
// callers whose buffer comes from stored company settings. A buffer
// of zero or less falls back to the configured one.
func (c *Classifier) ClassifyBuffered(periods []period.Period, now time.Time, buffer time.Duration) period.CurrentPeriodState {
	if buffer <= 0 {
		buffer = c.transitionBuffer
	}
	ordered := make([]period.Period, len(periods))
	copy(ordered, periods)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	for i := range ordered {
		p := ordered[i]
		if !p.Contains(now) {
			continue
		}
		st := period.CurrentPeriodState{
			Active:         &ordered[i],
			IsWithinBounds: true,
		}
		if p.Type == period.PeriodTypeOvertime {
			st.State = period.StateInOvertime
		} else {
			st.State = period.StateInRegular
		}
		if i+1 < len(ordered) {
			st.Next = &ordered[i+1]
		}
		return st
	}

	// No period contains now: locate the surrounding pair.
	var prev, next *period.Period
	for i := range ordered {
		if !ordered[i].EndsAt.After(now) {
			prev = &ordered[i]
		}
		if ordered[i].StartsAt.After(now) && next == nil {
			next = &ordered[i]
		}
	}

	if next == nil {
		if prev != nil {
			return period.CurrentPeriodState{State: period.StateAfterAllPeriods}
		}
		// Empty period list: the day has nothing scheduled yet.
		return period.CurrentPeriodState{State: period.StateBeforeShift}
	}

	if prev != nil && next.Type == period.PeriodTypeOvertime &&
		next.StartsAt.Sub(prev.EndsAt) <= buffer {
		// The gap fits inside the transition buffer: a
		// check-out/check-in pair here rolls into overtime as one
		// continuous handoff.
		return period.CurrentPeriodState{
			State:          period.StateTransitionWindow,
			Next:           next,
			IsInTransition: true,
		}
	}

	return period.CurrentPeriodState{
		State: period.StateBeforeShift,
		Next:  next,
	}
}
