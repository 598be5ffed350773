package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/notification"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/period"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
	periodService "github.com/tempohr/tempo-backend-go/internal/service/period"
	shiftService "github.com/tempohr/tempo-backend-go/internal/service/shift"
)

// LedgerImpl validates and records check events against the day's
// classified periods. The event log is append-only; concurrent check
// attempts for one employee are serialized by a per-employee mutex so
// at most one open session exists at a time.
type LedgerImpl struct {
	resolver   *shiftService.Resolver
	classifier *periodService.Classifier
	events     attendance.EventRepository
	overtime   overtime.OvertimeStore
	rates      payroll.RateSettingsProvider
	sink       notification.Sink

	// gracePeriod: tolerance after period start before a check-in is
	// flagged late. checkInLead: how early before a period's start a
	// check-in is still admissible. Both are fallbacks; stored
	// per-company rate settings override grace and transition buffer.
	gracePeriod time.Duration
	checkInLead time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(
	resolver *shiftService.Resolver,
	classifier *periodService.Classifier,
	events attendance.EventRepository,
	overtimeStore overtime.OvertimeStore,
	rates payroll.RateSettingsProvider,
	sink notification.Sink,
	gracePeriod time.Duration,
	checkInLead time.Duration,
) attendance.Ledger {
	if checkInLead <= 0 {
		checkInLead = periodService.DefaultTransitionBuffer
	}
	return &LedgerImpl{
		resolver:    resolver,
		classifier:  classifier,
		events:      events,
		overtime:    overtimeStore,
		rates:       rates,
		sink:        sink,
		gracePeriod: gracePeriod,
		checkInLead: checkInLead,
		locks:       make(map[string]*sync.Mutex),
	}
}

// effectiveDurations resolves the grace period and transition buffer
// for one company. Stored rate settings win; absent or unreadable
// settings fall back to the configured defaults (buffer zero defers
// to the classifier's own).
func (l *LedgerImpl) effectiveDurations(ctx context.Context, companyID string) (grace, buffer time.Duration) {
	grace = l.gracePeriod
	if l.rates == nil || companyID == "" {
		return grace, 0
	}
	settings, err := l.rates.GetRateSettings(ctx, companyID)
	if err != nil {
		return grace, 0
	}
	if settings.GracePeriod > 0 {
		grace = settings.GracePeriod
	}
	if settings.TransitionBuffer > 0 {
		buffer = settings.TransitionBuffer
	}
	return grace, buffer
}

func (l *LedgerImpl) employeeLock(employeeID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[employeeID] = lock
	}
	return lock
}

// buildDayPeriods assembles the ordered period list for one
// employee-day: the effective shift, if any, plus every approved
// overtime window, sorted by start and sequenced from 1. A day with
// nothing scheduled yields an empty list.
func (l *LedgerImpl) buildDayPeriods(ctx context.Context, employeeID string, day time.Time) ([]period.Period, error) {
	var periods []period.Period

	eff, err := l.resolver.ResolveEffectiveShift(ctx, employeeID, day)
	switch {
	case err == nil:
		periods = append(periods, period.Period{
			Type:     period.PeriodTypeRegular,
			StartsAt: eff.StartsAt,
			EndsAt:   eff.EndsAt,
		})
	case errors.Is(err, shift.ErrEmployeeShiftNotFound):
		// Day off: only overtime windows can authorize work.
	default:
		return nil, err
	}

	windows, err := l.overtime.GetApprovedWindows(ctx, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved overtime windows: %w", err)
	}
	for _, w := range windows {
		start, end := w.Anchor(day)
		periods = append(periods, period.Period{
			Type:     period.PeriodTypeOvertime,
			StartsAt: start,
			EndsAt:   end,
		})
	}

	sortPeriods(periods)
	return periods, nil
}

func sortPeriods(periods []period.Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].StartsAt.Before(periods[j].StartsAt)
	})
	for i := range periods {
		periods[i].Sequence = i + 1
	}
}

// RecordCheckIn implements attendance.Ledger.
func (l *LedgerImpl) RecordCheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.Event, error) {
	if err := req.Validate(); err != nil {
		return attendance.Event{}, err
	}

	lock := l.employeeLock(req.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := l.events.GetOpenCheckIn(ctx, req.EmployeeID); err == nil {
		return attendance.Event{}, attendance.ErrAlreadyCheckedIn
	} else if !errors.Is(err, attendance.ErrEventNotFound) {
		return attendance.Event{}, fmt.Errorf("failed to check for open session: %w", err)
	}

	now := req.At
	if now.IsZero() {
		now = time.Now().UTC()
	}

	grace, buffer := l.effectiveDurations(ctx, req.CompanyID)

	workDate := dateOf(now)
	periods, err := l.buildDayPeriods(ctx, req.EmployeeID, workDate)
	if err != nil {
		return attendance.Event{}, err
	}
	state := l.classifier.ClassifyBuffered(periods, now, buffer)

	// An overnight shift anchored to yesterday may still be running;
	// a 02:00 check-in belongs to the 22:00 shift of the previous day.
	if !state.IsWithinBounds && !state.IsInTransition {
		prevDate := workDate.AddDate(0, 0, -1)
		prevPeriods, err := l.buildDayPeriods(ctx, req.EmployeeID, prevDate)
		if err != nil {
			return attendance.Event{}, err
		}
		prevState := l.classifier.ClassifyBuffered(prevPeriods, now, buffer)
		if prevState.IsWithinBounds || prevState.IsInTransition {
			workDate = prevDate
			periods = prevPeriods
			state = prevState
		}
	}

	if len(periods) == 0 {
		return attendance.Event{}, shift.ErrEmployeeShiftNotFound
	}

	event := attendance.Event{
		EmployeeID: req.EmployeeID,
		Kind:       attendance.EventKindCheckIn,
		At:         now.UTC(),
		Location:   req.Location,
		WorkDate:   workDate,
	}

	switch state.State {
	case period.StateInRegular:
		event = attributeTo(event, *state.Active)
		lateBy := now.Sub(state.Active.StartsAt)
		if lateBy > grace {
			event.IsLate = true
		}
		if lateBy > 0 {
			event.LateMinutes = int(math.Floor(lateBy.Minutes()))
		}

	case period.StateInOvertime:
		event = attributeTo(event, *state.Active)
		event.IsOvertime = true

	case period.StateTransitionWindow:
		// Pre-authorized roll into the upcoming overtime period.
		event = attributeTo(event, *state.Next)
		event.IsOvertime = true
		event.IsEarly = true

	case period.StateBeforeShift:
		// Early check-ins are admissible only within the lead window
		// before the next period's start.
		if state.Next == nil || now.Before(state.Next.StartsAt.Add(-l.checkInLead)) {
			return attendance.Event{}, attendance.ErrEarlyCheckIn
		}
		event = attributeTo(event, *state.Next)
		event.IsEarly = true
		event.IsOvertime = state.Next.Type == period.PeriodTypeOvertime

	default: // StateAfterAllPeriods
		return attendance.Event{}, attendance.ErrEarlyCheckIn
	}

	recorded, err := l.events.Append(ctx, event)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append check-in event: %w", err)
	}
	return recorded, nil
}

// RecordCheckOut implements attendance.Ledger.
func (l *LedgerImpl) RecordCheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.Event, error) {
	if err := req.Validate(); err != nil {
		return attendance.Event{}, err
	}

	lock := l.employeeLock(req.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	open, err := l.events.GetOpenCheckIn(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrEventNotFound) {
			return attendance.Event{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.Event{}, fmt.Errorf("failed to get open session: %w", err)
	}

	now := req.At
	if now.IsZero() {
		now = time.Now().UTC()
	}

	active := open.AttributedPeriod()
	event := attendance.Event{
		EmployeeID:     req.EmployeeID,
		Kind:           attendance.EventKindCheckOut,
		At:             now.UTC(),
		Location:       req.Location,
		WorkDate:       open.WorkDate,
		PeriodType:     open.PeriodType,
		PeriodStartsAt: open.PeriodStartsAt,
		PeriodEndsAt:   open.PeriodEndsAt,
		PeriodSequence: open.PeriodSequence,
		IsOvertime:     open.IsOvertime,
	}

	if now.Before(active.EndsAt) {
		event.IsEarly = true
	} else if now.After(active.EndsAt) {
		_, buffer := l.effectiveDurations(ctx, req.CompanyID)
		periods, err := l.buildDayPeriods(ctx, req.EmployeeID, open.WorkDate)
		if err != nil {
			return attendance.Event{}, err
		}
		state := l.classifier.ClassifyBuffered(periods, now, buffer)
		covered := state.IsInTransition ||
			(state.IsWithinBounds && state.Active.Type == period.PeriodTypeOvertime)
		if !covered {
			// Policy violation, not an integrity violation: record the
			// event, flag it, and report through the side channel.
			event.IsLate = true
			event.LateMinutes = int(math.Floor(now.Sub(active.EndsAt).Minutes()))
			l.sink.Notify(ctx, req.EmployeeID, "Checked out after the scheduled period without overtime authorization")
		}
	}

	recorded, err := l.events.Append(ctx, event)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append check-out event: %w", err)
	}
	return recorded, nil
}

// DaySummary implements attendance.Ledger.
func (l *LedgerImpl) DaySummary(ctx context.Context, employeeID string, workDate time.Time) (attendance.DaySummary, error) {
	day := dateOf(workDate)

	periods, err := l.buildDayPeriods(ctx, employeeID, day)
	if err != nil {
		return attendance.DaySummary{}, err
	}
	events, err := l.events.ListByEmployeeDay(ctx, employeeID, day)
	if err != nil {
		return attendance.DaySummary{}, fmt.Errorf("failed to list events: %w", err)
	}

	summary := attendance.DaySummary{
		EmployeeID: employeeID,
		WorkDate:   day,
		Periods:    periods,
		Events:     events,
	}

	for _, p := range periods {
		var checkIn, checkOut *attendance.Event
		for i := range events {
			if events[i].PeriodSequence != p.Sequence {
				continue
			}
			switch events[i].Kind {
			case attendance.EventKindCheckIn:
				checkIn = &events[i]
			case attendance.EventKindCheckOut:
				checkOut = &events[i]
			}
		}
		if checkIn == nil || checkOut == nil {
			summary.OpenPeriods++
			continue
		}
		worked := int(checkOut.At.Sub(checkIn.At).Minutes())
		if worked < 0 {
			worked = 0
		}
		summary.WorkedMinutes += worked
		if p.Type == period.PeriodTypeOvertime {
			summary.OvertimeMinutes += worked
		}
	}

	summary.Complete = len(periods) > 0 && summary.OpenPeriods == 0
	return summary, nil
}

// ListMyEvents implements attendance.Ledger.
func (l *LedgerImpl) ListMyEvents(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	events, err := l.events.ListByEmployeeRange(ctx, employeeID, dateOf(from), dateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RecordCorrection implements attendance.Ledger. The original event
// stays in the log; the correction references it.
func (l *LedgerImpl) RecordCorrection(ctx context.Context, req attendance.CorrectionRequest) (attendance.Event, error) {
	if err := req.Validate(); err != nil {
		return attendance.Event{}, err
	}

	original, err := l.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, attendance.ErrEventNotFound) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get original event: %w", err)
	}
	if original.EmployeeID != req.EmployeeID {
		return attendance.Event{}, attendance.ErrUnauthorized
	}

	at, _ := validator.IsValidDateTime(req.At)

	event := attendance.Event{
		EmployeeID:      original.EmployeeID,
		Kind:            attendance.EventKind(req.Kind),
		At:              at.UTC(),
		Location:        req.Location,
		WorkDate:        original.WorkDate,
		PeriodType:      original.PeriodType,
		PeriodStartsAt:  original.PeriodStartsAt,
		PeriodEndsAt:    original.PeriodEndsAt,
		PeriodSequence:  original.PeriodSequence,
		IsOvertime:      original.IsOvertime,
		CorrectsEventID: &original.ID,
		CorrectedBy:     &req.CorrectedBy,
	}

	recorded, err := l.events.Append(ctx, event)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append correction event: %w", err)
	}
	return recorded, nil
}

func attributeTo(event attendance.Event, p period.Period) attendance.Event {
	event.PeriodType = p.Type
	event.PeriodStartsAt = p.StartsAt
	event.PeriodEndsAt = p.EndsAt
	event.PeriodSequence = p.Sequence
	return event
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
