package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	periodService "github.com/tempohr/tempo-backend-go/internal/service/period"
	shiftService "github.com/tempohr/tempo-backend-go/internal/service/shift"
)

// ---- in-memory fakes ----

type fakeShiftStore struct {
	standing    map[string]shift.ShiftDefinition
	adjustments map[string]shift.ShiftAdjustment
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{
		standing:    make(map[string]shift.ShiftDefinition),
		adjustments: make(map[string]shift.ShiftAdjustment),
	}
}

func (f *fakeShiftStore) GetStandingShift(_ context.Context, employeeID string) (shift.ShiftDefinition, error) {
	def, ok := f.standing[employeeID]
	if !ok {
		return shift.ShiftDefinition{}, shift.ErrEmployeeShiftNotFound
	}
	return def, nil
}

func (f *fakeShiftStore) GetApprovedAdjustment(_ context.Context, employeeID string, date time.Time) (shift.ShiftAdjustment, error) {
	adj, ok := f.adjustments[employeeID+"|"+date.Format("2006-01-02")]
	if !ok {
		return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
	}
	return adj, nil
}

func (f *fakeShiftStore) CreateShift(_ context.Context, def shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	return def, nil
}

func (f *fakeShiftStore) GetShiftByID(_ context.Context, _ string) (shift.ShiftDefinition, error) {
	return shift.ShiftDefinition{}, shift.ErrShiftNotFound
}

func (f *fakeShiftStore) ListShifts(_ context.Context, _ string) ([]shift.ShiftDefinition, error) {
	return nil, nil
}

func (f *fakeShiftStore) AssignStandingShift(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeShiftStore) CreateAdjustment(_ context.Context, adj shift.ShiftAdjustment) (shift.ShiftAdjustment, error) {
	return adj, nil
}

func (f *fakeShiftStore) SetAdjustmentStatus(_ context.Context, _ string, _ shift.ApprovalStatus, _ string) (shift.ShiftAdjustment, error) {
	return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
}

type fakeOvertimeStore struct {
	windows []overtime.OvertimeWindow
}

func (f *fakeOvertimeStore) GetApprovedWindows(_ context.Context, employeeID string, date time.Time) ([]overtime.OvertimeWindow, error) {
	var out []overtime.OvertimeWindow
	for _, w := range f.windows {
		if w.EmployeeID == employeeID && w.Date.Equal(date) && w.Status == shift.ApprovalStatusApproved {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeOvertimeStore) CreateWindow(_ context.Context, w overtime.OvertimeWindow) (overtime.OvertimeWindow, error) {
	f.windows = append(f.windows, w)
	return w, nil
}

func (f *fakeOvertimeStore) SetWindowStatus(_ context.Context, _ string, _ shift.ApprovalStatus, _ string) (overtime.OvertimeWindow, error) {
	return overtime.OvertimeWindow{}, overtime.ErrWindowNotFound
}

func (f *fakeOvertimeStore) ListWindows(_ context.Context, _ string, _, _ time.Time) ([]overtime.OvertimeWindow, error) {
	return f.windows, nil
}

type fakeEventRepo struct {
	events []attendance.Event
	nextID int
}

func (f *fakeEventRepo) Append(_ context.Context, event attendance.Event) (attendance.Event, error) {
	f.nextID++
	event.ID = fmt.Sprintf("evt-%d", f.nextID)
	event.CreatedAt = time.Now().UTC()
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (attendance.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventRepo) GetOpenCheckIn(_ context.Context, employeeID string) (attendance.Event, error) {
	for i := len(f.events) - 1; i >= 0; i-- {
		e := f.events[i]
		if e.EmployeeID != employeeID {
			continue
		}
		switch e.Kind {
		case attendance.EventKindCheckOut:
			return attendance.Event{}, attendance.ErrEventNotFound
		case attendance.EventKindCheckIn:
			return e, nil
		}
	}
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventRepo) ListByEmployeeDay(_ context.Context, employeeID string, workDate time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.EmployeeID == employeeID && e.WorkDate.Equal(workDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListStaleOpenCheckIns(_ context.Context, cutoff time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.Kind == attendance.EventKindCheckIn && e.PeriodEndsAt.Before(cutoff) {
			if _, err := f.GetOpenCheckIn(context.Background(), e.EmployeeID); err == nil {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.EmployeeID == employeeID && !e.WorkDate.Before(from) && !e.WorkDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRateStore struct {
	settings map[string]payroll.RateSettings
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{settings: make(map[string]payroll.RateSettings)}
}

func (f *fakeRateStore) GetRateSettings(_ context.Context, companyID string) (payroll.RateSettings, error) {
	s, ok := f.settings[companyID]
	if !ok {
		return payroll.RateSettings{}, payroll.ErrRateSettingsNotFound
	}
	return s, nil
}

func (f *fakeRateStore) UpsertRateSettings(_ context.Context, s payroll.RateSettings) (payroll.RateSettings, error) {
	f.settings[s.CompanyID] = s
	return s, nil
}

type fakeSink struct {
	messages []string
}

func (f *fakeSink) Notify(_ context.Context, _ string, message string) {
	f.messages = append(f.messages, message)
}

// ---- fixtures ----

const (
	empID  = "emp-1"
	compID = "comp-1"
)

// Monday.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

type fixture struct {
	ledger attendance.Ledger
	shifts *fakeShiftStore
	ot     *fakeOvertimeStore
	events *fakeEventRepo
	rates  *fakeRateStore
	sink   *fakeSink
}

func newFixture() *fixture {
	shifts := newFakeShiftStore()
	shifts.standing[empID] = shift.ShiftDefinition{
		ID:        "shift-day",
		Name:      "Day",
		StartTime: shift.TimeOfDay{Hour: 8},
		EndTime:   shift.TimeOfDay{Hour: 17},
	}
	ot := &fakeOvertimeStore{}
	events := &fakeEventRepo{}
	rates := newFakeRateStore()
	sink := &fakeSink{}
	ledger := NewLedger(
		shiftService.NewResolver(shifts),
		periodService.NewClassifier(15*time.Minute),
		events,
		ot,
		rates,
		sink,
		10*time.Minute,
		15*time.Minute,
	)
	return &fixture{ledger: ledger, shifts: shifts, ot: ot, events: events, rates: rates, sink: sink}
}

func checkReq(t time.Time) attendance.CheckRequest {
	return attendance.CheckRequest{EmployeeID: empID, CompanyID: compID, At: t}
}

// ---- check-in ----

func TestRecordCheckIn_WithinLeadWindow(t *testing.T) {
	f := newFixture()

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(7, 55)))

	require.NoError(t, err)
	assert.Equal(t, attendance.EventKindCheckIn, event.Kind)
	assert.False(t, event.IsLate)
	assert.True(t, event.IsEarly)
	assert.False(t, event.IsOvertime)
	assert.Equal(t, at(8, 0), event.PeriodStartsAt)
	assert.Equal(t, monday, event.WorkDate)
}

func TestRecordCheckIn_TooEarly(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(7, 30)))

	assert.ErrorIs(t, err, attendance.ErrEarlyCheckIn)
	assert.Empty(t, f.events.events)
}

func TestRecordCheckIn_LateBeyondGrace(t *testing.T) {
	f := newFixture()

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 20)))

	require.NoError(t, err)
	assert.True(t, event.IsLate)
	assert.Equal(t, 20, event.LateMinutes)
}

func TestRecordCheckIn_WithinGraceIsNotLate(t *testing.T) {
	f := newFixture()

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 7)))

	require.NoError(t, err)
	assert.False(t, event.IsLate)
	assert.Equal(t, 7, event.LateMinutes)
}

func TestRecordCheckIn_DuplicateOpenSession(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	_, err = f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 5)))

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Len(t, f.events.events, 1)
}

func TestRecordCheckIn_AfterAllPeriods(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(20, 0)))

	assert.ErrorIs(t, err, attendance.ErrEarlyCheckIn)
}

func TestRecordCheckIn_NothingScheduled(t *testing.T) {
	f := newFixture()
	delete(f.shifts.standing, empID)

	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))

	assert.ErrorIs(t, err, shift.ErrEmployeeShiftNotFound)
}

func TestRecordCheckIn_DuringOvertimeWindow(t *testing.T) {
	f := newFixture()
	f.ot.windows = append(f.ot.windows, overtime.OvertimeWindow{
		ID:         "ot-1",
		EmployeeID: empID,
		Date:       monday,
		StartTime:  shift.TimeOfDay{Hour: 17, Minute: 10},
		EndTime:    shift.TimeOfDay{Hour: 19},
		Status:     shift.ApprovalStatusApproved,
	})

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(18, 0)))

	require.NoError(t, err)
	assert.True(t, event.IsOvertime)
	assert.Equal(t, 2, event.PeriodSequence)
}

func TestRecordCheckIn_TransitionRollsIntoOvertime(t *testing.T) {
	f := newFixture()
	f.ot.windows = append(f.ot.windows, overtime.OvertimeWindow{
		ID:         "ot-1",
		EmployeeID: empID,
		Date:       monday,
		StartTime:  shift.TimeOfDay{Hour: 17, Minute: 10},
		EndTime:    shift.TimeOfDay{Hour: 19},
		Status:     shift.ApprovalStatusApproved,
	})

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(17, 5)))

	require.NoError(t, err)
	assert.True(t, event.IsOvertime)
	assert.True(t, event.IsEarly)
	assert.Equal(t, at(17, 10), event.PeriodStartsAt)
}

func TestRecordCheckIn_CompanyGraceOverridesDefault(t *testing.T) {
	f := newFixture()
	f.rates.settings[compID] = payroll.RateSettings{
		CompanyID:   compID,
		GracePeriod: 30 * time.Minute,
	}

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 20)))

	require.NoError(t, err)
	assert.False(t, event.IsLate)
	assert.Equal(t, 20, event.LateMinutes)
}

func TestRecordCheckIn_CompanyTransitionBufferOverridesDefault(t *testing.T) {
	f := newFixture()
	f.ot.windows = append(f.ot.windows, overtime.OvertimeWindow{
		ID:         "ot-1",
		EmployeeID: empID,
		Date:       monday,
		StartTime:  shift.TimeOfDay{Hour: 18},
		EndTime:    shift.TimeOfDay{Hour: 20},
		Status:     shift.ApprovalStatusApproved,
	})

	// One hour between shift end and overtime start: the default 15m
	// buffer rejects a 17:30 check-in as too early.
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(17, 30)))
	assert.ErrorIs(t, err, attendance.ErrEarlyCheckIn)

	f.rates.settings[compID] = payroll.RateSettings{
		CompanyID:        compID,
		TransitionBuffer: 90 * time.Minute,
	}

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(17, 30)))

	require.NoError(t, err)
	assert.True(t, event.IsOvertime)
	assert.Equal(t, at(18, 0), event.PeriodStartsAt)
}

func TestRecordCheckIn_WindowsSortedBeforeSequencing(t *testing.T) {
	f := newFixture()
	// Stored out of start order; sequencing must follow start times.
	f.ot.windows = append(f.ot.windows,
		overtime.OvertimeWindow{
			ID:         "ot-late",
			EmployeeID: empID,
			Date:       monday,
			StartTime:  shift.TimeOfDay{Hour: 19},
			EndTime:    shift.TimeOfDay{Hour: 21},
			Status:     shift.ApprovalStatusApproved,
		},
		overtime.OvertimeWindow{
			ID:         "ot-early",
			EmployeeID: empID,
			Date:       monday,
			StartTime:  shift.TimeOfDay{Hour: 17, Minute: 10},
			EndTime:    shift.TimeOfDay{Hour: 19},
			Status:     shift.ApprovalStatusApproved,
		},
	)

	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(17, 30)))

	require.NoError(t, err)
	assert.True(t, event.IsOvertime)
	assert.Equal(t, at(17, 10), event.PeriodStartsAt)
	assert.Equal(t, 2, event.PeriodSequence)
}

func TestRecordCheckIn_OvernightShiftPreviousDay(t *testing.T) {
	f := newFixture()
	f.shifts.standing[empID] = shift.ShiftDefinition{
		ID:        "shift-night",
		Name:      "Night",
		StartTime: shift.TimeOfDay{Hour: 22},
		EndTime:   shift.TimeOfDay{Hour: 6},
	}

	// 02:00 Tuesday belongs to the shift that started 22:00 Monday.
	event, err := f.ledger.RecordCheckIn(context.Background(), checkReq(monday.AddDate(0, 0, 1).Add(2*time.Hour)))

	require.NoError(t, err)
	assert.Equal(t, monday, event.WorkDate)
	assert.Equal(t, at(22, 0), event.PeriodStartsAt)
	assert.True(t, event.IsLate)
}

// ---- check-out ----

func TestRecordCheckOut_NoOpenSession(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.RecordCheckOut(context.Background(), checkReq(at(17, 0)))

	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
}

func TestRecordCheckOut_Early(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	event, err := f.ledger.RecordCheckOut(context.Background(), checkReq(at(16, 0)))

	require.NoError(t, err)
	assert.True(t, event.IsEarly)
	assert.False(t, event.IsLate)
	assert.Empty(t, f.sink.messages)
}

func TestRecordCheckOut_LateWithoutCoverageNotifies(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	event, err := f.ledger.RecordCheckOut(context.Background(), checkReq(at(17, 40)))

	require.NoError(t, err)
	assert.True(t, event.IsLate)
	assert.Equal(t, 40, event.LateMinutes)
	assert.Len(t, f.sink.messages, 1)
	assert.Len(t, f.events.events, 2)
}

func TestRecordCheckOut_LateCoveredByOvertime(t *testing.T) {
	f := newFixture()
	f.ot.windows = append(f.ot.windows, overtime.OvertimeWindow{
		ID:         "ot-1",
		EmployeeID: empID,
		Date:       monday,
		StartTime:  shift.TimeOfDay{Hour: 17, Minute: 10},
		EndTime:    shift.TimeOfDay{Hour: 19},
		Status:     shift.ApprovalStatusApproved,
	})
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	event, err := f.ledger.RecordCheckOut(context.Background(), checkReq(at(17, 5)))

	require.NoError(t, err)
	assert.False(t, event.IsLate)
	assert.Empty(t, f.sink.messages)
}

// ---- summaries and corrections ----

func TestDaySummary_CompleteDay(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)
	_, err = f.ledger.RecordCheckOut(context.Background(), checkReq(at(17, 0)))
	require.NoError(t, err)

	summary, err := f.ledger.DaySummary(context.Background(), empID, monday)

	require.NoError(t, err)
	assert.True(t, summary.Complete)
	assert.Equal(t, 0, summary.OpenPeriods)
	assert.Equal(t, 540, summary.WorkedMinutes)
	assert.Equal(t, 0, summary.OvertimeMinutes)
}

func TestDaySummary_OpenPeriod(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	summary, err := f.ledger.DaySummary(context.Background(), empID, monday)

	require.NoError(t, err)
	assert.False(t, summary.Complete)
	assert.Equal(t, 1, summary.OpenPeriods)
}

func TestRecordCorrection_AppendsWithoutMutatingOriginal(t *testing.T) {
	f := newFixture()
	original, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 20)))
	require.NoError(t, err)

	corrected, err := f.ledger.RecordCorrection(context.Background(), attendance.CorrectionRequest{
		EventID:     original.ID,
		EmployeeID:  empID,
		Kind:        string(attendance.EventKindCheckIn),
		At:          at(8, 0).Format(time.RFC3339),
		CorrectedBy: "admin-1",
	})

	require.NoError(t, err)
	require.NotNil(t, corrected.CorrectsEventID)
	assert.Equal(t, original.ID, *corrected.CorrectsEventID)
	assert.Equal(t, original.WorkDate, corrected.WorkDate)
	assert.Equal(t, original.PeriodSequence, corrected.PeriodSequence)

	stored, err := f.events.GetByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, original, stored)
	assert.Len(t, f.events.events, 2)
}

func TestRecordCorrection_WrongEmployee(t *testing.T) {
	f := newFixture()
	original, err := f.ledger.RecordCheckIn(context.Background(), checkReq(at(8, 0)))
	require.NoError(t, err)

	_, err = f.ledger.RecordCorrection(context.Background(), attendance.CorrectionRequest{
		EventID:     original.ID,
		EmployeeID:  "emp-2",
		Kind:        string(attendance.EventKindCheckOut),
		At:          at(17, 0).Format(time.RFC3339),
		CorrectedBy: "admin-1",
	})

	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}
