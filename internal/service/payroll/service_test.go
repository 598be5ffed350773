package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/holiday"
	"github.com/tempohr/tempo-backend-go/internal/domain/leave"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/domain/period"
)

// txMarker tags contexts produced by the test transaction boundary so
// the fakes can verify writes run inside it.
type txMarker struct{}

func inTx(ctx context.Context) bool {
	return ctx.Value(txMarker{}) != nil
}

type fakePayrollRepo struct {
	period *payroll.PayrollPeriod
	lines  map[string]payroll.PayrollLine

	createdInTx  bool
	upsertedInTx bool
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{lines: make(map[string]payroll.PayrollLine)}
}

func (f *fakePayrollRepo) CreatePeriod(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	f.createdInTx = inTx(ctx)
	p.ID = "pp-1"
	f.period = &p
	return p, nil
}

func (f *fakePayrollRepo) GetPeriodByID(_ context.Context, id string, companyID string) (payroll.PayrollPeriod, error) {
	if f.period == nil || f.period.ID != id || f.period.CompanyID != companyID {
		return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
	}
	return *f.period, nil
}

func (f *fakePayrollRepo) GetPeriodByRange(_ context.Context, companyID string, start, end time.Time) (payroll.PayrollPeriod, error) {
	if f.period == nil || f.period.CompanyID != companyID ||
		!f.period.StartDate.Equal(start) || !f.period.EndDate.Equal(end) {
		return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
	}
	return *f.period, nil
}

func (f *fakePayrollRepo) ListPeriods(_ context.Context, _ string) ([]payroll.PayrollPeriod, error) {
	if f.period == nil {
		return nil, nil
	}
	return []payroll.PayrollPeriod{*f.period}, nil
}

func (f *fakePayrollRepo) SetPeriodStatus(_ context.Context, _ string, status payroll.PeriodStatus, _ string) error {
	if f.period == nil {
		return payroll.ErrPeriodNotFound
	}
	f.period.Status = status
	return nil
}

func (f *fakePayrollRepo) UpsertLine(ctx context.Context, line payroll.PayrollLine) (payroll.PayrollLine, error) {
	f.upsertedInTx = inTx(ctx)
	line.ID = "line-" + line.EmployeeID
	f.lines[line.PeriodID+"|"+line.EmployeeID] = line
	return line, nil
}

func (f *fakePayrollRepo) ListLines(_ context.Context, periodID string) ([]payroll.PayrollLine, error) {
	var out []payroll.PayrollLine
	for _, l := range f.lines {
		if l.PeriodID == periodID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) GetLine(_ context.Context, periodID, employeeID string) (payroll.PayrollLine, error) {
	l, ok := f.lines[periodID+"|"+employeeID]
	if !ok {
		return payroll.PayrollLine{}, payroll.ErrLineNotFound
	}
	return l, nil
}

type fakeRatesProvider struct {
	settings *payroll.RateSettings
}

func (f *fakeRatesProvider) GetRateSettings(_ context.Context, _ string) (payroll.RateSettings, error) {
	if f.settings == nil {
		return payroll.RateSettings{}, payroll.ErrRateSettingsNotFound
	}
	return *f.settings, nil
}

func (f *fakeRatesProvider) UpsertRateSettings(_ context.Context, s payroll.RateSettings) (payroll.RateSettings, error) {
	f.settings = &s
	return s, nil
}

type fakeDirectory struct {
	staff []payroll.EmployeeInput
}

func (f *fakeDirectory) GetActiveByCompanyID(_ context.Context, _ string) ([]payroll.EmployeeInput, error) {
	return f.staff, nil
}

func (f *fakeDirectory) GetByID(_ context.Context, employeeID string) (payroll.EmployeeInput, error) {
	for _, e := range f.staff {
		if e.ID == employeeID {
			return e, nil
		}
	}
	return payroll.EmployeeInput{}, payroll.ErrEmployeeNotFound
}

type fakeEventStore struct {
	events []attendance.Event
}

func (f *fakeEventStore) Append(_ context.Context, e attendance.Event) (attendance.Event, error) {
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, _ string) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventStore) GetOpenCheckIn(_ context.Context, _ string) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventStore) ListByEmployeeDay(_ context.Context, _ string, _ time.Time) ([]attendance.Event, error) {
	return nil, nil
}

func (f *fakeEventStore) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	var out []attendance.Event
	for _, e := range f.events {
		if e.EmployeeID == employeeID && !e.WorkDate.Before(from) && !e.WorkDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListStaleOpenCheckIns(_ context.Context, _ time.Time) ([]attendance.Event, error) {
	return nil, nil
}

type fakeLeaveStore struct{}

func (f *fakeLeaveStore) GetApprovedLeave(_ context.Context, _ string, _, _ time.Time) ([]leave.Record, error) {
	return nil, nil
}

func (f *fakeLeaveStore) CreateRecord(_ context.Context, rec leave.Record) (leave.Record, error) {
	return rec, nil
}

type fakeHolidayStore struct{}

func (f *fakeHolidayStore) IsHoliday(_ context.Context, _ time.Time) (*holiday.Holiday, error) {
	return nil, nil
}

func (f *fakeHolidayStore) ListRange(_ context.Context, _, _ time.Time) ([]holiday.Holiday, error) {
	return nil, nil
}

type serviceFixture struct {
	svc           *PayrollServiceImpl
	repo          *fakePayrollRepo
	rates         *fakeRatesProvider
	events        *fakeEventStore
	transactCalls int
}

func newServiceFixture() *serviceFixture {
	settings := testSettings()
	f := &serviceFixture{
		repo:   newFakePayrollRepo(),
		rates:  &fakeRatesProvider{settings: &settings},
		events: &fakeEventStore{},
	}
	f.svc = &PayrollServiceImpl{
		calculator:  NewCalculator(),
		payrollRepo: f.repo,
		rates:       f.rates,
		employees:   &fakeDirectory{staff: []payroll.EmployeeInput{testEmployee()}},
		events:      f.events,
		leaveStore:  &fakeLeaveStore{},
		holidays:    &fakeHolidayStore{},
	}
	f.svc.transact = func(ctx context.Context, fn func(ctx context.Context) error) error {
		f.transactCalls++
		return fn(context.WithValue(ctx, txMarker{}, true))
	}
	return f
}

func generateReq() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		StartDate: periodStart.Format("2006-01-02"),
		EndDate:   periodEnd.Format("2006-01-02"),
	}
}

func TestGeneratePayroll_PersistsInsideTransaction(t *testing.T) {
	f := newServiceFixture()
	f.events.events = dayEvents("d1", periodStart.AddDate(0, 0, 2), period.PeriodTypeRegular, 8, 16)

	resp, err := f.svc.GeneratePayroll(context.Background(), "comp-1", generateReq())

	require.NoError(t, err)
	assert.Equal(t, 1, f.transactCalls)
	assert.True(t, f.repo.createdInTx, "period must be created on the transaction context")
	assert.True(t, f.repo.upsertedInTx, "lines must be upserted on the transaction context")
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, string(payroll.PeriodStatusDraft), resp.Status)
	assert.Len(t, f.repo.lines, 1)
}

func TestGeneratePayroll_NonDraftPeriodRejected(t *testing.T) {
	f := newServiceFixture()
	f.repo.period = &payroll.PayrollPeriod{
		ID:        "pp-1",
		CompanyID: "comp-1",
		StartDate: periodStart,
		EndDate:   periodEnd,
		Status:    payroll.PeriodStatusPaid,
	}

	_, err := f.svc.GeneratePayroll(context.Background(), "comp-1", generateReq())

	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyPaid)
	assert.Empty(t, f.repo.lines)
}

func TestGeneratePayroll_MissingRateSettings(t *testing.T) {
	f := newServiceFixture()
	f.rates.settings = nil

	_, err := f.svc.GeneratePayroll(context.Background(), "comp-1", generateReq())

	assert.ErrorIs(t, err, payroll.ErrInvalidRateSettings)
	assert.Equal(t, 0, f.transactCalls)
}
