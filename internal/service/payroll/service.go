package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/holiday"
	"github.com/tempohr/tempo-backend-go/internal/domain/leave"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
	"github.com/tempohr/tempo-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db          *database.DB
	calculator  *Calculator
	payrollRepo payroll.PayrollRepository
	rates       payroll.RateSettingsProvider
	employees   payroll.EmployeeDirectory
	events      attendance.EventRepository
	leaveStore  leave.LeaveStore
	holidays    holiday.HolidayStore

	// transact runs fn with a transaction-carrying context so every
	// repository call inside it lands on one pgx.Tx.
	transact func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewPayrollService(
	db *database.DB,
	calculator *Calculator,
	payrollRepo payroll.PayrollRepository,
	rates payroll.RateSettingsProvider,
	employees payroll.EmployeeDirectory,
	events attendance.EventRepository,
	leaveStore leave.LeaveStore,
	holidays holiday.HolidayStore,
) payroll.PayrollService {
	s := &PayrollServiceImpl{
		db:          db,
		calculator:  calculator,
		payrollRepo: payrollRepo,
		rates:       rates,
		employees:   employees,
		events:      events,
		leaveStore:  leaveStore,
		holidays:    holidays,
	}
	s.transact = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			return fn(context.WithValue(ctx, "tx", tx))
		})
	}
	return s
}

// GeneratePayroll implements payroll.PayrollService. The run is
// chunked per employee: one employee's bad data skips that line
// instead of aborting the batch, but unusable rate settings fail the
// whole run up front.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, companyID string, req payroll.GeneratePayrollRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	settings, err := s.rates.GetRateSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrRateSettingsNotFound) {
			return payroll.PeriodResponse{}, payroll.ErrInvalidRateSettings
		}
		return payroll.PeriodResponse{}, fmt.Errorf("failed to get rate settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	staff, err := s.coveredEmployees(ctx, companyID, req.EmployeeIDs)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	holidayList, err := s.holidays.ListRange(ctx, start, end)
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	// The period row and its cached lines commit or roll back as one
	// unit; a half-written run never becomes visible.
	var pp payroll.PayrollPeriod
	var lines []payroll.PayrollLine
	err = s.transact(ctx, func(txCtx context.Context) error {
		pp, err = s.payrollRepo.GetPeriodByRange(txCtx, companyID, start, end)
		switch {
		case err == nil:
			if pp.Status != payroll.PeriodStatusDraft {
				return payroll.ErrPeriodAlreadyPaid
			}
		case errors.Is(err, payroll.ErrPeriodNotFound):
			pp, err = s.payrollRepo.CreatePeriod(txCtx, payroll.PayrollPeriod{
				CompanyID: companyID,
				StartDate: start,
				EndDate:   end,
				Status:    payroll.PeriodStatusDraft,
			})
			if err != nil {
				return fmt.Errorf("failed to create payroll period: %w", err)
			}
		default:
			return fmt.Errorf("failed to get payroll period: %w", err)
		}

		for _, emp := range staff {
			events, err := s.events.ListByEmployeeRange(txCtx, emp.ID, start, end)
			if err != nil {
				return fmt.Errorf("failed to list events for employee %s: %w", emp.ID, err)
			}
			leaves, err := s.leaveStore.GetApprovedLeave(txCtx, emp.ID, start, end)
			if err != nil {
				return fmt.Errorf("failed to get leave for employee %s: %w", emp.ID, err)
			}

			line, err := s.calculator.Calculate(emp, events, leaves, holidayList, start, end, settings)
			if err != nil {
				if errors.Is(err, payroll.ErrEmployeeHasNoRate) {
					slog.Warn("Skipping employee without hourly rate", "employee_id", emp.ID)
					continue
				}
				return fmt.Errorf("failed to calculate line for employee %s: %w", emp.ID, err)
			}

			line.PeriodID = pp.ID
			stored, err := s.payrollRepo.UpsertLine(txCtx, line)
			if err != nil {
				return fmt.Errorf("failed to store line for employee %s: %w", emp.ID, err)
			}
			lines = append(lines, stored)
		}
		return nil
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	pp.Lines = lines
	return mapPeriodResponse(pp), nil
}

func (s *PayrollServiceImpl) coveredEmployees(ctx context.Context, companyID string, ids []string) ([]payroll.EmployeeInput, error) {
	all, err := s.employees.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var filtered []payroll.EmployeeInput
	for _, emp := range all {
		if wanted[emp.ID] {
			filtered = append(filtered, emp)
		}
	}
	return filtered, nil
}

// GetPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, companyID, periodID string) (payroll.PeriodResponse, error) {
	pp, err := s.payrollRepo.GetPeriodByID(ctx, periodID, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	lines, err := s.payrollRepo.ListLines(ctx, pp.ID)
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	pp.Lines = lines
	return mapPeriodResponse(pp), nil
}

// ListPeriods implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, companyID string) ([]payroll.PeriodResponse, error) {
	periods, err := s.payrollRepo.ListPeriods(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	result := make([]payroll.PeriodResponse, 0, len(periods))
	for _, pp := range periods {
		result = append(result, mapPeriodResponse(pp))
	}
	return result, nil
}

// ApprovePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ApprovePeriod(ctx context.Context, companyID, actorID string, req payroll.ApprovePeriodRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	pp, err := s.payrollRepo.GetPeriodByID(ctx, req.PeriodID, companyID)
	if err != nil {
		return err
	}
	if pp.Status == payroll.PeriodStatusPaid {
		return payroll.ErrPeriodAlreadyPaid
	}
	return s.payrollRepo.SetPeriodStatus(ctx, pp.ID, payroll.PeriodStatusApproved, actorID)
}

// MarkPeriodPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPeriodPaid(ctx context.Context, companyID, actorID string, req payroll.ApprovePeriodRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	pp, err := s.payrollRepo.GetPeriodByID(ctx, req.PeriodID, companyID)
	if err != nil {
		return err
	}
	if pp.Status != payroll.PeriodStatusApproved {
		return payroll.ErrPeriodNotApproved
	}
	return s.payrollRepo.SetPeriodStatus(ctx, pp.ID, payroll.PeriodStatusPaid, actorID)
}

func mapPeriodResponse(pp payroll.PayrollPeriod) payroll.PeriodResponse {
	lines := make([]payroll.PayrollLineResponse, 0, len(pp.Lines))
	for _, l := range pp.Lines {
		lines = append(lines, payroll.ToLineResponse(l))
	}
	return payroll.PeriodResponse{
		ID:        pp.ID,
		CompanyID: pp.CompanyID,
		StartDate: pp.StartDate.Format("2006-01-02"),
		EndDate:   pp.EndDate.Format("2006-01-02"),
		Status:    string(pp.Status),
		Lines:     lines,
	}
}
