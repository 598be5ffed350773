package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const periodColumns = `
	id, company_id, start_date, end_date, status,
	approved_by, approved_at, paid_at, created_at, updated_at
`

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.StartDate, &p.EndDate, &p.Status,
		&p.ApprovedBy, &p.ApprovedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreatePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) CreatePeriod(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (company_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, p.CompanyID, p.StartDate, p.EndDate, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return p, nil
}

// GetPeriodByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string, companyID string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1 AND company_id = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

// GetPeriodByRange implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodByRange(ctx context.Context, companyID string, start, end time.Time) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + periodColumns + `
		FROM payroll_periods
		WHERE company_id = $1 AND start_date = $2 AND end_date = $3
		LIMIT 1
	`

	p, err := scanPeriod(q.QueryRow(ctx, query, companyID, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period by range: %w", err)
	}

	return p, nil
}

// ListPeriods implements payroll.PayrollRepository.
func (r *payrollRepository) ListPeriods(ctx context.Context, companyID string) ([]payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE company_id = $1 ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PayrollPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll periods: %w", err)
	}

	return periods, nil
}

// SetPeriodStatus implements payroll.PayrollRepository.
func (r *payrollRepository) SetPeriodStatus(ctx context.Context, id string, status payroll.PeriodStatus, actorID string) error {
	q := GetQuerier(ctx, r.db)

	switch status {
	case payroll.PeriodStatusApproved:
		query := `
			UPDATE payroll_periods
			SET status = $2, approved_by = $3, approved_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`
		tag, err := q.Exec(ctx, query, id, status, actorID)
		if err != nil {
			return fmt.Errorf("failed to set payroll period status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrPeriodNotFound
		}

	case payroll.PeriodStatusPaid:
		query := `
			UPDATE payroll_periods
			SET status = $2, paid_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`
		tag, err := q.Exec(ctx, query, id, status)
		if err != nil {
			return fmt.Errorf("failed to set payroll period status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrPeriodNotFound
		}

	default:
		query := `UPDATE payroll_periods SET status = $2, updated_at = NOW() WHERE id = $1`
		tag, err := q.Exec(ctx, query, id, status)
		if err != nil {
			return fmt.Errorf("failed to set payroll period status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrPeriodNotFound
		}
	}

	return nil
}

// UpsertLine implements payroll.PayrollRepository.
func (r *payrollRepository) UpsertLine(ctx context.Context, line payroll.PayrollLine) (payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_lines (
			period_id, employee_id, period_start, period_end,
			regular_hours, overtime_hours, holiday_hours, holiday_overtime_hours,
			sick_leave_hours, annual_leave_hours, business_leave_hours, unpaid_leave_hours,
			late_minutes,
			base_amount, overtime_amount, holiday_amount, allowances, gross_earnings,
			social_security, income_tax, late_deduction, unpaid_leave_deduction,
			other_deductions, total_deductions, net_pay
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		ON CONFLICT (period_id, employee_id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			holiday_hours = EXCLUDED.holiday_hours,
			holiday_overtime_hours = EXCLUDED.holiday_overtime_hours,
			sick_leave_hours = EXCLUDED.sick_leave_hours,
			annual_leave_hours = EXCLUDED.annual_leave_hours,
			business_leave_hours = EXCLUDED.business_leave_hours,
			unpaid_leave_hours = EXCLUDED.unpaid_leave_hours,
			late_minutes = EXCLUDED.late_minutes,
			base_amount = EXCLUDED.base_amount,
			overtime_amount = EXCLUDED.overtime_amount,
			holiday_amount = EXCLUDED.holiday_amount,
			allowances = EXCLUDED.allowances,
			gross_earnings = EXCLUDED.gross_earnings,
			social_security = EXCLUDED.social_security,
			income_tax = EXCLUDED.income_tax,
			late_deduction = EXCLUDED.late_deduction,
			unpaid_leave_deduction = EXCLUDED.unpaid_leave_deduction,
			other_deductions = EXCLUDED.other_deductions,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		line.PeriodID,
		line.EmployeeID,
		line.PeriodStart,
		line.PeriodEnd,
		line.RegularHours,
		line.OvertimeHours,
		line.HolidayHours,
		line.HolidayOvertimeHours,
		line.Leave.Sick,
		line.Leave.Annual,
		line.Leave.Business,
		line.Leave.Unpaid,
		line.LateMinutes,
		line.BaseAmount,
		line.OvertimeAmount,
		line.HolidayAmount,
		line.Allowances,
		line.GrossEarnings,
		line.SocialSecurity,
		line.IncomeTax,
		line.LateDeduction,
		line.UnpaidLeaveDeduction,
		line.OtherDeductions,
		line.TotalDeductions,
		line.NetPay,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)

	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to upsert payroll line: %w", err)
	}

	return line, nil
}

const lineColumns = `
	id, period_id, employee_id, period_start, period_end,
	regular_hours, overtime_hours, holiday_hours, holiday_overtime_hours,
	sick_leave_hours, annual_leave_hours, business_leave_hours, unpaid_leave_hours,
	late_minutes,
	base_amount, overtime_amount, holiday_amount, allowances, gross_earnings,
	social_security, income_tax, late_deduction, unpaid_leave_deduction,
	other_deductions, total_deductions, net_pay,
	created_at, updated_at
`

func scanLine(row pgx.Row) (payroll.PayrollLine, error) {
	var line payroll.PayrollLine
	err := row.Scan(
		&line.ID, &line.PeriodID, &line.EmployeeID, &line.PeriodStart, &line.PeriodEnd,
		&line.RegularHours, &line.OvertimeHours, &line.HolidayHours, &line.HolidayOvertimeHours,
		&line.Leave.Sick, &line.Leave.Annual, &line.Leave.Business, &line.Leave.Unpaid,
		&line.LateMinutes,
		&line.BaseAmount, &line.OvertimeAmount, &line.HolidayAmount, &line.Allowances, &line.GrossEarnings,
		&line.SocialSecurity, &line.IncomeTax, &line.LateDeduction, &line.UnpaidLeaveDeduction,
		&line.OtherDeductions, &line.TotalDeductions, &line.NetPay,
		&line.CreatedAt, &line.UpdatedAt,
	)
	return line, err
}

// ListLines implements payroll.PayrollRepository.
func (r *payrollRepository) ListLines(ctx context.Context, periodID string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lineColumns + ` FROM payroll_lines WHERE period_id = $1 ORDER BY employee_id ASC`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayrollLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll lines: %w", err)
	}

	return lines, nil
}

// GetLine implements payroll.PayrollRepository.
func (r *payrollRepository) GetLine(ctx context.Context, periodID, employeeID string) (payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lineColumns + ` FROM payroll_lines WHERE period_id = $1 AND employee_id = $2`

	line, err := scanLine(q.QueryRow(ctx, query, periodID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollLine{}, payroll.ErrLineNotFound
		}
		return payroll.PayrollLine{}, fmt.Errorf("failed to get payroll line: %w", err)
	}

	return line, nil
}
