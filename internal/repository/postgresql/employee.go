package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) payroll.EmployeeDirectory {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.hourly_rate, e.daily_wage,
	COALESCE((SELECT SUM(amount) FROM employee_allowances WHERE employee_id = e.id), 0),
	COALESCE((SELECT SUM(amount) FROM employee_deductions WHERE employee_id = e.id), 0)
`

// GetActiveByCompanyID implements payroll.EmployeeDirectory.
func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]payroll.EmployeeInput, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.company_id = $1 AND e.status = 'active'
		ORDER BY e.id ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []payroll.EmployeeInput
	for rows.Next() {
		var emp payroll.EmployeeInput
		err := rows.Scan(&emp.ID, &emp.HourlyRate, &emp.DailyWage, &emp.Allowances, &emp.OtherDeductions)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetByID implements payroll.EmployeeDirectory.
func (r *employeeRepository) GetByID(ctx context.Context, employeeID string) (payroll.EmployeeInput, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1`

	var emp payroll.EmployeeInput
	err := q.QueryRow(ctx, query, employeeID).
		Scan(&emp.ID, &emp.HourlyRate, &emp.DailyWage, &emp.Allowances, &emp.OtherDeductions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.EmployeeInput{}, payroll.ErrEmployeeNotFound
		}
		return payroll.EmployeeInput{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}
