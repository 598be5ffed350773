package payroll

import (
	"context"
	"time"
)

// RateSettingsProvider supplies the rate tables as data. The engine
// never hard-codes multipliers, brackets, or buffers.
type RateSettingsProvider interface {
	// GetRateSettings returns the company's rate settings, or
	// ErrRateSettingsNotFound when none are stored.
	GetRateSettings(ctx context.Context, companyID string) (RateSettings, error)

	UpsertRateSettings(ctx context.Context, settings RateSettings) (RateSettings, error)
}

// PayrollRepository persists payroll periods and their cached lines.
type PayrollRepository interface {
	CreatePeriod(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, id string, companyID string) (PayrollPeriod, error)
	GetPeriodByRange(ctx context.Context, companyID string, start, end time.Time) (PayrollPeriod, error)
	ListPeriods(ctx context.Context, companyID string) ([]PayrollPeriod, error)
	SetPeriodStatus(ctx context.Context, id string, status PeriodStatus, actorID string) error

	// UpsertLine replaces the cached line for (period, employee).
	// Lines are derived data; regenerating a draft period overwrites
	// its cache.
	UpsertLine(ctx context.Context, line PayrollLine) (PayrollLine, error)
	ListLines(ctx context.Context, periodID string) ([]PayrollLine, error)
	GetLine(ctx context.Context, periodID, employeeID string) (PayrollLine, error)
}

// EmployeeDirectory lists the employees a payroll run covers, with
// their pay inputs.
type EmployeeDirectory interface {
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]EmployeeInput, error)
	GetByID(ctx context.Context, employeeID string) (EmployeeInput, error)
}
