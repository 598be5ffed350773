package payroll

import (
	"context"
)

// PayrollService orchestrates payroll runs over the event log.
type PayrollService interface {
	// GeneratePayroll recomputes lines for every covered employee in
	// the requested range, persisting them as a draft period cache.
	// Runs are chunked per employee so one bad employee never blocks
	// the batch.
	GeneratePayroll(ctx context.Context, companyID string, req GeneratePayrollRequest) (PeriodResponse, error)

	GetPeriod(ctx context.Context, companyID, periodID string) (PeriodResponse, error)
	ListPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error)

	// ApprovePeriod moves a draft period to approved; MarkPeriodPaid
	// moves an approved period to paid. Pay state never moves
	// backwards.
	ApprovePeriod(ctx context.Context, companyID, actorID string, req ApprovePeriodRequest) error
	MarkPeriodPaid(ctx context.Context, companyID, actorID string, req ApprovePeriodRequest) error
}
