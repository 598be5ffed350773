package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket is one row of the progressive income tax table. A nil
// UpTo marks the unbounded top bracket and terminates the walk.
type TaxBracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// RateSettings carries every rate the calculator consumes. The engine
// never hard-codes rate data; settings arrive from a
// RateSettingsProvider.
type RateSettings struct {
	ID        string
	CompanyID string

	// OvertimeMultiplier applies to overtime inside shift hours,
	// HolidayMultiplier to hours worked on holiday dates.
	OvertimeMultiplier decimal.Decimal
	HolidayMultiplier  decimal.Decimal

	TaxBrackets []TaxBracket

	SocialSecurityRate    decimal.Decimal
	SocialSecurityCeiling decimal.Decimal

	// DailyWorkHours converts leave days into hour-equivalents.
	DailyWorkHours decimal.Decimal

	GracePeriod      time.Duration
	TransitionBuffer time.Duration
	// LateDeductionThresholdMinutes: late-arrival deductions apply
	// only past this many accumulated late minutes.
	LateDeductionThresholdMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate rejects settings the calculator cannot safely use.
func (s RateSettings) Validate() error {
	if s.OvertimeMultiplier.IsNegative() || s.HolidayMultiplier.IsNegative() {
		return ErrInvalidRateSettings
	}
	if s.SocialSecurityRate.IsNegative() || s.SocialSecurityCeiling.IsNegative() {
		return ErrInvalidRateSettings
	}
	if !s.DailyWorkHours.IsPositive() {
		return ErrInvalidRateSettings
	}
	var prev *decimal.Decimal
	for _, b := range s.TaxBrackets {
		if b.Rate.IsNegative() {
			return ErrInvalidRateSettings
		}
		if b.UpTo != nil {
			if b.UpTo.IsNegative() || (prev != nil && !b.UpTo.GreaterThan(*prev)) {
				return ErrInvalidRateSettings
			}
			prev = b.UpTo
		}
	}
	return nil
}

// EmployeeInput is the plain employee data the calculator needs.
type EmployeeInput struct {
	ID         string
	HourlyRate decimal.Decimal
	// DailyWage feeds the late-arrival deduction; when zero it is
	// derived from HourlyRate and DailyWorkHours.
	DailyWage  decimal.Decimal
	Allowances decimal.Decimal
	// OtherDeductions are fixed component deductions assigned to the
	// employee (insurance, loans), summed by the orchestration layer.
	OtherDeductions decimal.Decimal
}

// LeaveHours holds the hour-equivalent leave buckets per type.
type LeaveHours struct {
	Sick     decimal.Decimal
	Annual   decimal.Decimal
	Business decimal.Decimal
	Unpaid   decimal.Decimal
}

// PayrollLine is the computed hours/earnings/deductions record for
// one employee over one payroll period. It is derived data,
// recomputable from the event log; persisted lines are a cache and an
// approval record, never the source of truth.
type PayrollLine struct {
	ID         string
	EmployeeID string
	PeriodID   string

	PeriodStart time.Time
	PeriodEnd   time.Time

	RegularHours         decimal.Decimal
	OvertimeHours        decimal.Decimal
	HolidayHours         decimal.Decimal
	HolidayOvertimeHours decimal.Decimal
	Leave                LeaveHours
	LateMinutes          int

	BaseAmount     decimal.Decimal
	OvertimeAmount decimal.Decimal
	HolidayAmount  decimal.Decimal
	Allowances     decimal.Decimal
	GrossEarnings  decimal.Decimal

	SocialSecurity       decimal.Decimal
	IncomeTax            decimal.Decimal
	LateDeduction        decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	OtherDeductions      decimal.Decimal
	TotalDeductions      decimal.Decimal

	NetPay decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusDraft    PeriodStatus = "draft"
	PeriodStatusApproved PeriodStatus = "approved"
	PeriodStatusPaid     PeriodStatus = "paid"
)

// PayrollPeriod is a half-month or month-aligned range owning zero or
// more PayrollLines.
type PayrollPeriod struct {
	ID         string
	CompanyID  string
	StartDate  time.Time
	EndDate    time.Time
	Status     PeriodStatus
	ApprovedBy *string
	ApprovedAt *time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []PayrollLine
}
