package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

// ========================================
// PAYROLL DTOs
// ========================================

type GeneratePayrollRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	// EmployeeIDs limits the run; empty means every active employee.
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not precede start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApprovePeriodRequest struct {
	PeriodID string `json:"period_id"`
}

func (r *ApprovePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_id",
			Message: "period_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollLineResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	PeriodID   string `json:"period_id"`

	RegularHours         string `json:"regular_hours"`
	OvertimeHours        string `json:"overtime_hours"`
	HolidayHours         string `json:"holiday_hours"`
	HolidayOvertimeHours string `json:"holiday_overtime_hours"`
	SickLeaveHours       string `json:"sick_leave_hours"`
	AnnualLeaveHours     string `json:"annual_leave_hours"`
	BusinessLeaveHours   string `json:"business_leave_hours"`
	UnpaidLeaveHours     string `json:"unpaid_leave_hours"`
	LateMinutes          int    `json:"late_minutes"`

	BaseAmount     string `json:"base_amount"`
	OvertimeAmount string `json:"overtime_amount"`
	HolidayAmount  string `json:"holiday_amount"`
	Allowances     string `json:"allowances"`
	GrossEarnings  string `json:"gross_earnings"`

	SocialSecurity       string `json:"social_security"`
	IncomeTax            string `json:"income_tax"`
	LateDeduction        string `json:"late_deduction"`
	UnpaidLeaveDeduction string `json:"unpaid_leave_deduction"`
	OtherDeductions      string `json:"other_deductions"`
	TotalDeductions      string `json:"total_deductions"`

	NetPay string `json:"net_pay"`
}

// ToLineResponse converts a PayrollLine to its transport shape.
// Decimal fields serialize as strings so clients never lose precision.
func ToLineResponse(l PayrollLine) PayrollLineResponse {
	return PayrollLineResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		PeriodID:   l.PeriodID,

		RegularHours:         l.RegularHours.String(),
		OvertimeHours:        l.OvertimeHours.String(),
		HolidayHours:         l.HolidayHours.String(),
		HolidayOvertimeHours: l.HolidayOvertimeHours.String(),
		SickLeaveHours:       l.Leave.Sick.String(),
		AnnualLeaveHours:     l.Leave.Annual.String(),
		BusinessLeaveHours:   l.Leave.Business.String(),
		UnpaidLeaveHours:     l.Leave.Unpaid.String(),
		LateMinutes:          l.LateMinutes,

		BaseAmount:     l.BaseAmount.String(),
		OvertimeAmount: l.OvertimeAmount.String(),
		HolidayAmount:  l.HolidayAmount.String(),
		Allowances:     l.Allowances.String(),
		GrossEarnings:  l.GrossEarnings.String(),

		SocialSecurity:       l.SocialSecurity.String(),
		IncomeTax:            l.IncomeTax.String(),
		LateDeduction:        l.LateDeduction.String(),
		UnpaidLeaveDeduction: l.UnpaidLeaveDeduction.String(),
		OtherDeductions:      l.OtherDeductions.String(),
		TotalDeductions:      l.TotalDeductions.String(),

		NetPay: l.NetPay.String(),
	}
}

type PeriodResponse struct {
	ID        string                `json:"id"`
	CompanyID string                `json:"company_id"`
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Status    string                `json:"status"`
	Lines     []PayrollLineResponse `json:"lines,omitempty"`
}

// ========================================
// RATE SETTINGS DTOs
// ========================================

type TaxBracketRequest struct {
	// UpTo is the inclusive upper bound of the bracket; omit it on the
	// terminal bracket.
	UpTo *string `json:"up_to,omitempty"`
	Rate string  `json:"rate"`
}

type RateSettingsRequest struct {
	CompanyID string `json:"-"`

	OvertimeMultiplier string              `json:"overtime_multiplier"`
	HolidayMultiplier  string              `json:"holiday_multiplier"`
	TaxBrackets        []TaxBracketRequest `json:"tax_brackets"`

	SocialSecurityRate    string `json:"social_security_rate"`
	SocialSecurityCeiling string `json:"social_security_ceiling"`
	DailyWorkHours        string `json:"daily_work_hours"`

	GracePeriodMinutes            int `json:"grace_period_minutes"`
	TransitionBufferMinutes       int `json:"transition_buffer_minutes"`
	LateDeductionThresholdMinutes int `json:"late_deduction_threshold_minutes"`
}

func (r *RateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	decimals := map[string]string{
		"overtime_multiplier":     r.OvertimeMultiplier,
		"holiday_multiplier":      r.HolidayMultiplier,
		"social_security_rate":    r.SocialSecurityRate,
		"social_security_ceiling": r.SocialSecurityCeiling,
		"daily_work_hours":        r.DailyWorkHours,
	}
	for field, raw := range decimals {
		if !validator.IsNumeric(raw) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a decimal number",
			})
		}
	}

	for _, b := range r.TaxBrackets {
		if !validator.IsNumeric(b.Rate) || (b.UpTo != nil && !validator.IsNumeric(*b.UpTo)) {
			errs = append(errs, validator.ValidationError{
				Field:   "tax_brackets",
				Message: "bracket bounds and rates must be decimal numbers",
			})
			break
		}
	}

	if r.GracePeriodMinutes < 0 || r.TransitionBufferMinutes < 0 || r.LateDeductionThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "minute settings must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToSettings converts the request into RateSettings. Call only after
// Validate; structural checks beyond syntax stay in
// RateSettings.Validate.
func (r *RateSettingsRequest) ToSettings() RateSettings {
	brackets := make([]TaxBracket, 0, len(r.TaxBrackets))
	for _, b := range r.TaxBrackets {
		bracket := TaxBracket{Rate: decimal.RequireFromString(b.Rate)}
		if b.UpTo != nil {
			upTo := decimal.RequireFromString(*b.UpTo)
			bracket.UpTo = &upTo
		}
		brackets = append(brackets, bracket)
	}

	return RateSettings{
		CompanyID:                     r.CompanyID,
		OvertimeMultiplier:            decimal.RequireFromString(r.OvertimeMultiplier),
		HolidayMultiplier:             decimal.RequireFromString(r.HolidayMultiplier),
		TaxBrackets:                   brackets,
		SocialSecurityRate:            decimal.RequireFromString(r.SocialSecurityRate),
		SocialSecurityCeiling:         decimal.RequireFromString(r.SocialSecurityCeiling),
		DailyWorkHours:                decimal.RequireFromString(r.DailyWorkHours),
		GracePeriod:                   time.Duration(r.GracePeriodMinutes) * time.Minute,
		TransitionBuffer:              time.Duration(r.TransitionBufferMinutes) * time.Minute,
		LateDeductionThresholdMinutes: r.LateDeductionThresholdMinutes,
	}
}
