package payroll

import "errors"

var (
	ErrInvalidRateSettings  = errors.New("rate settings are missing or contain negative rate data")
	ErrRateSettingsNotFound = errors.New("rate settings not found")
	ErrPeriodNotFound       = errors.New("payroll period not found")
	ErrPeriodAlreadyExists  = errors.New("payroll period already exists for this range")
	ErrPeriodAlreadyPaid    = errors.New("payroll period already paid, cannot modify")
	ErrLineNotFound         = errors.New("payroll line not found")
	ErrEmployeeHasNoRate    = errors.New("employee has no hourly rate configured")
	ErrInvalidPeriod        = errors.New("invalid payroll period range")
	ErrPeriodNotApproved    = errors.New("payroll period must be approved before it is marked paid")
	ErrEmployeeNotFound     = errors.New("employee not found")
)
