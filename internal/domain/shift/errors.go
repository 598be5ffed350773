package shift

import "errors"

var (
	ErrEmployeeShiftNotFound = errors.New("no shift governs this employee on this date")
	ErrInvalidShift          = errors.New("shift definition is invalid")
	ErrShiftNotFound         = errors.New("shift not found")
	ErrAdjustmentNotFound    = errors.New("shift adjustment not found")
	ErrAdjustmentProcessed   = errors.New("shift adjustment has already been processed")
	ErrDuplicateAdjustment   = errors.New("a shift adjustment already exists for this date")
)
