package overtime

import "errors"

var (
	ErrWindowNotFound  = errors.New("overtime window not found")
	ErrWindowProcessed = errors.New("overtime window has already been processed")
	ErrInvalidWindow   = errors.New("overtime window is invalid")
)
