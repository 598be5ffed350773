package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in")
	ErrEarlyCheckIn     = errors.New("check-in is outside any scheduled or authorized period")
	ErrNoActiveCheckIn  = errors.New("you have not checked in yet")

	// General errors
	ErrEventNotFound = errors.New("attendance event not found")
	ErrUnauthorized  = errors.New("unauthorized to access this attendance record")
)
