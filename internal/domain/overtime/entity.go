package overtime

import (
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

// OvertimeWindow is an approved-or-pending block of authorized
// overtime for one employee-date. DayOff marks windows scheduled on
// days with no regular shift, such as weekends or holidays.
type OvertimeWindow struct {
	ID         string
	EmployeeID string
	Date       time.Time
	StartTime  shift.TimeOfDay
	EndTime    shift.TimeOfDay
	DayOff     bool
	Reason     string
	Status     shift.ApprovalStatus
	ReviewedBy *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Overnight reports whether the window crosses midnight.
func (w OvertimeWindow) Overnight() bool {
	if w.EndTime.Hour != w.StartTime.Hour {
		return w.EndTime.Hour < w.StartTime.Hour
	}
	return w.EndTime.Minute < w.StartTime.Minute
}

// Anchor converts the window's wall-clock bounds into absolute
// instants on the given date, pushing the end to the next calendar day
// when the window crosses midnight.
func (w OvertimeWindow) Anchor(date time.Time) (time.Time, time.Time) {
	start := w.StartTime.At(date)
	end := w.EndTime.At(date)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}
