package shift

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, as stored on shift
// definitions ("08:00", "22:30").
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// At anchors the wall-clock time onto a calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ApprovalStatus enum
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

var ApprovalStatuses = []ApprovalStatus{
	ApprovalStatusPending,
	ApprovalStatusApproved,
	ApprovalStatusRejected,
}

// ShiftDefinition is a named shift template. Weekdays uses ISO
// numbering, Monday=1 through Sunday=7; an empty slice means the shift
// applies every day.
type ShiftDefinition struct {
	ID        string
	CompanyID string
	Name      string
	StartTime TimeOfDay
	EndTime   TimeOfDay
	Weekdays  []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overnight reports whether the shift crosses midnight. End equal to
// start is not overnight, it is invalid input.
func (s ShiftDefinition) Overnight() bool {
	if s.EndTime.Hour != s.StartTime.Hour {
		return s.EndTime.Hour < s.StartTime.Hour
	}
	return s.EndTime.Minute < s.StartTime.Minute
}

// AppliesOn reports whether the shift governs the given weekday.
func (s ShiftDefinition) AppliesOn(weekday time.Weekday) bool {
	if len(s.Weekdays) == 0 {
		return true
	}
	iso := int(weekday)
	if iso == 0 {
		iso = 7
	}
	for _, d := range s.Weekdays {
		if d == iso {
			return true
		}
	}
	return false
}

// ShiftAdjustment is an approved-or-pending ad-hoc shift change for a
// single employee-date. An approved adjustment overrides the standing
// assignment for that date only.
type ShiftAdjustment struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Shift      ShiftDefinition
	Reason     string
	Status     ApprovalStatus
	ReviewedBy *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveShift is the resolved shift for one employee-date, with
// wall-clock times already anchored to absolute instants. For overnight
// shifts EndsAt falls on the day after Date.
type EffectiveShift struct {
	Shift      ShiftDefinition
	Date       time.Time
	StartsAt   time.Time
	EndsAt     time.Time
	Adjusted   bool
	EmployeeID string
}

func (e EffectiveShift) ScheduledMinutes() int {
	return int(e.EndsAt.Sub(e.StartsAt).Minutes())
}
