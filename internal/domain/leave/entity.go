package leave

import (
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

// Type enum
type Type string

const (
	TypeSick     Type = "sick"
	TypeAnnual   Type = "annual"
	TypeBusiness Type = "business"
	TypeUnpaid   Type = "unpaid"
)

var TypeValues = []string{
	string(TypeSick),
	string(TypeAnnual),
	string(TypeBusiness),
	string(TypeUnpaid),
}

// Record is one approved leave day span for an employee. Payroll
// converts leave days to hour-equivalents; unpaid leave reduces
// payable days without touching gross hours.
type Record struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	Status     shift.ApprovalStatus
	Reason     *string
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Days returns the number of calendar days the record covers,
// inclusive of both ends.
func (r Record) Days() int {
	start := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
