package holiday

import (
	"context"
	"time"
)

// Holiday is a calendar holiday. Hours worked on a holiday date land
// in separate payroll buckets paid at the holiday multiplier.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// HolidayStore answers holiday lookups for the payroll engine.
type HolidayStore interface {
	// IsHoliday returns the holiday covering the date, or nil when
	// the date is an ordinary working day.
	IsHoliday(ctx context.Context, date time.Time) (*Holiday, error)

	// ListRange returns holidays within [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
