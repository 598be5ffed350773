package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/domain/notification"
)

// AttendanceJobs holds the periodic attendance housekeeping jobs. The
// event log is append-only, so the sweep never closes sessions on the
// employee's behalf; it only reminds them.
type AttendanceJobs struct {
	events attendance.EventRepository
	sink   notification.Sink

	// staleAfter is how long past the attributed period's end an open
	// session must be before the employee gets a reminder.
	staleAfter time.Duration
}

func NewAttendanceJobs(events attendance.EventRepository, sink notification.Sink, staleAfter time.Duration) *AttendanceJobs {
	if staleAfter <= 0 {
		staleAfter = 2 * time.Hour
	}
	return &AttendanceJobs{
		events:     events,
		sink:       sink,
		staleAfter: staleAfter,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("remind_stale_check_ins", 1*time.Hour, j.RemindStaleCheckIns)
}

// RemindStaleCheckIns nudges employees whose session stayed open well
// past the period end.
func (j *AttendanceJobs) RemindStaleCheckIns(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.staleAfter)

	stale, err := j.events.ListStaleOpenCheckIns(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale open check-ins: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	for _, event := range stale {
		j.sink.Notify(ctx, event.EmployeeID, fmt.Sprintf(
			"You have not checked out of the period that ended at %s. Please check out or request a correction.",
			event.PeriodEndsAt.UTC().Format(time.RFC3339),
		))
	}

	slog.Info("Cron: reminded employees with stale open sessions", "count", len(stale))
	return nil
}
