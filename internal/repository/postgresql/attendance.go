package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type attendanceEventRepository struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepository{db: db}
}

const eventColumns = `
	id, employee_id, kind, at, location, work_date,
	period_type, period_starts_at, period_ends_at, period_sequence,
	is_late, is_early, is_overtime, late_minutes,
	corrects_event_id, corrected_by, created_at
`

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var e attendance.Event
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.Kind, &e.At, &e.Location, &e.WorkDate,
		&e.PeriodType, &e.PeriodStartsAt, &e.PeriodEndsAt, &e.PeriodSequence,
		&e.IsLate, &e.IsEarly, &e.IsOvertime, &e.LateMinutes,
		&e.CorrectsEventID, &e.CorrectedBy, &e.CreatedAt,
	)
	return e, err
}

// Append implements attendance.EventRepository. Events are insert-only;
// there is no UPDATE or DELETE statement anywhere in this repository.
func (r *attendanceEventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (
			employee_id, kind, at, location, work_date,
			period_type, period_starts_at, period_ends_at, period_sequence,
			is_late, is_early, is_overtime, late_minutes,
			corrects_event_id, corrected_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.EmployeeID,
		event.Kind,
		event.At,
		event.Location,
		event.WorkDate,
		event.PeriodType,
		event.PeriodStartsAt,
		event.PeriodEndsAt,
		event.PeriodSequence,
		event.IsLate,
		event.IsEarly,
		event.IsOvertime,
		event.LateMinutes,
		event.CorrectsEventID,
		event.CorrectedBy,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

// GetByID implements attendance.EventRepository.
func (r *attendanceEventRepository) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM attendance_events WHERE id = $1`

	event, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance event: %w", err)
	}

	return event, nil
}

// GetOpenCheckIn implements attendance.EventRepository. An open
// session is the latest check-in with no check-out recorded after it.
func (r *attendanceEventRepository) GetOpenCheckIn(ctx context.Context, employeeID string) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events ci
		WHERE ci.employee_id = $1
		  AND ci.kind = 'check_in'
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_events co
			WHERE co.employee_id = ci.employee_id
			  AND co.kind = 'check_out'
			  AND co.at >= ci.at
		  )
		ORDER BY ci.at DESC
		LIMIT 1
	`

	event, err := scanEvent(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get open check-in: %w", err)
	}

	return event, nil
}

// ListByEmployeeDay implements attendance.EventRepository.
func (r *attendanceEventRepository) ListByEmployeeDay(ctx context.Context, employeeID string, workDate time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByEmployeeRange implements attendance.EventRepository.
func (r *attendanceEventRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListStaleOpenCheckIns implements attendance.EventRepository.
func (r *attendanceEventRepository) ListStaleOpenCheckIns(ctx context.Context, cutoff time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events ci
		WHERE ci.kind = 'check_in'
		  AND ci.period_ends_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_events co
			WHERE co.employee_id = ci.employee_id
			  AND co.kind = 'check_out'
			  AND co.at >= ci.at
		  )
		ORDER BY ci.at ASC
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open check-ins: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}
	return events, nil
}
