package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeStore {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `
	id, employee_id, date, start_time, end_time, day_off, reason, status,
	reviewed_by, created_at, updated_at
`

func scanOvertimeWindow(row pgx.Row) (overtime.OvertimeWindow, error) {
	var (
		w          overtime.OvertimeWindow
		start, end string
	)
	err := row.Scan(
		&w.ID, &w.EmployeeID, &w.Date, &start, &end, &w.DayOff, &w.Reason, &w.Status,
		&w.ReviewedBy, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return overtime.OvertimeWindow{}, err
	}
	if w.StartTime, err = parseTimeOfDay(start); err != nil {
		return overtime.OvertimeWindow{}, err
	}
	if w.EndTime, err = parseTimeOfDay(end); err != nil {
		return overtime.OvertimeWindow{}, err
	}
	return w, nil
}

// GetApprovedWindows implements overtime.OvertimeStore.
func (r *overtimeRepository) GetApprovedWindows(ctx context.Context, employeeID string, date time.Time) ([]overtime.OvertimeWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_windows
		WHERE employee_id = $1
		  AND date = $2
		  AND status = 'approved'
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved overtime windows: %w", err)
	}
	defer rows.Close()

	return collectWindows(rows)
}

// CreateWindow implements overtime.OvertimeStore.
func (r *overtimeRepository) CreateWindow(ctx context.Context, w overtime.OvertimeWindow) (overtime.OvertimeWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_windows (employee_id, date, start_time, end_time, day_off, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		w.EmployeeID,
		w.Date,
		w.StartTime.String(),
		w.EndTime.String(),
		w.DayOff,
		w.Reason,
		w.Status,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return overtime.OvertimeWindow{}, fmt.Errorf("failed to create overtime window: %w", err)
	}

	return w, nil
}

// SetWindowStatus implements overtime.OvertimeStore.
func (r *overtimeRepository) SetWindowStatus(ctx context.Context, id string, status shift.ApprovalStatus, reviewedBy string) (overtime.OvertimeWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_windows
		SET status = $2, reviewed_by = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + overtimeColumns + `
	`

	w, err := scanOvertimeWindow(q.QueryRow(ctx, query, id, status, reviewedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM overtime_windows WHERE id = $1)`, id).Scan(&exists); checkErr == nil && exists {
				return overtime.OvertimeWindow{}, overtime.ErrWindowProcessed
			}
			return overtime.OvertimeWindow{}, overtime.ErrWindowNotFound
		}
		return overtime.OvertimeWindow{}, fmt.Errorf("failed to set overtime window status: %w", err)
	}

	return w, nil
}

// ListWindows implements overtime.OvertimeStore.
func (r *overtimeRepository) ListWindows(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.OvertimeWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_windows
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC, start_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime windows: %w", err)
	}
	defer rows.Close()

	return collectWindows(rows)
}

func collectWindows(rows pgx.Rows) ([]overtime.OvertimeWindow, error) {
	var windows []overtime.OvertimeWindow
	for rows.Next() {
		w, err := scanOvertimeWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime windows: %w", err)
	}
	return windows, nil
}
