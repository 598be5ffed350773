package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftStore {
	return &shiftRepository{db: db}
}

// Shift wall-clock times live in the database as "HH:MM" text so the
// rows stay timezone-free; parsing happens at scan time.

func parseTimeOfDay(s string) (shift.TimeOfDay, error) {
	var t shift.TimeOfDay
	if _, err := fmt.Sscanf(s, "%02d:%02d", &t.Hour, &t.Minute); err != nil {
		return shift.TimeOfDay{}, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	return t, nil
}

func scanShift(row pgx.Row) (shift.ShiftDefinition, error) {
	var (
		def        shift.ShiftDefinition
		start, end string
	)
	err := row.Scan(
		&def.ID, &def.CompanyID, &def.Name,
		&start, &end, &def.Weekdays,
		&def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftDefinition{}, err
	}
	if def.StartTime, err = parseTimeOfDay(start); err != nil {
		return shift.ShiftDefinition{}, err
	}
	if def.EndTime, err = parseTimeOfDay(end); err != nil {
		return shift.ShiftDefinition{}, err
	}
	return def, nil
}

const shiftColumns = `
	s.id, s.company_id, s.name, s.start_time, s.end_time, s.weekdays,
	s.created_at, s.updated_at
`

// GetStandingShift implements shift.ShiftStore.
func (r *shiftRepository) GetStandingShift(ctx context.Context, employeeID string) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN employee_shifts es ON es.shift_id = s.id
		WHERE es.employee_id = $1
		LIMIT 1
	`

	def, err := scanShift(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftDefinition{}, shift.ErrEmployeeShiftNotFound
		}
		return shift.ShiftDefinition{}, fmt.Errorf("failed to get standing shift: %w", err)
	}

	return def, nil
}

// GetApprovedAdjustment implements shift.ShiftStore.
func (r *shiftRepository) GetApprovedAdjustment(ctx context.Context, employeeID string, date time.Time) (shift.ShiftAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.reason, a.status, a.reviewed_by,
			   a.created_at, a.updated_at,
			   ` + shiftColumns + `
		FROM shift_adjustments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.status = 'approved'
		LIMIT 1
	`

	var (
		adj        shift.ShiftAdjustment
		start, end string
	)
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&adj.ID, &adj.EmployeeID, &adj.Date, &adj.Reason, &adj.Status, &adj.ReviewedBy,
		&adj.CreatedAt, &adj.UpdatedAt,
		&adj.Shift.ID, &adj.Shift.CompanyID, &adj.Shift.Name,
		&start, &end, &adj.Shift.Weekdays,
		&adj.Shift.CreatedAt, &adj.Shift.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
		}
		return shift.ShiftAdjustment{}, fmt.Errorf("failed to get approved adjustment: %w", err)
	}
	if adj.Shift.StartTime, err = parseTimeOfDay(start); err != nil {
		return shift.ShiftAdjustment{}, err
	}
	if adj.Shift.EndTime, err = parseTimeOfDay(end); err != nil {
		return shift.ShiftAdjustment{}, err
	}

	return adj, nil
}

// CreateShift implements shift.ShiftStore.
func (r *shiftRepository) CreateShift(ctx context.Context, def shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (company_id, name, start_time, end_time, weekdays)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		def.CompanyID,
		def.Name,
		def.StartTime.String(),
		def.EndTime.String(),
		def.Weekdays,
	).Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)

	if err != nil {
		return shift.ShiftDefinition{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return def, nil
}

// GetShiftByID implements shift.ShiftStore.
func (r *shiftRepository) GetShiftByID(ctx context.Context, id string) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id = $1`

	def, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftDefinition{}, shift.ErrShiftNotFound
		}
		return shift.ShiftDefinition{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return def, nil
}

// ListShifts implements shift.ShiftStore.
func (r *shiftRepository) ListShifts(ctx context.Context, companyID string) ([]shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.company_id = $1 ORDER BY s.name ASC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var defs []shift.ShiftDefinition
	for rows.Next() {
		def, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return defs, nil
}

// AssignStandingShift implements shift.ShiftStore.
func (r *shiftRepository) AssignStandingShift(ctx context.Context, employeeID, shiftID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_shifts (employee_id, shift_id)
		VALUES ($1, $2)
		ON CONFLICT (employee_id) DO UPDATE SET shift_id = EXCLUDED.shift_id, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, employeeID, shiftID); err != nil {
		return fmt.Errorf("failed to assign standing shift: %w", err)
	}

	return nil
}

// CreateAdjustment implements shift.ShiftStore.
func (r *shiftRepository) CreateAdjustment(ctx context.Context, adj shift.ShiftAdjustment) (shift.ShiftAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	checkQuery := `
		SELECT EXISTS (
			SELECT 1 FROM shift_adjustments
			WHERE employee_id = $1 AND date = $2 AND status <> 'rejected'
		)
	`
	if err := q.QueryRow(ctx, checkQuery, adj.EmployeeID, adj.Date).Scan(&exists); err != nil {
		return shift.ShiftAdjustment{}, fmt.Errorf("failed to check existing adjustment: %w", err)
	}
	if exists {
		return shift.ShiftAdjustment{}, shift.ErrDuplicateAdjustment
	}

	query := `
		INSERT INTO shift_adjustments (employee_id, date, shift_id, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		adj.EmployeeID,
		adj.Date,
		adj.Shift.ID,
		adj.Reason,
		adj.Status,
	).Scan(&adj.ID, &adj.CreatedAt, &adj.UpdatedAt)

	if err != nil {
		return shift.ShiftAdjustment{}, fmt.Errorf("failed to create adjustment: %w", err)
	}

	return adj, nil
}

// SetAdjustmentStatus implements shift.ShiftStore. Only pending
// adjustments can be approved or rejected.
func (r *shiftRepository) SetAdjustmentStatus(ctx context.Context, id string, status shift.ApprovalStatus, reviewedBy string) (shift.ShiftAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_adjustments
		SET status = $2, reviewed_by = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, employee_id, date, reason, status, reviewed_by, created_at, updated_at
	`

	var adj shift.ShiftAdjustment
	err := q.QueryRow(ctx, query, id, status, reviewedBy).Scan(
		&adj.ID, &adj.EmployeeID, &adj.Date, &adj.Reason, &adj.Status, &adj.ReviewedBy,
		&adj.CreatedAt, &adj.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the row is missing or it has already been processed.
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shift_adjustments WHERE id = $1)`, id).Scan(&exists); checkErr == nil && exists {
				return shift.ShiftAdjustment{}, shift.ErrAdjustmentProcessed
			}
			return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
		}
		return shift.ShiftAdjustment{}, fmt.Errorf("failed to set adjustment status: %w", err)
	}

	return adj, nil
}
