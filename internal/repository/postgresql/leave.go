package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/leave"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveStore {
	return &leaveRepository{db: db}
}

// GetApprovedLeave implements leave.LeaveStore.
func (r *leaveRepository) GetApprovedLeave(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, start_date, end_date, status, reason,
			   approved_by, approved_at, created_at, updated_at
		FROM leave_records
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var records []leave.Record
	for rows.Next() {
		var rec leave.Record
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Type, &rec.StartDate, &rec.EndDate, &rec.Status, &rec.Reason,
			&rec.ApprovedBy, &rec.ApprovedAt, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave records: %w", err)
	}

	return records, nil
}

// CreateRecord implements leave.LeaveStore.
func (r *leaveRepository) CreateRecord(ctx context.Context, rec leave.Record) (leave.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_records (employee_id, type, start_date, end_date, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Type,
		rec.StartDate,
		rec.EndDate,
		rec.Status,
		rec.Reason,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return leave.Record{}, fmt.Errorf("failed to create leave record: %w", err)
	}

	return rec, nil
}
