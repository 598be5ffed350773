package overtime

import (
	"context"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

// OvertimeStore persists overtime windows and their approval flow.
type OvertimeStore interface {
	// GetApprovedWindows returns every approved window anchored to the
	// given date, ordered by start time. A date with none yields an
	// empty slice, not an error.
	GetApprovedWindows(ctx context.Context, employeeID string, date time.Time) ([]OvertimeWindow, error)

	CreateWindow(ctx context.Context, window OvertimeWindow) (OvertimeWindow, error)
	SetWindowStatus(ctx context.Context, id string, status shift.ApprovalStatus, reviewedBy string) (OvertimeWindow, error)
	ListWindows(ctx context.Context, employeeID string, from, to time.Time) ([]OvertimeWindow, error)
}
