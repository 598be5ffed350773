package overtime

import (
	"context"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

// OvertimeService manages overtime window requests and their
// approval flow.
type OvertimeService interface {
	RequestWindow(ctx context.Context, req WindowRequest) (OvertimeWindow, error)
	ReviewWindow(ctx context.Context, req shift.ReviewRequest) (OvertimeWindow, error)
	ListWindows(ctx context.Context, employeeID string, from, to time.Time) ([]OvertimeWindow, error)
}
