package notification

import (
	"context"
	"log/slog"

	"github.com/tempohr/tempo-backend-go/internal/domain/notification"
)

// StoredSink persists notifications and logs delivery failures
// without ever propagating them: the sink contract is fire-and-forget
// and must not fail the operation that raised the notification.
type StoredSink struct {
	repo notification.Repository
}

func NewStoredSink(repo notification.Repository) notification.Sink {
	return &StoredSink{repo: repo}
}

// Notify implements notification.Sink.
func (s *StoredSink) Notify(ctx context.Context, employeeID string, message string) {
	_, err := s.repo.Create(ctx, notification.Notification{
		EmployeeID: employeeID,
		Message:    message,
	})
	if err != nil {
		slog.Error("Failed to store notification", "employee_id", employeeID, "error", err)
	}
}
