package notification

import (
	"context"
	"time"
)

// Notification is a stored message for one employee.
type Notification struct {
	ID         string
	EmployeeID string
	Message    string
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// Sink delivers notifications fire-and-forget. Implementations must
// never let delivery failure propagate into the primary operation.
type Sink interface {
	Notify(ctx context.Context, employeeID string, message string)
}

// Repository persists notifications for later retrieval.
type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Notification, error)
}
