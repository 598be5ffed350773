package http

import (
	"net/http"
	"strconv"

	"github.com/tempohr/tempo-backend-go/internal/domain/notification"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	ListMy(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	repo notification.Repository
}

func NewNotificationHandler(repo notification.Repository) NotificationHandler {
	return &notificationHandlerImpl{repo: repo}
}

// ListMy implements NotificationHandler.
func (h *notificationHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.repo.ListByEmployee(r.Context(), middleware.EmployeeID(r), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}
