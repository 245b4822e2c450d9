package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
)

type notificationFeed interface {
	Active() []notify.Notification
}

// NotificationHandler exposes the active toast feed so clients can poll
// for reminder and deletion announcements.
type NotificationHandler struct {
	feed      notificationFeed
	responder responder
}

func NewNotificationHandler(feed notificationFeed, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{feed: feed, responder: newResponder(logger)}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.feed == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	active := h.feed.Active()
	dtos := make([]notificationDTO, 0, len(active))
	for _, n := range active {
		dtos = append(dtos, notificationDTO{
			Level:     string(n.Level),
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
			ExpiresAt: n.ExpiresAt.UTC().Format(time.RFC3339Nano),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listNotificationsResponse{Notifications: dtos})
}

type listNotificationsResponse struct {
	Notifications []notificationDTO `json:"notifications"`
}

type notificationDTO struct {
	Level     string `json:"level"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}
