package handlers

import (
	"net/http"
	"strconv"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/repositories"
)

type NotificationHandler struct {
	repo *repositories.NotificationRepository
}

func NewNotificationHandler(repo *repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	notifications, err := h.repo.ListByUser(claims.UserID, unreadOnly, limit, offset)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	count, err := h.repo.UnreadCount(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	id := routeParam(r, "notification_id")

	ok, err := h.repo.MarkRead(id, claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Notification not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	updated, err := h.repo.MarkAllRead(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	id := routeParam(r, "notification_id")

	ok, err := h.repo.Delete(id, claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Notification not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
