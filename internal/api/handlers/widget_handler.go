package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

type WidgetHandler struct {
	repo *repositories.WidgetRepository
}

func NewWidgetHandler(repo *repositories.WidgetRepository) *WidgetHandler {
	return &WidgetHandler{repo: repo}
}

func (h *WidgetHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	widgets, err := h.repo.ListByUser(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"widgets": widgets})
}

type WidgetRequest struct {
	Type     string                 `json:"type"`
	Service  string                 `json:"service"`
	Position int                    `json:"position"`
	Settings map[string]interface{} `json:"settings"`
}

func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	var req WidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Type == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "type is required", nil)
		return
	}

	now := time.Now().Unix()
	widget := &models.Widget{
		ID:        "wgt_" + uuid.NewString(),
		UserID:    claims.UserID,
		Type:      req.Type,
		Service:   req.Service,
		Position:  req.Position,
		Settings:  req.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(widget); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, widget)
}

func (h *WidgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	id := routeParam(r, "widget_id")

	widget, err := h.repo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if widget == nil || widget.UserID != claims.UserID {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Widget not found", nil)
		return
	}

	var req WidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Type != "" {
		widget.Type = req.Type
	}
	if req.Service != "" {
		widget.Service = req.Service
	}
	if req.Position != 0 {
		widget.Position = req.Position
	}
	if req.Settings != nil {
		widget.Settings = req.Settings
	}

	if err := h.repo.Update(widget); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, widget)
}

func (h *WidgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	id := routeParam(r, "widget_id")

	ok, err := h.repo.Delete(id, claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Widget not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
