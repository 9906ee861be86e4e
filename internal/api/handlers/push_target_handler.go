package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

type PushTargetHandler struct {
	repo *repositories.PushTargetRepository
}

func NewPushTargetHandler(repo *repositories.PushTargetRepository) *PushTargetHandler {
	return &PushTargetHandler{repo: repo}
}

func (h *PushTargetHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	targets, err := h.repo.ListByUser(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"push_targets": targets})
}

type CreatePushTargetRequest struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

func (h *PushTargetHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	var req CreatePushTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "url must be a valid http(s) URL", nil)
		return
	}
	if req.Secret == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "secret is required", nil)
		return
	}

	target := &models.PushTarget{
		UserID: claims.UserID,
		Name:   req.Name,
		URL:    req.URL,
		Secret: req.Secret,
	}
	if err := h.repo.Create(target); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, target)
}

func (h *PushTargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	id := routeParam(r, "target_id")

	ok, err := h.repo.Delete(id, claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Push target not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
