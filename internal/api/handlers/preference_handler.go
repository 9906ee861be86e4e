package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

type PreferenceHandler struct {
	repo *repositories.PreferenceRepository
}

func NewPreferenceHandler(repo *repositories.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{repo: repo}
}

func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	prefs, err := h.repo.ListByUser(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"preferences": prefs})
}

type SetPreferencesRequest struct {
	Preferences []struct {
		Service  string `json:"service"`
		EventKey string `json:"event_key"`
		Enabled  bool   `json:"enabled"`
	} `json:"preferences"`
}

// Set upserts a batch of the caller's preferences. Events without a stored
// row stay enabled by default.
func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	var req SetPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	for _, p := range req.Preferences {
		if p.Service == "" || p.EventKey == "" {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "service and event_key are required", nil)
			return
		}
		pref := &models.NotificationPreference{
			ID:       "prf_" + uuid.NewString(),
			UserID:   claims.UserID,
			Service:  p.Service,
			EventKey: p.EventKey,
			Enabled:  p.Enabled,
		}
		if err := h.repo.Set(pref); err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
