package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/audit"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

type IntegrationHandler struct {
	repo  *repositories.IntegrationRepository
	audit *audit.Logger
}

func NewIntegrationHandler(repo *repositories.IntegrationRepository, auditLogger *audit.Logger) *IntegrationHandler {
	return &IntegrationHandler{repo: repo, audit: auditLogger}
}

// integrationView is the API shape: API keys stay hidden, webhook tokens
// are exposed only here so admins can configure producers.
type integrationView struct {
	*models.Integration
	WebhookToken string `json:"webhook_token,omitempty"`
}

func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.repo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	views := make([]integrationView, 0, len(integrations))
	for _, i := range integrations {
		views = append(views, integrationView{Integration: i, WebhookToken: i.WebhookToken})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"integrations": views})
}

type UpsertIntegrationRequest struct {
	DisplayName    string `json:"display_name"`
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	Enabled        bool   `json:"enabled"`
	WebhookEnabled bool   `json:"webhook_enabled"`
}

func (h *IntegrationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	service := routeParam(r, "service")

	var req UpsertIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	existing, err := h.repo.GetByService(service)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	integration := &models.Integration{
		Service:        service,
		DisplayName:    req.DisplayName,
		BaseURL:        req.BaseURL,
		APIKey:         req.APIKey,
		Enabled:        req.Enabled,
		WebhookEnabled: req.WebhookEnabled,
	}
	if existing != nil {
		integration.ID = existing.ID
		integration.WebhookToken = existing.WebhookToken
		integration.CreatedAt = existing.CreatedAt
	} else {
		integration.ID = "int_" + uuid.NewString()
		integration.WebhookToken = generateWebhookToken()
		integration.CreatedAt = time.Now().Unix()
	}

	if err := h.repo.Upsert(integration); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	h.audit.Log(r.Context(), "integration.updated", "integration", service, map[string]interface{}{
		"enabled":         req.Enabled,
		"webhook_enabled": req.WebhookEnabled,
	})
	writeJSON(w, http.StatusOK, integrationView{Integration: integration, WebhookToken: integration.WebhookToken})
}

// RotateToken replaces the webhook token. The old token stops working
// immediately; producers must be reconfigured with the new URL.
func (h *IntegrationHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	service := routeParam(r, "service")

	integration, err := h.repo.GetByService(service)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if integration == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Integration not found", nil)
		return
	}

	token := generateWebhookToken()
	if err := h.repo.RotateWebhookToken(service, token); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	h.audit.Log(r.Context(), "integration.token_rotated", "integration", service, nil)
	writeJSON(w, http.StatusOK, map[string]string{"webhook_token": token})
}

func generateWebhookToken() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}
