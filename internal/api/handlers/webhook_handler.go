package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"framerr/internal/engine/webhooks"
	"framerr/internal/pkg/metrics"
	"framerr/internal/platform/repositories"
)

// WebhookHandler is the intake boundary for producer callbacks. It
// authenticates the path token against the integration configuration,
// normalizes the event and hands it to the routing policy. All downstream
// failures are absorbed here; producers only ever see 200, 401 or 500.
type WebhookHandler struct {
	integrations *repositories.IntegrationRepository
	router       *webhooks.Router
	metrics      *metrics.Metrics
}

func NewWebhookHandler(integrations *repositories.IntegrationRepository, router *webhooks.Router, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{integrations: integrations, router: router, metrics: m}
}

// webhookResult is the producer-facing success body.
type webhookResult struct {
	Status            string `json:"status"`
	NotificationsSent *int   `json:"notificationsSent,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

func (h *WebhookHandler) Overseerr(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, webhooks.ServiceOverseerr) {
		return
	}

	var payload webhooks.OverseerrPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	h.process(w, webhooks.ServiceOverseerr, webhooks.NormalizeOverseerr(&payload), payload.Fields(), false)
}

func (h *WebhookHandler) Sonarr(w http.ResponseWriter, r *http.Request) {
	h.arr(w, r, webhooks.ServiceSonarr)
}

func (h *WebhookHandler) Radarr(w http.ResponseWriter, r *http.Request) {
	h.arr(w, r, webhooks.ServiceRadarr)
}

func (h *WebhookHandler) arr(w http.ResponseWriter, r *http.Request, service string) {
	if !h.authorize(w, r, service) {
		return
	}

	var payload webhooks.ArrPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	// Sonarr/Radarr events have no requesting end-user, so routing is
	// always forced onto the admin path.
	h.process(w, service, webhooks.NormalizeArr(&payload), payload.Fields(), true)
}

// authorize validates the path token against the configured integration.
// The comparison is constant-time; the token is a bearer secret and must
// not leak through timing.
func (h *WebhookHandler) authorize(w http.ResponseWriter, r *http.Request, service string) bool {
	token := routeParam(r, "token")

	integration, err := h.integrations.GetByService(service)
	if err != nil {
		log.Error().Err(err).Str("service", service).Msg("webhook integration lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Processing failed"})
		return false
	}
	if integration == nil || !integration.WebhookEnabled {
		h.metrics.WebhooksRejected.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Webhook not enabled"})
		return false
	}
	if token == "" || integration.WebhookToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(integration.WebhookToken)) != 1 {
		h.metrics.WebhooksRejected.Add(1)
		log.Warn().Str("service", service).Msg("webhook token mismatch")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid webhook token"})
		return false
	}
	return true
}

func (h *WebhookHandler) process(w http.ResponseWriter, service string, key webhooks.EventKey, f webhooks.Fields, adminOnly bool) {
	h.metrics.WebhooksReceived.Add(1)

	if key == "" {
		// Unmodeled producer events are acknowledged, not failed, so the
		// producer does not retry or disable the webhook.
		h.metrics.WebhooksIgnored.Add(1)
		writeJSON(w, http.StatusOK, webhookResult{Status: "ignored", Reason: "Unknown event type"})
		return
	}

	count, err := h.router.Route(service, key, f, adminOnly)
	if err != nil {
		log.Error().Err(err).Str("service", service).Str("event", string(key)).Msg("webhook processing failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Processing failed"})
		return
	}

	h.metrics.NotificationsCreated.Add(int64(count))
	log.Info().Str("service", service).Str("event", string(key)).Int("notifications", count).Msg("webhook processed")
	writeJSON(w, http.StatusOK, webhookResult{Status: "ok", NotificationsSent: &count})
}
