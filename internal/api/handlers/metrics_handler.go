package handlers

import (
	"fmt"
	"net/http"

	"framerr/internal/pkg/metrics"
)

// MetricsHandler exposes the process counters in Prometheus text format.
type MetricsHandler struct {
	metrics *metrics.Metrics
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")

	fmt.Fprintf(w, "# HELP framerr_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE framerr_up gauge\n")
	fmt.Fprintf(w, "framerr_up 1\n")

	fmt.Fprintf(w, "# HELP framerr_webhooks_received_total Webhook calls accepted for processing\n")
	fmt.Fprintf(w, "# TYPE framerr_webhooks_received_total counter\n")
	fmt.Fprintf(w, "framerr_webhooks_received_total %d\n", h.metrics.WebhooksReceived.Load())

	fmt.Fprintf(w, "# HELP framerr_webhooks_rejected_total Webhook calls rejected for bad or disabled tokens\n")
	fmt.Fprintf(w, "# TYPE framerr_webhooks_rejected_total counter\n")
	fmt.Fprintf(w, "framerr_webhooks_rejected_total %d\n", h.metrics.WebhooksRejected.Load())

	fmt.Fprintf(w, "# HELP framerr_webhooks_ignored_total Webhook calls with an unknown event type\n")
	fmt.Fprintf(w, "# TYPE framerr_webhooks_ignored_total counter\n")
	fmt.Fprintf(w, "framerr_webhooks_ignored_total %d\n", h.metrics.WebhooksIgnored.Load())

	fmt.Fprintf(w, "# HELP framerr_notifications_created_total Notifications created by webhook routing\n")
	fmt.Fprintf(w, "# TYPE framerr_notifications_created_total counter\n")
	fmt.Fprintf(w, "framerr_notifications_created_total %d\n", h.metrics.NotificationsCreated.Load())
}
