package metrics

import "sync/atomic"

// Metrics holds the process counters exposed on /api/metrics. Passed
// explicitly to the handlers that touch it rather than kept as package
// state.
type Metrics struct {
	WebhooksReceived     atomic.Int64
	WebhooksRejected     atomic.Int64
	WebhooksIgnored      atomic.Int64
	NotificationsCreated atomic.Int64
}

func New() *Metrics {
	return &Metrics{}
}
