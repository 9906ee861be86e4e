package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"framerr/internal/platform/config"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

// Dispatcher delivers created notifications to the owner's configured push
// endpoints. Delivery is best-effort and fully asynchronous: failures are
// recorded on the target and never surface to the webhook pipeline.
type Dispatcher struct {
	repo         *repositories.PushTargetRepository
	client       *http.Client
	maxFailCount int
}

func NewDispatcher(repo *repositories.PushTargetRepository, cfg config.PushConfig) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		repo:         repo,
		client:       &http.Client{Timeout: timeout},
		maxFailCount: cfg.MaxFailCount,
	}
}

// Dispatch fans a notification out to the user's enabled push targets.
func (d *Dispatcher) Dispatch(n *models.Notification) {
	targets, err := d.repo.ListEnabledByUser(n.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", n.UserID).Msg("failed to load push targets")
		return
	}

	event := &models.PushEvent{
		ID:           fmt.Sprintf("psh_%d", time.Now().UnixNano()),
		Event:        "notification.created",
		Timestamp:    time.Now().Unix(),
		Notification: n,
	}

	for _, target := range targets {
		go d.deliver(target, event)
	}
}

func (d *Dispatcher) deliver(target *models.PushTarget, event *models.PushEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, target.URL, bytes.NewBuffer(payload))
	if err != nil {
		d.recordFailure(target, err.Error())
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Framerr-Signature", Sign(target.Secret, payload))
	req.Header.Set("X-Framerr-Event", event.Event)
	req.Header.Set("X-Framerr-Delivery", event.ID)

	resp, err := d.client.Do(req)
	if err != nil {
		d.recordFailure(target, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		d.recordFailure(target, fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}

	d.repo.UpdateLastTriggered(target.ID, time.Now().Unix())
	d.repo.ResetFailCount(target.ID)
}

// recordFailure tracks consecutive delivery errors and disables the target
// once it exceeds the configured threshold, so dead endpoints stop eating
// outbound requests.
func (d *Dispatcher) recordFailure(target *models.PushTarget, reason string) {
	log.Warn().Str("target_id", target.ID).Str("reason", reason).Msg("push delivery failed")
	d.repo.UpdateLastError(target.ID, reason)
	d.repo.IncrementFailCount(target.ID)

	if d.maxFailCount > 0 && target.FailCount+1 >= d.maxFailCount {
		if err := d.repo.Disable(target.ID); err == nil {
			log.Warn().Str("target_id", target.ID).Msg("push target disabled after repeated failures")
		}
	}
}
