package workers

import (
	"time"

	"github.com/rs/zerolog/log"

	"framerr/internal/platform/config"
	"framerr/internal/platform/repositories"
)

// RetentionWorker prunes read notifications older than the configured age.
// Unread notifications are never touched.
type RetentionWorker struct {
	notifications *repositories.NotificationRepository
	cfg           config.RetentionConfig
}

func NewRetentionWorker(notifications *repositories.NotificationRepository, cfg config.RetentionConfig) *RetentionWorker {
	return &RetentionWorker{notifications: notifications, cfg: cfg}
}

// Run sweeps on the configured interval until stop is closed. One sweep
// runs immediately on startup.
func (w *RetentionWorker) Run(stop <-chan struct{}) {
	w.Sweep()

	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep()
		case <-stop:
			return
		}
	}
}

func (w *RetentionWorker) Sweep() {
	cutoff := time.Now().Add(-w.cfg.NotificationAge).Unix()

	pruned, err := w.notifications.PruneRead(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune read notifications")
		return
	}

	if pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("Pruned read notifications")
	}
}
