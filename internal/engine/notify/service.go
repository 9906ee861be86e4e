package notify

import (
	"time"

	"github.com/google/uuid"

	"framerr/internal/platform/models"
	"framerr/internal/ws"
)

// Store persists notifications. Satisfied by the notification repository.
type Store interface {
	Create(n *models.Notification) error
}

// Pusher forwards a created notification to out-of-app push channels.
type Pusher interface {
	Dispatch(n *models.Notification)
}

// Service is the notification sink: it persists a notification, then fans
// it out to the owner's live sessions and push targets. Persistence is the
// only step that can fail; fan-out is best-effort.
type Service struct {
	store Store
	hub   *ws.Hub
	push  Pusher
}

func NewService(store Store, hub *ws.Hub, push Pusher) *Service {
	return &Service{store: store, hub: hub, push: push}
}

func (s *Service) Create(n *models.Notification) error {
	n.ID = "ntf_" + uuid.New().String()
	n.CreatedAt = time.Now().Unix()
	if n.Type == "" {
		n.Type = "info"
	}

	if err := s.store.Create(n); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(n.UserID, ws.Message{Type: ws.MessageTypeNotification, Data: n})
	}
	if s.push != nil {
		s.push.Dispatch(n)
	}
	return nil
}
