package webhooks

import (
	"github.com/rs/zerolog/log"

	"framerr/internal/platform/models"
)

// Directory resolves notification recipients. Backed by the user repository
// in production; faked in tests.
type Directory interface {
	Admins() ([]*models.User, error)
	ResolveIdentity(service, externalUsername string) (*models.User, error)
}

// Preferences reads per-user, per-service, per-event opt-out flags.
type Preferences interface {
	Wants(userID, service, eventKey string) (bool, error)
}

// Sink persists a notification and fans it out to live and push channels.
// The router calls it once per recipient and only counts successes.
type Sink interface {
	Create(n *models.Notification) error
}

// Router decides which users receive a notification for a normalized event
// and hands one notification per recipient to the sink.
type Router struct {
	dir   Directory
	prefs Preferences
	sink  Sink
}

func NewRouter(dir Directory, prefs Preferences, sink Sink) *Router {
	return &Router{dir: dir, prefs: prefs, sink: sink}
}

// Route classifies the event, computes the recipient set and creates the
// notifications. It returns the number actually created; zero is a valid
// outcome meaning every eligible recipient had opted out.
//
// Per-recipient failures are isolated: a failed creation is logged and
// skipped, the remaining recipients are still attempted, and the count
// reflects only the successes.
//
// adminOnly forces the admin fan-out path for producers whose events have
// no requesting end-user (all Sonarr/Radarr events).
func (r *Router) Route(service string, key EventKey, f Fields, adminOnly bool) (int, error) {
	base := models.Notification{
		Type:     Severity(key),
		Icon:     service,
		Metadata: actionableMetadata(service, key, f),
	}
	base.Title, base.Message = BuildContent(service, key, f)

	switch {
	case key == EventTest:
		// Test notifications must always prove connectivity, so every admin
		// is notified regardless of preferences.
		admins, err := r.dir.Admins()
		if err != nil {
			return 0, err
		}
		n := base
		n.Title = "[Test] " + n.Title
		return r.fanOut(admins, n, nil), nil

	case adminOnly:
		return r.notifyAdminsWithPreference(service, key, base)

	case adminEvents[key]:
		return r.notifyAdminsWithPreference(service, key, base)

	case userEvents[key] && f.Username != "":
		user, err := r.dir.ResolveIdentity(service, f.Username)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return r.notifyUnmatched(service, f.Username, base)
		}
		if !r.wants(user.ID, service, key) {
			return 0, nil
		}
		return r.fanOut([]*models.User{user}, base, nil), nil

	case bothEvents[key] && f.Username != "":
		count := 0
		user, err := r.dir.ResolveIdentity(service, f.Username)
		if err != nil {
			return 0, err
		}
		if user != nil && r.wants(user.ID, service, key) {
			count += r.fanOut([]*models.User{user}, base, nil)
		}
		adminCount, err := r.notifyAdminsWithPreference(service, key, base)
		if err != nil {
			return count, err
		}
		return count + adminCount, nil
	}

	// Ambiguous combination: an event class without a resolvable recipient
	// path. Route to admins so nothing disappears silently.
	log.Warn().Str("service", service).Str("event", string(key)).Msg("ambiguous webhook routing, notifying admins")
	admins, err := r.dir.Admins()
	if err != nil {
		return 0, err
	}
	return r.fanOut(admins, base, nil), nil
}

func (r *Router) notifyAdminsWithPreference(service string, key EventKey, base models.Notification) (int, error) {
	admins, err := r.dir.Admins()
	if err != nil {
		return 0, err
	}
	return r.fanOut(admins, base, func(u *models.User) bool {
		return r.wants(u.ID, service, key)
	}), nil
}

// notifyUnmatched handles events whose external username has no local
// account: admins who opted in to unmatched webhooks get the notification,
// prefixed so they can reconcile the identity by hand.
func (r *Router) notifyUnmatched(service, externalUsername string, base models.Notification) (int, error) {
	admins, err := r.dir.Admins()
	if err != nil {
		return 0, err
	}
	n := base
	n.Title = "[Unmatched] " + n.Title
	n.Message = externalUsername + ": " + n.Message
	return r.fanOut(admins, n, func(u *models.User) bool {
		return u.ReceiveUnmatched
	}), nil
}

// fanOut creates one notification per eligible recipient. Each creation is
// independent: a failure is logged and does not abort the loop.
func (r *Router) fanOut(recipients []*models.User, base models.Notification, eligible func(*models.User) bool) int {
	count := 0
	for _, u := range recipients {
		if eligible != nil && !eligible(u) {
			continue
		}
		n := base
		n.UserID = u.ID
		if err := r.sink.Create(&n); err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Str("title", n.Title).Msg("failed to create notification")
			continue
		}
		count++
	}
	return count
}

// wants reads the recipient's preference, treating a read failure as a
// decline so one bad row cannot take down the whole fan-out.
func (r *Router) wants(userID, service string, key EventKey) bool {
	ok, err := r.prefs.Wants(userID, service, string(key))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("event", string(key)).Msg("failed to read notification preference")
		return false
	}
	return ok
}

// actionableMetadata attaches the upstream request reference to pending
// requests so the UI can approve or decline them later.
func actionableMetadata(service string, key EventKey, f Fields) map[string]interface{} {
	if key != EventRequestPending || f.RequestID == 0 {
		return nil
	}
	return map[string]interface{}{
		"requestId":  f.RequestID,
		"service":    service,
		"actionable": true,
		"mediaTitle": f.Subject,
	}
}
