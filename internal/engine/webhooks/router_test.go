package webhooks

import (
	"errors"
	"strings"
	"testing"

	"framerr/internal/platform/models"
)

type fakeDirectory struct {
	admins     []*models.User
	identities map[string]*models.User
}

func (d *fakeDirectory) Admins() ([]*models.User, error) {
	return d.admins, nil
}

func (d *fakeDirectory) ResolveIdentity(service, externalUsername string) (*models.User, error) {
	return d.identities[service+"/"+externalUsername], nil
}

// fakePreferences treats every listed key as opted out, everyone else in.
type fakePreferences struct {
	optedOut map[string]bool
	err      error
}

func (p *fakePreferences) Wants(userID, service, eventKey string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return !p.optedOut[userID+"/"+service+"/"+eventKey], nil
}

type fakeSink struct {
	created []*models.Notification
	failFor map[string]bool
}

func (s *fakeSink) Create(n *models.Notification) error {
	if s.failFor[n.UserID] {
		return errors.New("sink unavailable")
	}
	s.created = append(s.created, n)
	return nil
}

func admin(id string, receiveUnmatched bool) *models.User {
	return &models.User{ID: id, Role: "admin", ReceiveUnmatched: receiveUnmatched}
}

func member(id string) *models.User {
	return &models.User{ID: id, Role: "user"}
}

func TestRoute_TestEventNotifiesAllAdmins(t *testing.T) {
	dir := &fakeDirectory{admins: []*models.User{admin("adm1", false), admin("adm2", false)}}
	// Opt-outs must not suppress test notifications.
	prefs := &fakePreferences{optedOut: map[string]bool{"adm1/overseerr/test": true}}
	sink := &fakeSink{}

	count, err := NewRouter(dir, prefs, sink).Route(ServiceOverseerr, EventTest, Fields{}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 notifications, got %d", count)
	}
	for _, n := range sink.created {
		if !strings.HasPrefix(n.Title, "[Test] ") {
			t.Errorf("Expected [Test] prefix, got %q", n.Title)
		}
	}
}

func TestRoute_AdminEventFiltersByPreference(t *testing.T) {
	dir := &fakeDirectory{admins: []*models.User{admin("adm1", false), admin("adm2", false)}}
	prefs := &fakePreferences{optedOut: map[string]bool{"adm2/overseerr/requestPending": true}}
	sink := &fakeSink{}

	count, err := NewRouter(dir, prefs, sink).Route(ServiceOverseerr, EventRequestPending,
		Fields{Subject: "Dune Part Two", Username: "alice", RequestID: 42}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 notification, got %d", count)
	}
	if sink.created[0].UserID != "adm1" {
		t.Errorf("Expected notification for adm1, got %s", sink.created[0].UserID)
	}

	meta := sink.created[0].Metadata
	if meta == nil {
		t.Fatal("Expected actionable metadata on pending request")
	}
	if meta["requestId"] != int64(42) || meta["actionable"] != true {
		t.Errorf("Unexpected metadata: %v", meta)
	}
	if meta["mediaTitle"] != "Dune Part Two" || meta["service"] != "overseerr" {
		t.Errorf("Unexpected metadata: %v", meta)
	}
}

func TestRoute_AdminOnlyForcesAdminPath(t *testing.T) {
	dir := &fakeDirectory{
		admins:     []*models.User{admin("adm1", false)},
		identities: map[string]*models.User{"sonarr/alice": member("usr1")},
	}
	sink := &fakeSink{}

	// Producer events with no end-user routing go to admins even when a
	// username happens to be present.
	count, err := NewRouter(dir, &fakePreferences{}, sink).Route(ServiceSonarr, EventDownload,
		Fields{Subject: "Severance", Username: "alice"}, true)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 1 || sink.created[0].UserID != "adm1" {
		t.Errorf("Expected single admin notification, got %d", count)
	}
}

func TestRoute_UserEventGoesToMatchedUser(t *testing.T) {
	dir := &fakeDirectory{
		admins:     []*models.User{admin("adm1", false)},
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	sink := &fakeSink{}

	count, err := NewRouter(dir, &fakePreferences{}, sink).Route(ServiceOverseerr, EventRequestAvailable,
		Fields{Subject: "Dune Part Two", Username: "alice"}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 notification, got %d", count)
	}
	if sink.created[0].UserID != "usr1" {
		t.Errorf("Expected notification for usr1, got %s", sink.created[0].UserID)
	}
}

func TestRoute_UserEventOptOutYieldsZero(t *testing.T) {
	dir := &fakeDirectory{
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	prefs := &fakePreferences{optedOut: map[string]bool{"usr1/overseerr/requestAvailable": true}}
	sink := &fakeSink{}

	count, err := NewRouter(dir, prefs, sink).Route(ServiceOverseerr, EventRequestAvailable,
		Fields{Subject: "Dune Part Two", Username: "alice"}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 notifications, got %d", count)
	}
	if len(sink.created) != 0 {
		t.Errorf("Expected no notifications created, got %d", len(sink.created))
	}
}

func TestRoute_UnmatchedUserFallsBackToOptedInAdmins(t *testing.T) {
	dir := &fakeDirectory{
		admins: []*models.User{admin("adm1", true), admin("adm2", false)},
	}
	sink := &fakeSink{}

	count, err := NewRouter(dir, &fakePreferences{}, sink).Route(ServiceOverseerr, EventRequestApproved,
		Fields{Subject: "Dune Part Two", Username: "ghost"}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 notification, got %d", count)
	}

	n := sink.created[0]
	if n.UserID != "adm1" {
		t.Errorf("Expected notification for adm1, got %s", n.UserID)
	}
	if !strings.HasPrefix(n.Title, "[Unmatched] ") {
		t.Errorf("Expected [Unmatched] prefix, got %q", n.Title)
	}
	if !strings.HasPrefix(n.Message, "ghost: ") {
		t.Errorf("Expected external username prefix, got %q", n.Message)
	}
}

func TestRoute_RequestFailedNotifiesUserAndAdmins(t *testing.T) {
	dir := &fakeDirectory{
		admins:     []*models.User{admin("adm1", false), admin("adm2", false)},
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	prefs := &fakePreferences{optedOut: map[string]bool{"adm2/overseerr/requestFailed": true}}
	sink := &fakeSink{}

	count, err := NewRouter(dir, prefs, sink).Route(ServiceOverseerr, EventRequestFailed,
		Fields{Subject: "Dune Part Two", Username: "alice"}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected user plus opted-in admin, got %d", count)
	}

	recipients := map[string]bool{}
	for _, n := range sink.created {
		recipients[n.UserID] = true
	}
	if !recipients["usr1"] || !recipients["adm1"] || recipients["adm2"] {
		t.Errorf("Unexpected recipient set: %v", recipients)
	}
}

func TestRoute_SinkFailureIsIsolated(t *testing.T) {
	dir := &fakeDirectory{admins: []*models.User{admin("adm1", false), admin("adm2", false), admin("adm3", false)}}
	sink := &fakeSink{failFor: map[string]bool{"adm2": true}}

	count, err := NewRouter(dir, &fakePreferences{}, sink).Route(ServiceSonarr, EventHealthIssue,
		Fields{Message: "Indexer unavailable"}, true)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 successes around the failure, got %d", count)
	}
}

func TestRoute_PreferenceErrorTreatedAsDecline(t *testing.T) {
	dir := &fakeDirectory{
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	prefs := &fakePreferences{err: errors.New("db gone")}
	sink := &fakeSink{}

	count, err := NewRouter(dir, prefs, sink).Route(ServiceOverseerr, EventRequestAvailable,
		Fields{Subject: "Dune Part Two", Username: "alice"}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 notifications, got %d", count)
	}
}

func TestRoute_DuplicateDeliveryCreatesDuplicates(t *testing.T) {
	dir := &fakeDirectory{
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	sink := &fakeSink{}
	router := NewRouter(dir, &fakePreferences{}, sink)

	f := Fields{Subject: "Dune Part Two", Username: "alice"}
	for i := 0; i < 2; i++ {
		if _, err := router.Route(ServiceOverseerr, EventRequestAvailable, f, false); err != nil {
			t.Fatalf("Route failed: %v", err)
		}
	}

	// No idempotency: a redelivered webhook produces a second notification.
	if len(sink.created) != 2 {
		t.Errorf("Expected 2 notifications, got %d", len(sink.created))
	}
}

func TestRoute_NoMetadataOutsidePendingRequests(t *testing.T) {
	dir := &fakeDirectory{
		identities: map[string]*models.User{"overseerr/alice": member("usr1")},
	}
	sink := &fakeSink{}

	_, err := NewRouter(dir, &fakePreferences{}, sink).Route(ServiceOverseerr, EventRequestApproved,
		Fields{Subject: "Dune Part Two", Username: "alice", RequestID: 42}, false)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if sink.created[0].Metadata != nil {
		t.Errorf("Expected no metadata, got %v", sink.created[0].Metadata)
	}
}
