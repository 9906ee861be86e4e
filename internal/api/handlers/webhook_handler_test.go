package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	_ "github.com/mattn/go-sqlite3"

	apiContext "framerr/internal/api/context"
	"framerr/internal/engine/notify"
	"framerr/internal/engine/webhooks"
	"framerr/internal/pkg/metrics"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

const testWebhookToken = "tok_test_abc123"

func setupWebhookTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	query := `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		email TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		avatar_url TEXT,
		receive_unmatched INTEGER NOT NULL DEFAULT 0,
		last_login_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		deleted_at INTEGER
	);
	CREATE TABLE service_identities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		service TEXT NOT NULL,
		external_username TEXT NOT NULL COLLATE NOCASE,
		created_at INTEGER NOT NULL,
		UNIQUE(user_id, service)
	);
	CREATE TABLE integrations (
		id TEXT PRIMARY KEY,
		service TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		base_url TEXT NOT NULL DEFAULT '',
		api_key TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 1,
		webhook_enabled INTEGER NOT NULL DEFAULT 0,
		webhook_token TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'info',
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		icon TEXT,
		metadata TEXT,
		read INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE notification_preferences (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		service TEXT NOT NULL,
		event_key TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL,
		UNIQUE(user_id, service, event_key)
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func setupWebhookHandler(t *testing.T, db *sql.DB) (*WebhookHandler, *repositories.NotificationRepository) {
	userRepo := repositories.NewUserRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	preferenceRepo := repositories.NewPreferenceRepository(db)

	now := time.Now().Unix()

	adminUser := &models.User{ID: "usr_admin", Username: "admin", PasswordHash: "x", Role: "admin", CreatedAt: now, UpdatedAt: now}
	if err := userRepo.Create(adminUser); err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	endUser := &models.User{ID: "usr_alice", Username: "alice", PasswordHash: "x", Role: "user", CreatedAt: now, UpdatedAt: now}
	if err := userRepo.Create(endUser); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	identity := &models.ServiceIdentity{ID: "sid_1", UserID: "usr_alice", Service: "overseerr", ExternalUsername: "alice", CreatedAt: now}
	if err := userRepo.AddIdentity(identity); err != nil {
		t.Fatalf("Failed to add identity: %v", err)
	}

	for _, service := range []string{"overseerr", "sonarr", "radarr"} {
		integration := &models.Integration{
			ID:             "int_" + service,
			Service:        service,
			DisplayName:    service,
			Enabled:        true,
			WebhookEnabled: true,
			WebhookToken:   testWebhookToken,
			CreatedAt:      now,
		}
		if err := integrationRepo.Upsert(integration); err != nil {
			t.Fatalf("Failed to create integration: %v", err)
		}
	}

	notifySvc := notify.NewService(notificationRepo, nil, nil)
	eventRouter := webhooks.NewRouter(userRepo, preferenceRepo, notifySvc)
	handler := NewWebhookHandler(integrationRepo, eventRouter, metrics.New())
	return handler, notificationRepo
}

func webhookRequest(token string, body interface{}) *http.Request {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/webhooks/overseerr/"+token, bytes.NewReader(buf))
	params := httprouter.Params{{Key: "token", Value: token}}
	return req.WithContext(context.WithValue(req.Context(), apiContext.Params, params))
}

func TestWebhookHandler_PendingRequest(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, notificationRepo := setupWebhookHandler(t, db)

	body := map[string]interface{}{
		"event":   "media.pending",
		"subject": "Dune Part Two",
		"request": map[string]interface{}{
			"id":                   42,
			"requestedBy_username": "alice",
		},
	}

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, webhookRequest(testWebhookToken, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Status            string `json:"status"`
		NotificationsSent int    `json:"notificationsSent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Status != "ok" {
		t.Errorf("Expected status ok, got %s", result.Status)
	}
	if result.NotificationsSent != 1 {
		t.Errorf("Expected 1 notification, got %d", result.NotificationsSent)
	}

	// Pending requests are a moderation event: the admin gets it, not the
	// requesting user.
	notifications, err := notificationRepo.ListByUser("usr_admin", false, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 admin notification, got %d", len(notifications))
	}

	n := notifications[0]
	if n.Title != "Overseerr: Request Pending" {
		t.Errorf("Unexpected title: %q", n.Title)
	}
	if n.Message != `"Dune Part Two" requested by alice is awaiting approval` {
		t.Errorf("Unexpected message: %q", n.Message)
	}
	if n.Metadata == nil {
		t.Fatal("Expected actionable metadata")
	}
	if n.Metadata["actionable"] != true || n.Metadata["service"] != "overseerr" {
		t.Errorf("Unexpected metadata: %v", n.Metadata)
	}
	if n.Metadata["mediaTitle"] != "Dune Part Two" {
		t.Errorf("Unexpected metadata title: %v", n.Metadata["mediaTitle"])
	}
	// JSON round-trips the request id as float64.
	if n.Metadata["requestId"] != float64(42) {
		t.Errorf("Unexpected request id: %v", n.Metadata["requestId"])
	}

	userNotifications, _ := notificationRepo.ListByUser("usr_alice", false, 10, 0)
	if len(userNotifications) != 0 {
		t.Errorf("Expected no user notifications, got %d", len(userNotifications))
	}
}

func TestWebhookHandler_AvailableGoesToRequester(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, notificationRepo := setupWebhookHandler(t, db)

	body := map[string]interface{}{
		"notificationType": "MEDIA_AVAILABLE",
		"subject":          "Dune Part Two",
		"request": map[string]interface{}{
			"id":                   42,
			"requestedBy_username": "alice",
		},
	}

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, webhookRequest(testWebhookToken, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	notifications, _ := notificationRepo.ListByUser("usr_alice", false, 10, 0)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 user notification, got %d", len(notifications))
	}
	if notifications[0].Type != "success" {
		t.Errorf("Expected success type, got %s", notifications[0].Type)
	}
	if notifications[0].Metadata != nil {
		t.Errorf("Expected no metadata, got %v", notifications[0].Metadata)
	}
}

func TestWebhookHandler_UnknownEventIgnored(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, _ := setupWebhookHandler(t, db)

	body := map[string]interface{}{"event": "media.pondering", "subject": "Dune"}

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, webhookRequest(testWebhookToken, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var result struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.Status != "ignored" || result.Reason != "Unknown event type" {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestWebhookHandler_InvalidToken(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, _ := setupWebhookHandler(t, db)

	tests := []struct {
		name  string
		token string
	}{
		{"Wrong Token", "tok_wrong"},
		{"Empty Token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Overseerr(rec, webhookRequest(tt.token, map[string]interface{}{"event": "media.pending"}))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rec.Code)
			}

			var result struct {
				Error string `json:"error"`
			}
			json.Unmarshal(rec.Body.Bytes(), &result)
			if result.Error != "Invalid webhook token" {
				t.Errorf("Unexpected error: %q", result.Error)
			}
		})
	}
}

func TestWebhookHandler_WebhookDisabled(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, _ := setupWebhookHandler(t, db)

	if _, err := db.Exec(`UPDATE integrations SET webhook_enabled = 0 WHERE service = 'overseerr'`); err != nil {
		t.Fatalf("Failed to disable webhook: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, webhookRequest(testWebhookToken, map[string]interface{}{"event": "media.pending"}))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	var result struct {
		Error string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.Error != "Webhook not enabled" {
		t.Errorf("Unexpected error: %q", result.Error)
	}
}

func TestWebhookHandler_SonarrRoutesToAdmins(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, notificationRepo := setupWebhookHandler(t, db)

	body := map[string]interface{}{
		"eventType": "Download",
		"series":    map[string]interface{}{"title": "Severance"},
		"episodes": []map[string]interface{}{
			{"seasonNumber": 2, "episodeNumber": 3},
		},
		"release": map[string]interface{}{"quality": "WEBDL-1080p"},
	}
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/webhooks/sonarr/"+testWebhookToken, bytes.NewReader(buf))
	params := httprouter.Params{{Key: "token", Value: testWebhookToken}}
	req = req.WithContext(context.WithValue(req.Context(), apiContext.Params, params))

	rec := httptest.NewRecorder()
	handler.Sonarr(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	notifications, _ := notificationRepo.ListByUser("usr_admin", false, 10, 0)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 admin notification, got %d", len(notifications))
	}
	if notifications[0].Message != "Downloaded Severance S02E03 [WEBDL-1080p]" {
		t.Errorf("Unexpected message: %q", notifications[0].Message)
	}
}

func TestWebhookHandler_OptOutSuppressesDelivery(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, notificationRepo := setupWebhookHandler(t, db)

	preferenceRepo := repositories.NewPreferenceRepository(db)
	pref := &models.NotificationPreference{ID: "prf_1", UserID: "usr_alice", Service: "overseerr", EventKey: "requestAvailable", Enabled: false}
	if err := preferenceRepo.Set(pref); err != nil {
		t.Fatalf("Failed to set preference: %v", err)
	}

	body := map[string]interface{}{
		"event":   "media.available",
		"subject": "Dune Part Two",
		"request": map[string]interface{}{"requestedBy_username": "alice"},
	}

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, webhookRequest(testWebhookToken, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var result struct {
		NotificationsSent int `json:"notificationsSent"`
	}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.NotificationsSent != 0 {
		t.Errorf("Expected 0 notifications, got %d", result.NotificationsSent)
	}

	notifications, _ := notificationRepo.ListByUser("usr_alice", false, 10, 0)
	if len(notifications) != 0 {
		t.Errorf("Expected no notifications, got %d", len(notifications))
	}
}

func TestWebhookHandler_MalformedJSON(t *testing.T) {
	db := setupWebhookTestDB(t)
	defer db.Close()
	handler, _ := setupWebhookHandler(t, db)

	req := httptest.NewRequest("POST", "/api/webhooks/overseerr/"+testWebhookToken, bytes.NewReader([]byte("{not json")))
	params := httprouter.Params{{Key: "token", Value: testWebhookToken}}
	req = req.WithContext(context.WithValue(req.Context(), apiContext.Params, params))

	rec := httptest.NewRecorder()
	handler.Overseerr(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}
