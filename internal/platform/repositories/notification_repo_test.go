package repositories

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"framerr/internal/platform/models"
)

func setupNotificationTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	query := `
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
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func createNotification(t *testing.T, repo *NotificationRepository, id, userID string, read bool, createdAt int64) {
	n := &models.Notification{
		ID:        id,
		UserID:    userID,
		Type:      "info",
		Title:     "Overseerr: Request Available",
		Message:   `"Dune Part Two" is now available`,
		Icon:      "overseerr",
		Read:      read,
		CreatedAt: createdAt,
	}
	if err := repo.Create(n); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}
}

func TestNotificationRepository_CreateAndList(t *testing.T) {
	db := setupNotificationTestDB(t)
	defer db.Close()
	repo := NewNotificationRepository(db)

	now := time.Now().Unix()
	n := &models.Notification{
		ID:        "ntf_1",
		UserID:    "usr_1",
		Type:      "warning",
		Title:     "Overseerr: Issue Reported",
		Message:   `bob reported an issue with "The Batman"`,
		Icon:      "overseerr",
		Metadata:  map[string]interface{}{"requestId": 42, "actionable": true},
		CreatedAt: now,
	}
	if err := repo.Create(n); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}

	list, err := repo.ListByUser("usr_1", false, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(list))
	}

	got := list[0]
	if got.Type != "warning" {
		t.Errorf("Expected warning type, got %s", got.Type)
	}
	if got.Metadata == nil || got.Metadata["actionable"] != true {
		t.Errorf("Metadata did not survive the round trip: %v", got.Metadata)
	}
}

func TestNotificationRepository_UnreadFilterAndCount(t *testing.T) {
	db := setupNotificationTestDB(t)
	defer db.Close()
	repo := NewNotificationRepository(db)

	now := time.Now().Unix()
	createNotification(t, repo, "ntf_1", "usr_1", false, now-2)
	createNotification(t, repo, "ntf_2", "usr_1", true, now-1)
	createNotification(t, repo, "ntf_3", "usr_2", false, now)

	unread, err := repo.ListByUser("usr_1", true, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != "ntf_1" {
		t.Errorf("Expected only ntf_1 unread, got %d", len(unread))
	}

	count, err := repo.UnreadCount("usr_1")
	if err != nil {
		t.Fatalf("Failed to count unread: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected unread count 1, got %d", count)
	}
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	defer db.Close()
	repo := NewNotificationRepository(db)

	now := time.Now().Unix()
	createNotification(t, repo, "ntf_1", "usr_1", false, now)

	ok, err := repo.MarkRead("ntf_1", "usr_1")
	if err != nil {
		t.Fatalf("Failed to mark read: %v", err)
	}
	if !ok {
		t.Error("Expected mark read to report success")
	}

	// Ownership is part of the key: another user's id must not match.
	ok, err = repo.MarkRead("ntf_1", "usr_2")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if ok {
		t.Error("Expected mark read to fail for non-owner")
	}

	count, _ := repo.UnreadCount("usr_1")
	if count != 0 {
		t.Errorf("Expected unread count 0, got %d", count)
	}
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	defer db.Close()
	repo := NewNotificationRepository(db)

	now := time.Now().Unix()
	createNotification(t, repo, "ntf_1", "usr_1", false, now)
	createNotification(t, repo, "ntf_2", "usr_1", false, now)
	createNotification(t, repo, "ntf_3", "usr_2", false, now)

	updated, err := repo.MarkAllRead("usr_1")
	if err != nil {
		t.Fatalf("Failed to mark all read: %v", err)
	}
	if updated != 2 {
		t.Errorf("Expected 2 updated, got %d", updated)
	}

	otherCount, _ := repo.UnreadCount("usr_2")
	if otherCount != 1 {
		t.Errorf("Other user's notifications must be untouched, count %d", otherCount)
	}
}

func TestNotificationRepository_PruneRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	defer db.Close()
	repo := NewNotificationRepository(db)

	now := time.Now().Unix()
	old := now - 90*24*3600
	createNotification(t, repo, "ntf_old_read", "usr_1", true, old)
	createNotification(t, repo, "ntf_old_unread", "usr_1", false, old)
	createNotification(t, repo, "ntf_new_read", "usr_1", true, now)

	pruned, err := repo.PruneRead(now - 30*24*3600)
	if err != nil {
		t.Fatalf("Failed to prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned, got %d", pruned)
	}

	// Unread notifications survive regardless of age.
	remaining, _ := repo.ListByUser("usr_1", false, 10, 0)
	if len(remaining) != 2 {
		t.Errorf("Expected 2 remaining, got %d", len(remaining))
	}
}
