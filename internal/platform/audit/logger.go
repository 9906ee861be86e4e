package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apiContext "framerr/internal/api/context"
	"framerr/internal/platform/auth"
)

// Entry records an administrative action (integration changes, token
// rotations, role changes) for later review.
type Entry struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    int64                  `json:"created_at"`
}

type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// Log writes an audit entry. Failures are logged and swallowed: auditing
// must never fail the action it records.
func (l *Logger) Log(ctx context.Context, action, resourceType, resourceID string, metadata map[string]interface{}) {
	var userID string
	if claims, ok := ctx.Value(apiContext.Claims).(*auth.Claims); ok {
		userID = claims.UserID
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, _ = json.Marshal(metadata)
	}

	entry := Entry{
		ID:           "aud_" + uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		CreatedAt:    time.Now().Unix(),
	}

	_, err := l.db.Exec(`
		INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, string(metadataJSON), entry.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

func (l *Logger) List(limit, offset int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, user_id, action, resource_type, resource_id, metadata, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var metadata sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		if metadata.Valid && metadata.String != "" {
			json.Unmarshal([]byte(metadata.String), &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
