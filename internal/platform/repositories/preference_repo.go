package repositories

import (
	"database/sql"
	"time"

	"framerr/internal/platform/models"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Wants reports whether the user has the given event enabled for the service.
// No stored row means enabled: preferences are opt-out.
func (r *PreferenceRepository) Wants(userID, service, eventKey string) (bool, error) {
	var enabled bool
	err := r.db.QueryRow(`
		SELECT enabled FROM notification_preferences
		WHERE user_id = ? AND service = ? AND event_key = ?
	`, userID, service, eventKey).Scan(&enabled)
	if err != nil {
		if err == sql.ErrNoRows {
			return true, nil
		}
		return false, err
	}
	return enabled, nil
}

func (r *PreferenceRepository) Set(pref *models.NotificationPreference) error {
	pref.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		INSERT INTO notification_preferences (id, user_id, service, event_key, enabled, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, service, event_key) DO UPDATE SET
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`, pref.ID, pref.UserID, pref.Service, pref.EventKey, pref.Enabled, pref.UpdatedAt)
	return err
}

func (r *PreferenceRepository) ListByUser(userID string) ([]*models.NotificationPreference, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, service, event_key, enabled, updated_at
		FROM notification_preferences WHERE user_id = ? ORDER BY service, event_key
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*models.NotificationPreference
	for rows.Next() {
		p := &models.NotificationPreference{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Service, &p.EventKey, &p.Enabled, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
