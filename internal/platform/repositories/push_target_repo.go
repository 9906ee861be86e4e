package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"framerr/internal/platform/models"
)

type PushTargetRepository struct {
	db *sql.DB
}

func NewPushTargetRepository(db *sql.DB) *PushTargetRepository {
	return &PushTargetRepository{db: db}
}

const pushTargetColumns = `id, user_id, name, url, secret, enabled, fail_count, last_triggered_at, last_error, created_at, updated_at`

func scanPushTarget(row interface{ Scan(...interface{}) error }) (*models.PushTarget, error) {
	t := &models.PushTarget{}
	var lastTriggeredAt sql.NullInt64
	var lastError sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.URL, &t.Secret, &t.Enabled,
		&t.FailCount, &lastTriggeredAt, &lastError, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if lastTriggeredAt.Valid {
		t.LastTriggeredAt = lastTriggeredAt.Int64
	}
	if lastError.Valid {
		t.LastError = lastError.String
	}
	return t, nil
}

func (r *PushTargetRepository) Create(t *models.PushTarget) error {
	t.ID = "pt_" + uuid.New().String()
	t.CreatedAt = time.Now().Unix()
	t.UpdatedAt = t.CreatedAt
	t.Enabled = true

	_, err := r.db.Exec(`
		INSERT INTO push_targets (id, user_id, name, url, secret, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Name, t.URL, t.Secret, t.Enabled, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PushTargetRepository) GetByID(id string) (*models.PushTarget, error) {
	return scanPushTarget(r.db.QueryRow(`SELECT `+pushTargetColumns+` FROM push_targets WHERE id = ?`, id))
}

func (r *PushTargetRepository) ListByUser(userID string) ([]*models.PushTarget, error) {
	rows, err := r.db.Query(`SELECT `+pushTargetColumns+` FROM push_targets WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []*models.PushTarget
	for rows.Next() {
		t, err := scanPushTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// ListEnabledByUser returns the delivery set for one user's push fan-out.
func (r *PushTargetRepository) ListEnabledByUser(userID string) ([]*models.PushTarget, error) {
	rows, err := r.db.Query(`SELECT `+pushTargetColumns+` FROM push_targets WHERE user_id = ? AND enabled = 1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []*models.PushTarget
	for rows.Next() {
		t, err := scanPushTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (r *PushTargetRepository) Delete(id, userID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM push_targets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *PushTargetRepository) UpdateLastTriggered(id string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE push_targets SET last_triggered_at = ? WHERE id = ?`, timestamp, id)
	return err
}

func (r *PushTargetRepository) UpdateLastError(id, lastError string) error {
	_, err := r.db.Exec(`UPDATE push_targets SET last_error = ? WHERE id = ?`, lastError, id)
	return err
}

func (r *PushTargetRepository) IncrementFailCount(id string) error {
	_, err := r.db.Exec(`UPDATE push_targets SET fail_count = fail_count + 1 WHERE id = ?`, id)
	return err
}

func (r *PushTargetRepository) ResetFailCount(id string) error {
	_, err := r.db.Exec(`UPDATE push_targets SET fail_count = 0, last_error = '' WHERE id = ?`, id)
	return err
}

// Disable marks a target stopped after repeated delivery failures.
func (r *PushTargetRepository) Disable(id string) error {
	_, err := r.db.Exec(`UPDATE push_targets SET enabled = 0, updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
