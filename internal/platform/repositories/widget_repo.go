package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"framerr/internal/platform/models"
)

type WidgetRepository struct {
	db *sql.DB
}

func NewWidgetRepository(db *sql.DB) *WidgetRepository {
	return &WidgetRepository{db: db}
}

func (r *WidgetRepository) Create(w *models.Widget) error {
	settingsJSON, err := json.Marshal(w.Settings)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO widgets (id, user_id, type, service, position, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.UserID, w.Type, w.Service, w.Position, string(settingsJSON), w.CreatedAt, w.UpdatedAt)
	return err
}

func (r *WidgetRepository) GetByID(id string) (*models.Widget, error) {
	w := &models.Widget{}
	var settings string
	err := r.db.QueryRow(`
		SELECT id, user_id, type, service, position, settings, created_at, updated_at
		FROM widgets WHERE id = ?
	`, id).Scan(&w.ID, &w.UserID, &w.Type, &w.Service, &w.Position, &settings, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	json.Unmarshal([]byte(settings), &w.Settings)
	return w, nil
}

func (r *WidgetRepository) ListByUser(userID string) ([]*models.Widget, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, type, service, position, settings, created_at, updated_at
		FROM widgets WHERE user_id = ? ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []*models.Widget
	for rows.Next() {
		w := &models.Widget{}
		var settings string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Type, &w.Service, &w.Position, &settings, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(settings), &w.Settings)
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

func (r *WidgetRepository) Update(w *models.Widget) error {
	settingsJSON, err := json.Marshal(w.Settings)
	if err != nil {
		return err
	}
	w.UpdatedAt = time.Now().Unix()
	_, err = r.db.Exec(`
		UPDATE widgets SET type = ?, service = ?, position = ?, settings = ?, updated_at = ?
		WHERE id = ?
	`, w.Type, w.Service, w.Position, string(settingsJSON), w.UpdatedAt, w.ID)
	return err
}

func (r *WidgetRepository) Delete(id, userID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM widgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
