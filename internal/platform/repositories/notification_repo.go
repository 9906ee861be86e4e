package repositories

import (
	"database/sql"
	"encoding/json"

	"framerr/internal/platform/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	var metadataJSON []byte
	if n.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(n.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(`
		INSERT INTO notifications (id, user_id, type, title, message, icon, metadata, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Icon, nullableString(metadataJSON), n.Read, n.CreatedAt)
	return err
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func scanNotification(rows *sql.Rows) (*models.Notification, error) {
	n := &models.Notification{}
	var metadata sql.NullString
	if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Icon, &metadata, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	if metadata.Valid && metadata.String != "" {
		json.Unmarshal([]byte(metadata.String), &n.Metadata)
	}
	return n, nil
}

func (r *NotificationRepository) ListByUser(userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	query := `SELECT id, user_id, type, title, message, icon, metadata, read, created_at FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) UnreadCount(userID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&n)
	return n, err
}

// MarkRead flips the read flag for one notification, scoped to the owner so
// users cannot mark someone else's notification.
func (r *NotificationRepository) MarkRead(id, userID string) (bool, error) {
	res, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *NotificationRepository) MarkAllRead(userID string) (int64, error) {
	res, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) Delete(id, userID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// PruneRead removes read notifications created before the cutoff. Used by the
// retention worker.
func (r *NotificationRepository) PruneRead(before int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM notifications WHERE read = 1 AND created_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
