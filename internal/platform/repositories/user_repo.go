package repositories

import (
	"database/sql"
	"time"

	"framerr/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, avatar_url, receive_unmatched, last_login_at, created_at, updated_at, deleted_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.AvatarURL, &user.ReceiveUnmatched, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, role, avatar_url, receive_unmatched, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.AvatarURL, user.ReceiveUnmatched, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username))
}

func (r *UserRepository) List() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Admins returns every active admin account. This is the recipient set for
// admin-class webhook fan-out.
func (r *UserRepository) Admins() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users WHERE role = 'admin' AND deleted_at IS NULL ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, user)
	}
	return admins, rows.Err()
}

func (r *UserRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}

func (r *UserRepository) UpdateRole(userID, role string) error {
	_, err := r.db.Exec(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now().Unix(), userID)
	return err
}

func (r *UserRepository) UpdateReceiveUnmatched(userID string, enabled bool) error {
	_, err := r.db.Exec(`UPDATE users SET receive_unmatched = ?, updated_at = ? WHERE id = ?`, enabled, time.Now().Unix(), userID)
	return err
}

func (r *UserRepository) UpdateLastLogin(userID string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, timestamp, userID)
	return err
}

func (r *UserRepository) Delete(userID string) error {
	_, err := r.db.Exec(`UPDATE users SET deleted_at = ? WHERE id = ?`, time.Now().Unix(), userID)
	return err
}

// ResolveIdentity maps an external service username onto a local account.
// Returns nil, nil when no identity matches (the unmatched webhook path).
func (r *UserRepository) ResolveIdentity(service, externalUsername string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`
		SELECT u.id, u.username, u.email, u.password_hash, u.role, u.avatar_url, u.receive_unmatched, u.last_login_at, u.created_at, u.updated_at, u.deleted_at
		FROM users u
		JOIN service_identities si ON si.user_id = u.id
		WHERE si.service = ? AND si.external_username = ? COLLATE NOCASE AND u.deleted_at IS NULL
	`, service, externalUsername))
}

func (r *UserRepository) AddIdentity(identity *models.ServiceIdentity) error {
	_, err := r.db.Exec(`
		INSERT INTO service_identities (id, user_id, service, external_username, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, service) DO UPDATE SET external_username = excluded.external_username
	`, identity.ID, identity.UserID, identity.Service, identity.ExternalUsername, identity.CreatedAt)
	return err
}

func (r *UserRepository) ListIdentities(userID string) ([]*models.ServiceIdentity, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, service, external_username, created_at
		FROM service_identities WHERE user_id = ? ORDER BY service
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []*models.ServiceIdentity
	for rows.Next() {
		si := &models.ServiceIdentity{}
		if err := rows.Scan(&si.ID, &si.UserID, &si.Service, &si.ExternalUsername, &si.CreatedAt); err != nil {
			return nil, err
		}
		identities = append(identities, si)
	}
	return identities, rows.Err()
}

func (r *UserRepository) DeleteIdentity(userID, service string) error {
	_, err := r.db.Exec(`DELETE FROM service_identities WHERE user_id = ? AND service = ?`, userID, service)
	return err
}
