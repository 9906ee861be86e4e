package repositories

import (
	"database/sql"
	"time"

	"framerr/internal/platform/models"
)

type IntegrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

const integrationColumns = `id, service, display_name, base_url, api_key, enabled, webhook_enabled, webhook_token, created_at, updated_at`

func scanIntegration(row interface{ Scan(...interface{}) error }) (*models.Integration, error) {
	i := &models.Integration{}
	err := row.Scan(&i.ID, &i.Service, &i.DisplayName, &i.BaseURL, &i.APIKey,
		&i.Enabled, &i.WebhookEnabled, &i.WebhookToken, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

func (r *IntegrationRepository) Upsert(i *models.Integration) error {
	i.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		INSERT INTO integrations (id, service, display_name, base_url, api_key, enabled, webhook_enabled, webhook_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			display_name = excluded.display_name,
			base_url = excluded.base_url,
			api_key = excluded.api_key,
			enabled = excluded.enabled,
			webhook_enabled = excluded.webhook_enabled,
			updated_at = excluded.updated_at
	`, i.ID, i.Service, i.DisplayName, i.BaseURL, i.APIKey, i.Enabled, i.WebhookEnabled, i.WebhookToken, i.CreatedAt, i.UpdatedAt)
	return err
}

func (r *IntegrationRepository) GetByService(service string) (*models.Integration, error) {
	return scanIntegration(r.db.QueryRow(`SELECT `+integrationColumns+` FROM integrations WHERE service = ?`, service))
}

func (r *IntegrationRepository) List() ([]*models.Integration, error) {
	rows, err := r.db.Query(`SELECT ` + integrationColumns + ` FROM integrations ORDER BY service`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, i)
	}
	return integrations, rows.Err()
}

func (r *IntegrationRepository) RotateWebhookToken(service, token string) error {
	_, err := r.db.Exec(`UPDATE integrations SET webhook_token = ?, updated_at = ? WHERE service = ?`,
		token, time.Now().Unix(), service)
	return err
}
