package models

type User struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	PasswordHash     string `json:"-"`
	Role             string `json:"role"` // admin, user
	AvatarURL        string `json:"avatar_url,omitempty"`
	ReceiveUnmatched bool   `json:"receive_unmatched"`
	LastLoginAt      *int64 `json:"last_login_at,omitempty"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
	DeletedAt        *int64 `json:"deleted_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Integration is the shared configuration for one external service
// (overseerr, sonarr, radarr, ...). The webhook token is a bearer secret
// and must never be logged in full.
type Integration struct {
	ID             string `json:"id"`
	Service        string `json:"service"`
	DisplayName    string `json:"display_name"`
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"-"`
	Enabled        bool   `json:"enabled"`
	WebhookEnabled bool   `json:"webhook_enabled"`
	WebhookToken   string `json:"-"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

// ServiceIdentity links an external service username to a local account.
// Used to resolve webhook events back to the requesting user.
type ServiceIdentity struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	Service          string `json:"service"`
	ExternalUsername string `json:"external_username"`
	CreatedAt        int64  `json:"created_at"`
}

type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"` // info, success, warning, error
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Icon      string                 `json:"icon,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"` // JSON column in DB
	Read      bool                   `json:"read"`
	CreatedAt int64                  `json:"created_at"`
}

// NotificationPreference is a per-user, per-service, per-event opt-out flag.
// Absent rows default to enabled.
type NotificationPreference struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Service   string `json:"service"`
	EventKey  string `json:"event_key"`
	Enabled   bool   `json:"enabled"`
	UpdatedAt int64  `json:"updated_at"`
}

// Widget is one tile on a user's dashboard layout.
type Widget struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Service   string                 `json:"service,omitempty"`
	Position  int                    `json:"position"`
	Settings  map[string]interface{} `json:"settings,omitempty"` // JSON column in DB
	CreatedAt int64                  `json:"created_at"`
	UpdatedAt int64                  `json:"updated_at"`
}
