package models

// PushTarget is a per-user outbound push endpoint. Created notifications are
// POSTed to the URL with an HMAC signature so the receiver can verify origin.
type PushTarget struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	Secret          string `json:"-"`
	Enabled         bool   `json:"enabled"`
	FailCount       int    `json:"fail_count"`
	LastTriggeredAt int64  `json:"last_triggered_at,omitempty"`
	LastError       string `json:"last_error,omitempty"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

// PushEvent is the payload delivered to a push target.
type PushEvent struct {
	ID           string        `json:"id"`
	Event        string        `json:"event"`
	Timestamp    int64         `json:"timestamp"`
	Notification *Notification `json:"notification"`
}
