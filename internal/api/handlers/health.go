package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"framerr/internal/ws"
)

type HealthHandler struct {
	db  *sql.DB
	hub *ws.Hub
}

func NewHealthHandler(db *sql.DB, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := h.db.Ping(); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
	} else {
		checks["database"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, check := range checks {
		if check != "healthy" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, statusCode, struct {
		Status           string            `json:"status"`
		Timestamp        int64             `json:"timestamp"`
		ConnectedClients int               `json:"connected_clients"`
		Checks           map[string]string `json:"checks"`
	}{
		Status:           status,
		Timestamp:        time.Now().Unix(),
		ConnectedClients: h.hub.ClientCount(),
		Checks:           checks,
	})
}
