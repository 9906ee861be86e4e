package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/auth"
	"framerr/internal/ws"
)

type WSHandler struct {
	hub      *ws.Hub
	tokenSvc *auth.TokenService
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokenSvc *auth.TokenService) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokenSvc: tokenSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin only; the dashboard is served from this host.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// Serve upgrades the connection and registers it with the hub. Browsers
// cannot set headers on websocket requests, so the access token rides in
// the query string.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing token", nil)
		return
	}

	claims, err := h.tokenSvc.ValidateToken(token)
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	ws.Serve(h.hub, conn, claims.UserID)
}
