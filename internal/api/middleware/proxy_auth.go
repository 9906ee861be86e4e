package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	apiContext "framerr/internal/api/context"
	"framerr/internal/platform/auth"
	"framerr/internal/platform/config"
	"framerr/internal/platform/repositories"
)

// ProxyAuthMiddleware authenticates requests forwarded by a trusted reverse
// proxy (Authelia, Authentik, ...) using a username header. Only requests
// arriving from a whitelisted proxy address are trusted; anything else falls
// through to bearer-token authentication.
type ProxyAuthMiddleware struct {
	cfg      config.ProxyConfig
	userRepo *repositories.UserRepository
}

func NewProxyAuthMiddleware(cfg config.ProxyConfig, userRepo *repositories.UserRepository) *ProxyAuthMiddleware {
	return &ProxyAuthMiddleware{cfg: cfg, userRepo: userRepo}
}

func (m *ProxyAuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.cfg.AuthEnabled {
			next(w, r)
			return
		}

		username := r.Header.Get(m.cfg.UserHeader)
		if username == "" || !m.trustedSource(r.RemoteAddr) {
			next(w, r)
			return
		}

		user, err := m.userRepo.GetByUsername(username)
		if err != nil {
			log.Error().Err(err).Msg("proxy auth user lookup failed")
			next(w, r)
			return
		}
		if user == nil || user.DeletedAt != nil {
			// Header named an unknown account; do not fall back to creating
			// one, just continue unauthenticated.
			next(w, r)
			return
		}

		claims := &auth.Claims{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer: "framerr-proxy",
			},
		}
		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}

// trustedSource reports whether the request came from a whitelisted proxy.
// Entries may be plain IPs or CIDR ranges.
func (m *ProxyAuthMiddleware) trustedSource(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	for _, entry := range m.cfg.TrustedProxies {
		if _, cidr, err := net.ParseCIDR(entry); err == nil {
			if cidr.Contains(ip) {
				return true
			}
			continue
		}
		if trusted := net.ParseIP(entry); trusted != nil && trusted.Equal(ip) {
			return true
		}
	}
	return false
}
