package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/config"
)

// RateLimiter keeps simple per-source token buckets. Webhook producers can
// retry aggressively; this keeps a misconfigured one from flooding the
// notification pipeline.
type RateLimiter struct {
	store  sync.Map // map[string]*bucket
	limits map[string]int
}

type bucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	limits := map[string]int{
		"webhook":   cfg.WebhookPerMinute,
		"api_read":  cfg.APIReadPerMinute,
		"api_write": cfg.APIWritePerMinute,
	}
	if limits["webhook"] <= 0 {
		limits["webhook"] = 120
	}
	if limits["api_read"] <= 0 {
		limits["api_read"] = 1000
	}
	if limits["api_write"] <= 0 {
		limits["api_write"] = 100
	}

	rl := &RateLimiter{limits: limits}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

// Limit returns a middleware enforcing the named category's per-minute
// budget, keyed by source IP.
func (rl *RateLimiter) Limit(category string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(category, sourceIP(r)) {
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}
			next(w, r)
		}
	}
}

func (rl *RateLimiter) allow(category, source string) bool {
	limit, ok := rl.limits[category]
	if !ok {
		return true
	}

	key := category + ":" + source
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{tokens: limit, lastRefill: now})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now
	if elapsed := now.Sub(b.lastRefill); elapsed >= time.Minute {
		b.tokens = limit
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
