// Package session manages login sessions in Redis.
//
// A session is a random token mapped to a user id with a TTL; expiry is
// enforced by Redis itself, so there is no sweeping to do. The token travels
// in an HttpOnly cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cookieName = "session_token"
	keyPrefix  = "session:token="
)

// Manager creates, resolves and destroys sessions.
type Manager struct {
	rdb    *redis.Client
	ttl    time.Duration
	secure bool // marks cookies Secure in production
}

// NewManager returns a session Manager with the given session lifetime.
func NewManager(rdb *redis.Client, ttl time.Duration, secure bool) *Manager {
	return &Manager{rdb: rdb, ttl: ttl, secure: secure}
}

// Create opens a new session for userID and returns its token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := m.rdb.Set(ctx, keyPrefix+token, userID, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// UserID resolves a token to the logged-in user id. An absent or expired
// session and an unreachable Redis all come back as ok=false, "not logged in".
func (m *Manager) UserID(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	userID, err := m.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[session] lookup: %v", err)
		}
		return "", false
	}
	return userID, true
}

// Destroy invalidates a session token. Destroying an unknown token is a
// no-op.
func (m *Manager) Destroy(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := m.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		log.Printf("[session] destroy: %v", err)
	}
}

// SetCookie attaches the session cookie to a response.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFrom extracts the session token from a request's cookie.
func TokenFrom(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
