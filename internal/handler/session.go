package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "rsh_session"
	sessionIDKey      = "session_id"

	keyOAuthState   = "oauth_state"
	keyRefreshToken = "refresh_token"
	keyLastSubs     = "last_subs"
	keySummaries    = "summaries"
)

// SessionStore is a per-browser key-value bag. Get reports found=false for
// missing sessions and keys.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Put(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	Ping(ctx context.Context) error
}

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// SessionMiddleware makes sure every request carries a session id cookie and
// exposes the id to handlers.
func SessionMiddleware(cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil {
			id = uuid.NewString()
		} else if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, id, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func getSessionJSON(c *gin.Context, store SessionStore, key string, v any) (bool, error) {
	raw, found, err := store.Get(c.Request.Context(), sessionID(c), key)
	if err != nil || !found {
		return false, err
	}
	return true, json.Unmarshal([]byte(raw), v)
}

func putSessionJSON(c *gin.Context, store SessionStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Put(c.Request.Context(), sessionID(c), key, string(raw))
}
