package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Authenticator turns a consent code into a long-lived credential and
// resolves who that credential belongs to.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	Identity(ctx context.Context, credential string) (string, error)
	Forget(credential string)
}

// StateTTL bounds how long a login may take between redirect and callback.
const StateTTL = 10 * time.Minute

type oauthState struct {
	Nonce    string    `json:"nonce"`
	IssuedAt time.Time `json:"issued_at"`
}

type AuthHandler struct {
	sessions    SessionStore
	auth        Authenticator
	frontendURL string
	now         func() time.Time
}

func NewAuthHandler(sessions SessionStore, auth Authenticator, frontendURL string) *AuthHandler {
	return &AuthHandler{sessions: sessions, auth: auth, frontendURL: frontendURL, now: time.Now}
}

func (h *AuthHandler) Login(c *gin.Context) {
	state := oauthState{Nonce: uuid.NewString(), IssuedAt: h.now().UTC()}

	err := putSessionJSON(c, h.sessions, keyOAuthState, state)
	if err != nil {
		slog.Error("error storing oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return
	}

	c.Redirect(http.StatusFound, h.auth.AuthURL(state.Nonce))
}

// Callback handles Reddit's redirect after consent. The stored state is
// cleared whether or not it matches, and is rejected once older than StateTTL.
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	if errParam := c.Query("error"); errParam != "" {
		h.clearState(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": errParam})
		return
	}

	raw, found, err := h.sessions.Get(ctx, sid, keyOAuthState)
	if err != nil {
		slog.Error("error reading oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return
	}
	h.clearState(c)

	var expected oauthState
	if found {
		if err := json.Unmarshal([]byte(raw), &expected); err != nil {
			slog.Warn("unreadable oauth state", "session_id", sid, "error", err)
			found = false
		}
	}

	state := c.Query("state")
	if state == "" || !found || state != expected.Nonce {
		slog.Warn("oauth state mismatch", "session_id", sid)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state"})
		return
	}

	if h.now().Sub(expected.IssuedAt) > StateTTL {
		slog.Warn("oauth state expired", "session_id", sid, "issued_at", expected.IssuedAt)
		c.JSON(http.StatusBadRequest, gin.H{"error": "expired_state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_code"})
		return
	}

	credential, err := h.auth.Exchange(ctx, code)
	if err != nil {
		slog.Error("failed to authorize reddit code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authorization_failed", "detail": err.Error()})
		return
	}

	err = h.sessions.Put(ctx, sid, keyRefreshToken, credential)
	if err != nil {
		slog.Error("error storing credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/select")
}

func (h *AuthHandler) Me(c *gin.Context) {
	credential, found, err := h.sessions.Get(c.Request.Context(), sessionID(c), keyRefreshToken)
	if err != nil {
		slog.Error("error reading credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"authenticated": false, "error": "Session error"})
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	name, err := h.auth.Identity(c.Request.Context(), credential)
	if err != nil {
		slog.Error("error fetching reddit identity", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"authenticated": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "name": name})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	credential, found, err := h.sessions.Get(ctx, sid, keyRefreshToken)
	if err == nil && found {
		h.auth.Forget(credential)
	}

	err = h.sessions.Delete(ctx, sid, keyRefreshToken, keyLastSubs, keySummaries)
	if err != nil {
		slog.Error("error clearing session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) clearState(c *gin.Context) {
	err := h.sessions.Delete(c.Request.Context(), sessionID(c), keyOAuthState)
	if err != nil {
		slog.Warn("error clearing oauth state", "error", err)
	}
}
