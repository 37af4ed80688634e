package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"summarizehub/internal/model"
	"summarizehub/internal/pipeline"

	"github.com/gin-gonic/gin"
)

type SummaryRunner interface {
	Run(ctx context.Context, credential string, subreddits []string, limit int) ([]model.CommunityResult, error)
}

type SummaryHandler struct {
	sessions SessionStore
	pipeline SummaryRunner
}

func NewSummaryHandler(sessions SessionStore, pipeline SummaryRunner) *SummaryHandler {
	return &SummaryHandler{sessions: sessions, pipeline: pipeline}
}

// CreateSummaries fetches and summarizes the requested subreddits and caches
// the result on the session.
func (h *SummaryHandler) CreateSummaries(c *gin.Context) {
	credential, ok := h.requireCredential(c)
	if !ok {
		return
	}

	// A malformed body leaves whatever decoded so far; an empty subreddit
	// list is rejected by the pipeline.
	var req SummariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid summaries request body", "error", err)
	}

	h.run(c, credential, req.Subreddits.Normalize(), req.Limit.Or(pipeline.DefaultLimit))
}

// GetSummaries returns the cached result for the session. A limit query
// parameter, or a missing cache, reruns the last requested subreddits.
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	credential, ok := h.requireCredential(c)
	if !ok {
		return
	}

	if c.Query("limit") == "" {
		cached, found, err := h.sessions.Get(c.Request.Context(), sessionID(c), keySummaries)
		if err != nil {
			slog.Error("error reading cached summaries", "error", err)
		} else if found {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	var subs []string
	if _, err := getSessionJSON(c, h.sessions, keyLastSubs, &subs); err != nil {
		slog.Error("error reading last subreddits", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return
	}

	h.run(c, credential, subs, getQueryInt("limit", pipeline.DefaultLimit, c))
}

func (h *SummaryHandler) run(c *gin.Context, credential string, subs []string, limit int) {
	results, err := h.pipeline.Run(c.Request.Context(), credential, subs, limit)
	if errors.Is(err, pipeline.ErrNoCommunities) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No subreddits provided"})
		return
	}

	if err != nil {
		slog.Error("error generating summaries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Summarization failed"})
		return
	}

	if err := putSessionJSON(c, h.sessions, keyLastSubs, subs); err != nil {
		slog.Error("error caching last subreddits", "error", err)
	}

	if err := putSessionJSON(c, h.sessions, keySummaries, results); err != nil {
		slog.Error("error caching summaries", "error", err)
	}

	c.JSON(http.StatusOK, results)
}

func (h *SummaryHandler) requireCredential(c *gin.Context) (string, bool) {
	credential, found, err := h.sessions.Get(c.Request.Context(), sessionID(c), keyRefreshToken)
	if err != nil {
		slog.Error("error reading credential", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session error"})
		return "", false
	}

	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}

	return credential, true
}
