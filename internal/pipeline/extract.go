package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"summarizehub/internal/model"
)

const (
	maxBodyChars    = 3000
	maxTopComments  = 3
	topCommentLabel = "Top comments:"
)

// ExtractContent returns the text sent to the model for one post: the body
// when there is one, otherwise up to three top-level comments. Comment
// failures degrade to an empty excerpt.
func ExtractContent(ctx context.Context, post model.Post) string {
	if strings.TrimSpace(post.Body) != "" {
		return truncate(post.Body, maxBodyChars)
	}

	if post.LoadComments == nil {
		return ""
	}

	comments, err := post.LoadComments(ctx)
	if err != nil {
		slog.Warn("could not fetch comments for post", "post_id", post.ID, "subreddit", post.Subreddit, "error", err)
		return ""
	}

	var bodies []string
	for _, c := range comments {
		if c.Body == "" {
			continue
		}
		bodies = append(bodies, c.Body)
		if len(bodies) == maxTopComments {
			break
		}
	}

	if len(bodies) == 0 {
		return ""
	}

	return topCommentLabel + "\n" + strings.Join(bodies, "\n\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
