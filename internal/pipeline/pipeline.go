package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"summarizehub/internal/model"
)

const (
	DefaultLimit = 5
	MaxLimit     = 25
)

var ErrNoCommunities = errors.New("no communities provided")

type CommunityFetcher interface {
	TopPosts(ctx context.Context, credential, subreddit string, limit int) ([]model.Post, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) string
}

type Pipeline struct {
	fetcher    CommunityFetcher
	summarizer Summarizer
}

func New(fetcher CommunityFetcher, summarizer Summarizer) *Pipeline {
	return &Pipeline{fetcher: fetcher, summarizer: summarizer}
}

// NormalizeLimit resets any limit outside [1, MaxLimit] to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit < 1 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// Run fetches and summarizes the day's top posts for each subreddit in order.
// Subreddits that fail to fetch or end up with no summarized posts are
// omitted from the result.
func (p *Pipeline) Run(ctx context.Context, credential string, subreddits []string, limit int) ([]model.CommunityResult, error) {
	if len(subreddits) == 0 {
		return nil, ErrNoCommunities
	}

	limit = NormalizeLimit(limit)

	results := make([]model.CommunityResult, 0, len(subreddits))
	for _, sub := range subreddits {
		posts, err := p.fetcher.TopPosts(ctx, credential, sub, limit)
		if err != nil {
			slog.Error("error fetching subreddit", "subreddit", sub, "error", err)
			continue
		}

		if len(posts) == 0 {
			slog.Info("no posts fetched, skipping subreddit", "subreddit", sub)
			continue
		}

		summarized := p.summarizeCommunity(ctx, sub, posts)
		if len(summarized) == 0 {
			continue
		}

		results = append(results, model.CommunityResult{
			Subreddit: sub,
			Posts:     summarized,
		})
	}

	return results, nil
}

func (p *Pipeline) summarizeCommunity(ctx context.Context, sub string, posts []model.Post) []model.SummaryResult {
	fragments := make([]Fragment, len(posts))
	for i, post := range posts {
		fragments[i] = Fragment{
			Title:   post.Title,
			Excerpt: ExtractContent(ctx, post),
		}
	}

	response := p.summarizer.Summarize(ctx, BuildBatch(fragments))
	summaries := SplitBatch(response)

	n := min(len(posts), len(summaries))
	if n < len(posts) {
		slog.Warn("summary count mismatch, dropping trailing posts", "subreddit", sub, "posts", len(posts), "summaries", len(summaries))
	}

	results := make([]model.SummaryResult, n)
	for i := 0; i < n; i++ {
		results[i] = toSummaryResult(sub, posts[i], summaries[i])
	}
	return results
}

func toSummaryResult(sub string, post model.Post, summary string) model.SummaryResult {
	author := post.Author
	if author == "" {
		author = model.UnknownAuthor
	}

	return model.SummaryResult{
		ID:        post.ID,
		Title:     post.Title,
		Summary:   summary,
		Score:     post.Score,
		Comments:  post.NumComments,
		URL:       post.URL,
		Author:    author,
		Subreddit: sub,
	}
}
