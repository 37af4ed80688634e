package pipeline

import (
	"context"
	"errors"
	"strings"
	"summarizehub/internal/model"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeFetcher struct {
	posts  map[string][]model.Post
	errs   map[string]error
	calls  []string
	limits []int
}

func (f *fakeFetcher) TopPosts(ctx context.Context, credential, subreddit string, limit int) ([]model.Post, error) {
	f.calls = append(f.calls, subreddit)
	f.limits = append(f.limits, limit)
	if err := f.errs[subreddit]; err != nil {
		return nil, err
	}
	return f.posts[subreddit], nil
}

type fakeSummarizer struct {
	response string
	prompts  []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return f.response
}

func textPosts(sub string, n int) []model.Post {
	posts := make([]model.Post, n)
	for i := range posts {
		id := string(rune('a' + i))
		posts[i] = model.Post{
			ID:          id,
			Title:       "Post " + id,
			Body:        "Body " + id,
			URL:         "https://reddit.com/r/" + sub + "/" + id,
			Author:      "author_" + id,
			Score:       10 * (i + 1),
			NumComments: i,
			Subreddit:   sub,
		}
	}
	return posts
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 5},
		{-5, 5},
		{100, 5},
		{26, 5},
		{1, 1},
		{10, 10},
		{25, 25},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLimit(tt.in))
	}
}

func TestRun_NoCommunities(t *testing.T) {
	fetcher := &fakeFetcher{}
	summarizer := &fakeSummarizer{}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", nil, 5)

	assert.Equal(t, true, errors.Is(err, ErrNoCommunities))
	assert.Equal(t, 0, len(res))
	assert.Equal(t, 0, len(fetcher.calls))
	assert.Equal(t, 0, len(summarizer.prompts))
}

func TestRun_SingleCommunity(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": textPosts("test", 2)}}
	summarizer := &fakeSummarizer{response: "S1@#$%S2@#$%"}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"test"}, 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "test", res[0].Subreddit)
	assert.Equal(t, 2, len(res[0].Posts))

	first := res[0].Posts[0]
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "Post a", first.Title)
	assert.Equal(t, "S1", first.Summary)
	assert.Equal(t, 10, first.Score)
	assert.Equal(t, 0, first.Comments)
	assert.Equal(t, "author_a", first.Author)
	assert.Equal(t, "test", first.Subreddit)
	assert.Equal(t, "S2", res[0].Posts[1].Summary)

	assert.Equal(t, 1, len(summarizer.prompts))
	assert.Equal(t, []int{2}, fetcher.limits)
}

func TestRun_OneSummarizeCallPerCommunity(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{
		"a": textPosts("a", 3),
		"b": textPosts("b", 1),
	}}
	summarizer := &fakeSummarizer{response: "X@#$%Y@#$%Z@#$%"}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"a", "b"}, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(summarizer.prompts))
	assert.Equal(t, true, strings.Contains(summarizer.prompts[0], "Title: Post c"))
	assert.Equal(t, "a", res[0].Subreddit)
	assert.Equal(t, "b", res[1].Subreddit)
	assert.Equal(t, 1, len(res[1].Posts))
}

func TestRun_FetchFailureIsolated(t *testing.T) {
	fetcher := &fakeFetcher{
		posts: map[string][]model.Post{"b": textPosts("b", 2)},
		errs:  map[string]error{"a": errors.New("403 forbidden")},
	}
	summarizer := &fakeSummarizer{response: "one@#$%two@#$%"}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"a", "b"}, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "b", res[0].Subreddit)
	assert.Equal(t, 2, len(res[0].Posts))
	assert.Equal(t, []string{"a", "b"}, fetcher.calls)
}

func TestRun_EmptyCommunityOmitted(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"quiet": {}}}
	summarizer := &fakeSummarizer{response: "S1@#$%"}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"quiet"}, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(res))
	assert.Equal(t, 0, len(summarizer.prompts))
}

func TestRun_TruncatesToFewerSummaries(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": textPosts("test", 4)}}
	summarizer := &fakeSummarizer{response: "only one@#$%only two"}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"test"}, 4)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(res[0].Posts))
	assert.Equal(t, "a", res[0].Posts[0].ID)
	assert.Equal(t, "b", res[0].Posts[1].ID)
	assert.Equal(t, "only two", res[0].Posts[1].Summary)
}

func TestRun_ExtraSummariesIgnored(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": textPosts("test", 1)}}
	summarizer := &fakeSummarizer{response: "S1@#$%S2@#$%S3@#$%"}
	p := New(fetcher, summarizer)

	res, _ := p.Run(context.Background(), "cred", []string{"test"}, 5)

	assert.Equal(t, 1, len(res[0].Posts))
	assert.Equal(t, "S1", res[0].Posts[0].Summary)
}

func TestRun_NoSummariesOmitsCommunity(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": textPosts("test", 2)}}
	summarizer := &fakeSummarizer{response: "  @#$%  "}
	p := New(fetcher, summarizer)

	res, err := p.Run(context.Background(), "cred", []string{"test"}, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(res))
}

func TestRun_SentinelBecomesFirstSummary(t *testing.T) {
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": textPosts("test", 3)}}
	summarizer := &fakeSummarizer{response: "[error summarizing]"}
	p := New(fetcher, summarizer)

	res, _ := p.Run(context.Background(), "cred", []string{"test"}, 5)

	assert.Equal(t, 1, len(res[0].Posts))
	assert.Equal(t, "[error summarizing]", res[0].Posts[0].Summary)
}

func TestRun_EmptyExcerptStillBatched(t *testing.T) {
	posts := []model.Post{
		{ID: "x", Title: "Link post", LoadComments: func(context.Context) ([]model.Comment, error) {
			return nil, errors.New("comments unavailable")
		}},
		{ID: "y", Title: "Text post", Body: "hello"},
	}
	fetcher := &fakeFetcher{posts: map[string][]model.Post{"test": posts}}
	summarizer := &fakeSummarizer{response: "S1@#$%S2@#$%"}
	p := New(fetcher, summarizer)

	res, _ := p.Run(context.Background(), "cred", []string{"test"}, 5)

	assert.Equal(t, true, strings.Contains(summarizer.prompts[0], "Title: Link post\n\nBody/Comments: \n\n---"))
	assert.Equal(t, 2, len(res[0].Posts))
	assert.Equal(t, model.UnknownAuthor, res[0].Posts[0].Author)
}

func TestRun_ClampsLimit(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := New(fetcher, &fakeSummarizer{})

	p.Run(context.Background(), "cred", []string{"a"}, 100)

	assert.Equal(t, []int{DefaultLimit}, fetcher.limits)
}
