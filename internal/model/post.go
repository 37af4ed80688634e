package model

import "context"

const UnknownAuthor = "unknown"

type Comment struct {
	ID     string
	Author string
	Body   string
}

// Post is one fetched subreddit submission. LoadComments is bound by the
// fetcher to the credential the post was fetched with.
type Post struct {
	ID          string
	Title       string
	Body        string
	URL         string
	Permalink   string
	Author      string
	Score       int
	NumComments int
	Subreddit   string

	LoadComments func(ctx context.Context) ([]Comment, error)
}

type SummaryResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Score     int    `json:"score"`
	Comments  int    `json:"comments"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Subreddit string `json:"subreddit"`
}

type CommunityResult struct {
	Subreddit string          `json:"subreddit"`
	Posts     []SummaryResult `json:"posts"`
}
