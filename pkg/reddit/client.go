package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"summarizehub/internal/model"
	"time"

	"golang.org/x/oauth2"
)

const (
	apiBaseURL   = "https://oauth.reddit.com"
	authorizeURL = "https://www.reddit.com/api/v1/authorize"
	tokenURL     = "https://www.reddit.com/api/v1/access_token"
	publicURL    = "https://reddit.com"

	defaultUserAgent  = "reddit_summarize_hub"
	commentFetchLimit = 10

	// Cached token sources unused for this long are dropped.
	tokenIdleTTL = 24 * time.Hour
)

var Scopes = []string{"identity", "read"}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UserAgent    string
}

// Client talks to Reddit's OAuth API on behalf of users identified by their
// refresh token. Token sources are cached per refresh token so access tokens
// are reused across requests, until Forget or tokenIdleTTL without use.
type Client struct {
	oauth      *oauth2.Config
	apiBase    string
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	tokens map[string]*cachedSource
}

type cachedSource struct {
	source   oauth2.TokenSource
	lastUsed time.Time
}

func NewClient(cfg Config) *Client {
	agent := cfg.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authorizeURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiBase: apiBaseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &userAgentTransport{agent: agent, inner: http.DefaultTransport},
		},
		now:    time.Now,
		tokens: make(map[string]*cachedSource),
	}
}

func (c *Client) Name() string {
	return "Reddit"
}

// TopPosts returns up to limit of the day's top posts in subreddit.
func (c *Client) TopPosts(ctx context.Context, credential, subreddit string, limit int) ([]model.Post, error) {
	hc := c.clientFor(credential)

	endpoint := fmt.Sprintf("%s/r/%s/top?t=day&limit=%d&raw_json=1", c.apiBase, url.PathEscape(subreddit), limit)

	var raw listing
	if err := c.getJSON(ctx, hc, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("reddit top posts r/%s: %w", subreddit, err)
	}

	posts := make([]model.Post, 0, len(raw.Data.Children))
	for _, child := range raw.Data.Children {
		if child.Kind != kindLink {
			continue
		}

		var link linkData
		if err := json.Unmarshal(child.Data, &link); err != nil {
			return nil, fmt.Errorf("reddit decode post: %w", err)
		}

		posts = append(posts, c.toPost(hc, subreddit, link))
		if len(posts) == limit {
			break
		}
	}

	return posts, nil
}

func (c *Client) toPost(hc *http.Client, subreddit string, link linkData) model.Post {
	postURL := link.URL
	if postURL == "" {
		postURL = publicURL + link.Permalink
	}

	author := link.Author
	if author == "" {
		author = model.UnknownAuthor
	}

	id := link.ID
	return model.Post{
		ID:          id,
		Title:       link.Title,
		Body:        link.Selftext,
		URL:         postURL,
		Permalink:   link.Permalink,
		Author:      author,
		Score:       link.Score,
		NumComments: link.NumComments,
		Subreddit:   subreddit,
		LoadComments: func(ctx context.Context) ([]model.Comment, error) {
			return c.topLevelComments(ctx, hc, id)
		},
	}
}

// topLevelComments loads the first page of top-level comments. "more"
// placeholders are dropped rather than expanded.
func (c *Client) topLevelComments(ctx context.Context, hc *http.Client, postID string) ([]model.Comment, error) {
	endpoint := fmt.Sprintf("%s/comments/%s?depth=1&limit=%d&sort=confidence&raw_json=1", c.apiBase, url.PathEscape(postID), commentFetchLimit)

	var raw []listing
	if err := c.getJSON(ctx, hc, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("reddit comments %s: %w", postID, err)
	}

	if len(raw) < 2 {
		return nil, fmt.Errorf("reddit comments %s: unexpected response shape", postID)
	}

	var comments []model.Comment
	for _, child := range raw[1].Data.Children {
		if child.Kind != kindComment {
			continue
		}

		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, fmt.Errorf("reddit decode comment: %w", err)
		}

		comments = append(comments, model.Comment{
			ID:     data.ID,
			Author: data.Author,
			Body:   data.Body,
		})
	}

	return comments, nil
}

func (c *Client) clientFor(credential string) *http.Client {
	c.mu.Lock()
	now := c.now()
	c.evictIdle(now)
	cached, ok := c.tokens[credential]
	if !ok {
		cached = &cachedSource{
			source: c.oauth.TokenSource(c.tokenContext(context.Background()), &oauth2.Token{RefreshToken: credential}),
		}
		c.tokens[credential] = cached
	}
	cached.lastUsed = now
	c.mu.Unlock()

	return &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: &oauth2.Transport{Source: cached.source, Base: c.httpClient.Transport},
		// Reddit redirects unknown subreddits to search; treat that as a failure.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Forget drops the cached token source for credential.
func (c *Client) Forget(credential string) {
	c.mu.Lock()
	delete(c.tokens, credential)
	c.mu.Unlock()
}

// evictIdle drops token sources unused for tokenIdleTTL. Callers hold mu.
func (c *Client) evictIdle(now time.Time) {
	for credential, cached := range c.tokens {
		if now.Sub(cached.lastUsed) > tokenIdleTTL {
			delete(c.tokens, credential)
		}
	}
}

func (c *Client) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) getJSON(ctx context.Context, hc *http.Client, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "unexpected status " + strconv.Itoa(e.Code)
	}
	return "unexpected status " + strconv.Itoa(e.Code) + ": " + e.Body
}

type userAgentTransport struct {
	agent string
	inner http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", t.agent)
	return t.inner.RoundTrip(req2)
}
