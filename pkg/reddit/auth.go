package reddit

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var ErrNoRefreshToken = errors.New("reddit returned no refresh token")

// AuthURL builds the consent page URL. A permanent grant is requested so the
// exchange yields a refresh token.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", "permanent"))
}

// Exchange trades a consent code for the refresh token used as the
// long-lived credential.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(c.tokenContext(ctx), code)
	if err != nil {
		return "", fmt.Errorf("reddit code exchange: %w", err)
	}

	if token.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	c.mu.Lock()
	c.tokens[token.RefreshToken] = &cachedSource{
		source:   c.oauth.TokenSource(c.tokenContext(context.Background()), token),
		lastUsed: c.now(),
	}
	c.mu.Unlock()

	return token.RefreshToken, nil
}

// Identity returns the username the credential belongs to.
func (c *Client) Identity(ctx context.Context, credential string) (string, error) {
	var me identity
	if err := c.getJSON(ctx, c.clientFor(credential), c.apiBase+"/api/v1/me", &me); err != nil {
		return "", fmt.Errorf("reddit identity: %w", err)
	}
	return me.Name, nil
}
