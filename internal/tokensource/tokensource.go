package tokensource

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenSourceOption configures a TokenSource.
type TokenSourceOption func(*tokenSourceConfig)

// tokenSourceConfig holds configuration for NewTokenSource.
type tokenSourceConfig struct {
	baseTransport http.RoundTripper
}

// WithTransport sets the transport used for token refresh requests, e.g. one that adds
// a User-Agent. If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) TokenSourceOption {
	return func(c *tokenSourceConfig) {
		c.baseTransport = transport
	}
}

// TokenSource refreshes Wikimedia OAuth 2 access tokens from a refresh token.
type TokenSource struct {
	tokenSource oauth2.TokenSource
}

// Compile-time check to ensure TokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*TokenSource)(nil)

// NewTokenSource creates a TokenSource for the given consumer credentials. No request
// is made until the first Token call.
func NewTokenSource(refreshToken, clientID, clientSecret string, endpoint oauth2.Endpoint, opts ...TokenSourceOption) *TokenSource {
	cfg := &tokenSourceConfig{
		baseTransport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
	}

	httpClient := &http.Client{
		Timeout:   30 * time.Second, // oauth2 refreshes with context.Background, so bound it here
		Transport: cfg.baseTransport,
	}
	// oauth2 reads the HTTP client from the context given at construction time.
	oauthCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	return &TokenSource{
		tokenSource: oauth2Config.TokenSource(oauthCtx, &oauth2.Token{RefreshToken: refreshToken}),
	}
}

// Token returns a valid access token, refreshing it if expired.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	return ts.tokenSource.Token()
}
