package tokensource

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// StaticTokenSource serves a fixed access token until it expires.
type StaticTokenSource struct {
	token *oauth2.Token
	now   func() time.Time
}

// Compile-time check to ensure StaticTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*StaticTokenSource)(nil)

// NewStaticTokenSource wraps accessToken. If it is a JWT with an "exp" claim, that
// expiry is honored; opaque tokens never expire locally.
func NewStaticTokenSource(accessToken string) *StaticTokenSource {
	return &StaticTokenSource{
		token: &oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			Expiry:      jwtExpiry(accessToken),
		},
		now: time.Now,
	}
}

// Token returns the access token, or an error once it has expired.
func (s *StaticTokenSource) Token() (*oauth2.Token, error) {
	if !s.token.Expiry.IsZero() && !s.now().Before(s.token.Expiry) {
		return nil, fmt.Errorf("static access token expired at %s", s.token.Expiry.Format(time.RFC3339))
	}
	token := *s.token
	return &token, nil
}

// Expiry returns the token's expiry, or the zero time if unknown.
func (s *StaticTokenSource) Expiry() time.Time {
	return s.token.Expiry
}

// jwtExpiry reads the exp claim without verifying the signature; the server verifies.
func jwtExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
