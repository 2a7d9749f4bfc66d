// Package tokensource provides OAuth 2 access tokens for authenticating against
// Wikimedia sites.
//
// Two flavours are supported:
//   - NewTokenSource exchanges a refresh token at the Wikimedia OAuth 2 token endpoint
//     and refreshes access tokens as they expire. Wikimedia rotates refresh tokens, so
//     callers should persist Token().RefreshToken when it changes.
//   - NewStaticTokenSource serves a fixed owner-only access token. Such tokens are JWTs;
//     their expiry is read (without verification) so an expired token fails locally
//     instead of as a confusing API error.
//
// Both implement oauth2.TokenSource and can be used with oauth2.Transport:
//
//	ts := tokensource.NewTokenSource(refreshToken, clientID, clientSecret, tokensource.Endpoint)
//	client := &http.Client{Transport: &oauth2.Transport{Source: ts}}
package tokensource
