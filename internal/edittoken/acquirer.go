package edittoken

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/tokenstore"
)

// anonymousToken is what MediaWiki returns as a CSRF token for logged-out sessions.
const anonymousToken = `+\`

// API is the subset of mwapi.Client used to fetch tokens.
type API interface {
	Get(ctx context.Context, id mwapi.Identity, action string, params mwapi.Params, out any) error
}

// Compile-time check to ensure mwapi.Client satisfies API
var _ API = (*mwapi.Client)(nil)

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithTokenType selects the token type to request. Defaults to "csrf".
func WithTokenType(tokenType string) Option {
	return func(a *Acquirer) {
		a.tokenType = tokenType
	}
}

// Acquirer returns cached edit tokens, fetching them synchronously when absent.
type Acquirer struct {
	api       API
	store     tokenstore.Store
	tokenType string

	inflight singleflight.Group
}

// New creates an Acquirer that caches tokens in store.
func New(api API, store tokenstore.Store, opts ...Option) (*Acquirer, error) {
	if api == nil {
		return nil, fmt.Errorf("missing api client")
	}
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}

	a := &Acquirer{
		api:       api,
		store:     store,
		tokenType: "csrf",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// EnsureToken returns the cached token for id, or fetches, stores and returns a fresh
// one. A cache hit performs no network call.
func (a *Acquirer) EnsureToken(ctx context.Context, id mwapi.Identity) (string, error) {
	if token, ok := a.store.Get(id); ok {
		return token, nil
	}

	// Per-identity: callers for other sites use other keys and never wait here.
	ch := a.inflight.DoChan(id.String(), func() (any, error) {
		// Another flight may have finished between our cache miss and this call.
		if token, ok := a.store.Get(id); ok {
			return token, nil
		}

		// Shared by every waiter, so no single caller's cancellation may end it.
		// The HTTP client timeout still bounds the request.
		fetchCtx := context.WithoutCancel(ctx)
		token, err := a.fetch(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		a.store.Set(id, token)
		slog.DebugContext(fetchCtx, "acquired edit token", "site", id.String(), "type", a.tokenType)
		return token, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", &AcquisitionError{Identity: id, Err: ctx.Err()}
	}
	if res.Err != nil {
		return "", &AcquisitionError{Identity: id, Err: res.Err}
	}
	if res.Shared {
		slog.DebugContext(ctx, "shared in-flight token fetch", "site", id.String())
	}

	token, ok := a.store.Get(id)
	if !ok {
		return "", &MissingTokenError{Identity: id}
	}
	return token, nil
}

// fetch performs the remote token request. It never touches the store.
func (a *Acquirer) fetch(ctx context.Context, id mwapi.Identity) (string, error) {
	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	params := mwapi.Params{
		"meta": {"tokens"},
		"type": {a.tokenType},
	}
	if err := a.api.Get(ctx, id, "query", params, &resp); err != nil {
		return "", err
	}

	token := resp.Query.Tokens[a.tokenType+"token"]
	switch token {
	case "":
		return "", ErrMalformedToken
	case anonymousToken:
		return "", ErrAnonymousSession
	}
	return token, nil
}
