package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/florianilch/optsync/internal/credential"
)

// TokenSourceFactory builds an oauth2.TokenSource from the stored credential.
type TokenSourceFactory func(credential string) oauth2.TokenSource

// PersistentTokenSource loads the session credential on first use and writes rotated
// refresh tokens back to the credential store.
type PersistentTokenSource struct {
	factory TokenSourceFactory
	store   credential.Store

	tokenSource func() (oauth2.TokenSource, error)

	mu        sync.Mutex
	persisted string // last refresh token known to be in the store
}

// Compile-time check to ensure PersistentTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*PersistentTokenSource)(nil)

// NewPersistentTokenSource creates a PersistentTokenSource. The store is not read until
// the first Token call.
func NewPersistentTokenSource(factory TokenSourceFactory, store credential.Store) (*PersistentTokenSource, error) {
	if factory == nil {
		return nil, fmt.Errorf("missing token source factory")
	}
	if store == nil {
		return nil, fmt.Errorf("missing credential store")
	}

	p := &PersistentTokenSource{
		factory: factory,
		store:   store,
	}
	p.tokenSource = sync.OnceValues(p.load)

	return p, nil
}

// load reads the credential and builds the underlying source. Runs once.
func (p *PersistentTokenSource) load() (oauth2.TokenSource, error) {
	// oauth2.TokenSource.Token has no context parameter
	ctx := context.Background()

	stored, err := p.store.Read(ctx)
	if errors.Is(err, credential.ErrNotFound) {
		return nil, fmt.Errorf("no stored credential, run `optsync login` first: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading stored credential: %w", err)
	}

	p.mu.Lock()
	p.persisted = stored
	p.mu.Unlock()

	return p.factory(stored), nil
}

// Token returns a valid access token and persists the refresh token if it rotated.
func (p *PersistentTokenSource) Token() (*oauth2.Token, error) {
	ts, err := p.tokenSource()
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token from token source: %w", err)
	}

	// Static access tokens carry no refresh token and are never written back.
	if token.RefreshToken == "" {
		return token, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token.RefreshToken == p.persisted {
		return token, nil
	}

	ctx := context.Background()
	if err := p.store.Write(ctx, token.RefreshToken); err != nil {
		// The access token still works, but the next process start will fail to refresh.
		slog.ErrorContext(ctx, "failed to persist rotated refresh token", "error", err)
		return token, nil
	}
	p.persisted = token.RefreshToken
	slog.DebugContext(ctx, "persisted rotated refresh token")

	return token, nil
}
