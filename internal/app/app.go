package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/florianilch/optsync/internal/edittoken"
	"github.com/florianilch/optsync/internal/gateway"
	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/tokensource"
	"github.com/florianilch/optsync/internal/tokenstore"
	"github.com/florianilch/optsync/internal/useroption"
)

// App wires the option client for the configured site and runs the local gateway.
type App struct {
	cfg      *Config
	identity mwapi.Identity
	options  *useroption.Client
	gateway  *gateway.Server
}

// New creates a new App instance. No network I/O is performed.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	identity, err := mwapi.ParseIdentity(cfg.Site)
	if err != nil {
		return nil, fmt.Errorf("invalid site: %w", err)
	}

	// Credential I/O deferred to first Token() call
	source, err := newTokenSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token source: %w", err)
	}

	httpClient, err := newHTTPClient(cfg, source)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	api := mwapi.NewClient(httpClient)

	// One edit token cache for the whole process
	acquirer, err := edittoken.New(api, tokenstore.NewMemory())
	if err != nil {
		return nil, fmt.Errorf("failed to create token acquirer: %w", err)
	}

	options, err := useroption.New(api, acquirer)
	if err != nil {
		return nil, fmt.Errorf("failed to create option client: %w", err)
	}

	gw, err := gateway.New(options, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}

	return &App{
		cfg:      cfg,
		identity: identity,
		options:  options,
		gateway:  gw,
	}, nil
}

// Identity returns the configured site.
func (a *App) Identity() mwapi.Identity {
	return a.identity
}

// Options returns the option client.
func (a *App) Options() *useroption.Client {
	return a.options
}

// Start runs the gateway server and blocks until ctx is cancelled or the server fails,
// then shuts everything down within the configured timeout.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	address := a.cfg.Server.Host + ":" + strconv.FormatUint(uint64(a.cfg.Server.Port), 10)
	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting gateway server", "address", address, "site", a.identity.String())
	gatewayErrCh, err := a.gateway.Start(gCtx, address)
	if err != nil {
		return fmt.Errorf("gateway startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.gateway.Shutdown)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-gatewayErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "gateway runtime error", "error", err)
				return fmt.Errorf("gateway: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	slog.InfoContext(gCtx, "application ready", "address", address)

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}

// newTokenSource creates the session token source for the configured method, or nil
// for unauthenticated sessions.
func newTokenSource(ctx context.Context, cfg *Config) (oauth2.TokenSource, error) {
	var factory TokenSourceFactory

	switch cfg.Auth.Method {
	case AuthenticationMethodNone:
		return nil, nil
	case AuthenticationMethodStatic:
		factory = func(accessToken string) oauth2.TokenSource {
			return tokensource.NewStaticTokenSource(accessToken)
		}
	case AuthenticationMethodOAuth:
		endpoint := tokensource.Endpoint
		endpoint.TokenURL = cfg.Auth.TokenURL
		userAgent := &mwapi.UserAgentTransport{UserAgent: cfg.UserAgent}
		factory = func(refreshToken string) oauth2.TokenSource {
			return tokensource.NewTokenSource(refreshToken, cfg.Auth.ClientID, cfg.Auth.ClientSecret, endpoint,
				tokensource.WithTransport(userAgent))
		}
	default:
		return nil, fmt.Errorf("unsupported authentication method: %s", cfg.Auth.Method)
	}

	store, err := cfg.Auth.NewCredentialStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}

	return NewPersistentTokenSource(factory, store)
}
