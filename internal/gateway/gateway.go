package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/observability/middleware"
	"github.com/florianilch/optsync/internal/useroption"
)

// OptionsService is the option client the gateway forwards to.
type OptionsService interface {
	GetAll(ctx context.Context, id mwapi.Identity) (*useroption.UserInfo, error)
	Set(ctx context.Context, id mwapi.Identity, opt useroption.Option) error
	Delete(ctx context.Context, id mwapi.Identity, key string) error
	Reset(ctx context.Context, id mwapi.Identity) error
}

// Compile-time check that useroption.Client satisfies OptionsService
var _ OptionsService = (*useroption.Client)(nil)

// Server is the local options gateway.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
}

// Compile-time check that Server implements http.Handler
var _ http.Handler = (*Server)(nil)

// New creates a gateway serving the preferences of a single site.
func New(service OptionsService, id mwapi.Identity) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("missing options service")
	}
	if id.Host == "" {
		return nil, fmt.Errorf("missing site identity")
	}

	h := &handler{service: service, identity: id}
	logger := slog.Default()

	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, applyMiddlewares(fn,
			middleware.Logging(logger),
			RequestID,
			Recovery,
		))
	}

	handle("GET /v1/options", h.getAll)
	handle("PUT /v1/options/{key}", h.set)
	handle("DELETE /v1/options/{key}", h.delete)
	handle("POST /v1/options:reset", h.reset)

	return &Server{mux: mux}, nil
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start starts the HTTP server in the background and returns immediately.
// Startup errors (port in use, permission denied) are returned directly; errors while
// serving are sent to the returned channel, which is closed when the server stops.
//
// The caller is responsible for calling Shutdown() to stop the server.
func (s *Server) Start(ctx context.Context, address string) (<-chan error, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // covers a token fetch plus a write upstream
		IdleTimeout:  90 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		err := s.server.Serve(listener)
		// Only report error if not from graceful shutdown
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Shutdown performs graceful shutdown of the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		// Graceful shutdown failed - force close
		_ = s.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
