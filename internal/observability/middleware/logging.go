// Package middleware provides HTTP server middleware for request observability.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// Logging logs one line per request with method, path, status and duration.
// Headers and bodies are never logged except for a short allow-list, since requests may
// carry preference values the user considers private.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Schema: httplog.SchemaECS.Concise(true),

		LogRequestHeaders:  []string{"Content-Type", "X-Request-Id"},
		LogResponseHeaders: []string{},
		LogRequestBody:     nil,
		LogResponseBody:    nil,

		RecoverPanics: false, // gateway.Recovery handles panics, they are logged regardless
	})
}
