package mwapi

import (
	"fmt"
	"net/http"
)

// APIError is the error object the action API embeds in an otherwise successful
// HTTP response, e.g. {"error":{"code":"badtoken","info":"Invalid CSRF token."}}.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	if e.Info == "" {
		return "mediawiki api error: " + e.Code
	}
	return fmt.Sprintf("mediawiki api error: %s: %s", e.Code, e.Info)
}

// HTTPError reports a non-2xx response from the API endpoint.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
