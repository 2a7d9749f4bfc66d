package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client performs action API requests against any Identity using a shared http.Client.
// Authentication (cookies, OAuth bearer) is the http.Client's concern.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// Get issues a GET for the given action and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, id Identity, action string, params Params, out any) error {
	u := id.APIURL()
	u.RawQuery = withAction(action, params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return c.do(req, out)
}

// Post issues a form-encoded POST. query is sent in the URL, form in the body.
func (c *Client) Post(ctx context.Context, id Identity, action string, query, form Params, out any) error {
	u := id.APIURL()
	u.RawQuery = withAction(action, query).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	ctx := req.Context()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	slog.DebugContext(ctx, "mediawiki api response",
		"method", req.Method,
		"action", req.URL.Query().Get("action"),
		"host", req.URL.Host,
		"bytes", len(body),
	)

	return decode(body, out)
}

// decode unmarshals an action API response, turning an embedded error object into an
// *APIError.
func decode(body []byte, out any) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func withAction(action string, params Params) Params {
	p := Params{}
	for k, v := range params {
		p[k] = append([]string(nil), v...)
	}
	p.Set("action", action)
	p.Set("format", "json")
	p.Set("formatversion", "2")
	return p
}

