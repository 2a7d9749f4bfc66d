package useroption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/florianilch/optsync/internal/mwapi"
)

const (
	tracerName = "github.com/florianilch/optsync/internal/useroption"

	// keyRules rejects keys containing the API's list and assignment separators.
	keyRules = "required,excludesall=0x7C="

	// maxKeyBytes is the width of the server's option name column.
	maxKeyBytes = 255
)

// API is the subset of mwapi.Client the client needs.
type API interface {
	Get(ctx context.Context, id mwapi.Identity, action string, params mwapi.Params, out any) error
	Post(ctx context.Context, id mwapi.Identity, action string, query, form mwapi.Params, out any) error
}

// Compile-time check to ensure mwapi.Client satisfies API
var _ API = (*mwapi.Client)(nil)

// TokenAcquirer returns an edit token for a site, fetching one if necessary.
type TokenAcquirer interface {
	EnsureToken(ctx context.Context, id mwapi.Identity) (string, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTracerProvider sets the provider used for operation spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// Client reads, writes and deletes user options.
type Client struct {
	api      API
	tokens   TokenAcquirer
	validate *validator.Validate
	tracer   trace.Tracer
}

// New creates a Client.
func New(api API, tokens TokenAcquirer, opts ...ClientOption) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("missing api client")
	}
	if tokens == nil {
		return nil, fmt.Errorf("missing token acquirer")
	}

	c := &Client{
		api:      api,
		tokens:   tokens,
		validate: validator.New(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetAll returns a fresh snapshot of the user's identity and preferences. No token is
// needed and nothing is cached.
func (c *Client) GetAll(ctx context.Context, id mwapi.Identity) (_ *UserInfo, err error) {
	ctx, span := c.startSpan(ctx, "useroption.GetAll", id)
	defer func() { endSpan(span, err) }()

	var resp struct {
		Query struct {
			UserInfo *UserInfo `json:"userinfo"`
		} `json:"query"`
	}
	params := mwapi.Params{
		"meta":   {"userinfo"},
		"uiprop": {"options"},
	}
	if err := c.api.Get(ctx, id, "query", params, &resp); err != nil {
		return nil, &ReadError{Identity: id, Err: err}
	}
	if resp.Query.UserInfo == nil {
		return nil, &ReadError{Identity: id, Err: errors.New("response has no userinfo")}
	}

	info := resp.Query.UserInfo
	if info.Options == nil {
		info.Options = OptionValues{}
	}
	slog.DebugContext(ctx, "read user options", "site", id.String(), "user", info.Name, "count", len(info.Options))
	return info, nil
}

// Set writes opt. An Option without a value is deleted instead, exactly as Delete
// would.
func (c *Client) Set(ctx context.Context, id mwapi.Identity, opt Option) error {
	if opt.Value == nil {
		return c.Delete(ctx, id, opt.Key)
	}

	query := mwapi.Params{
		"optionname":  {opt.Key},
		"optionvalue": {*opt.Value},
	}
	return c.write(ctx, "useroption.Set", id, opt.Key, query)
}

// Delete removes the named preference, restoring the site default.
func (c *Client) Delete(ctx context.Context, id mwapi.Identity, key string) error {
	query := mwapi.Params{
		"change": {key},
	}
	return c.write(ctx, "useroption.Delete", id, key, query)
}

// Reset restores every preference to the site default.
func (c *Client) Reset(ctx context.Context, id mwapi.Identity) (err error) {
	ctx, span := c.startSpan(ctx, "useroption.Reset", id)
	defer func() { endSpan(span, err) }()

	query := mwapi.Params{}
	query.SetOptional("reset", mwapi.Optional(true))
	return c.post(ctx, id, "", query)
}

// write validates key and performs one token-gated options write.
func (c *Client) write(ctx context.Context, spanName string, id mwapi.Identity, key string, query mwapi.Params) (err error) {
	ctx, span := c.startSpan(ctx, spanName, id, attribute.String("useroption.key", key))
	defer func() { endSpan(span, err) }()

	if err := c.validate.Var(key, keyRules); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	if len(key) > maxKeyBytes {
		return fmt.Errorf("%w %q: longer than %d bytes", ErrInvalidKey, key, maxKeyBytes)
	}
	return c.post(ctx, id, key, query)
}

// post acquires a token, then sends the write and checks its acknowledgement.
// The token step always completes before the write is issued.
func (c *Client) post(ctx context.Context, id mwapi.Identity, key string, query mwapi.Params) error {
	token, err := c.tokens.EnsureToken(ctx, id)
	if err != nil {
		return err
	}

	form := mwapi.Params{"token": {token}}
	var ack Acknowledgement
	if err := c.api.Post(ctx, id, "options", query, form, &ack); err != nil {
		var apiErr *mwapi.APIError
		if errors.As(err, &apiErr) {
			return &WriteRejectedError{Key: key, Err: apiErr}
		}
		return &WriteError{Key: key, Err: err}
	}

	if err := Check(ack); err != nil {
		var rejected *WriteRejectedError
		if errors.As(err, &rejected) {
			rejected.Key = key
		}
		return err
	}

	slog.DebugContext(ctx, "wrote user option", "site", id.String(), "key", key)
	return nil
}

func (c *Client) startSpan(ctx context.Context, name string, id mwapi.Identity, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("mediawiki.site", id.String()))
	return c.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
