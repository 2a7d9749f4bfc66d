package useroption

import (
	"errors"
	"fmt"

	"github.com/florianilch/optsync/internal/mwapi"
)

// ErrInvalidKey is returned, wrapped, for option keys the API cannot address.
var ErrInvalidKey = errors.New("invalid option key")

// ReadError reports a failed preference read, at transport or decoding level.
type ReadError struct {
	Identity mwapi.Identity
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading options from %s: %v", e.Identity, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a write that never got an acknowledgement, e.g. a network failure
// or a non-2xx response.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing option %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteRejectedError reports a write the server answered without confirming it.
// Status is the raw acknowledgement status; Err is set when the server replied with an
// API error object instead.
type WriteRejectedError struct {
	Key    string
	Status string
	Err    error
}

func (e *WriteRejectedError) Error() string {
	target := "options"
	if e.Key != "" {
		target = fmt.Sprintf("option %q", e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s rejected: %v", target, e.Err)
	}
	return fmt.Sprintf("%s rejected: status %q", target, e.Status)
}

func (e *WriteRejectedError) Unwrap() error {
	return e.Err
}
