package credential

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no credential has been stored yet.
var ErrNotFound = errors.New("credential not found")

// ErrReadOnly is returned by Write on backends that cannot persist credentials.
var ErrReadOnly = errors.New("credential storage is read-only")

// Store reads and writes a single session credential.
type Store interface {
	// Read returns the stored credential. Returns ErrNotFound if nothing is stored,
	// or an error if the stored value is empty or unreadable.
	Read(ctx context.Context) (string, error)

	// Write persists the credential, replacing any previous value.
	Write(ctx context.Context, credential string) error
}
