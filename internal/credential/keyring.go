package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the credential in the OS keyring under a service/user pair.
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the given service and user identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}
	return &KeyringStore{service: service, user: user}, nil
}

// Read returns the keyring entry. A missing entry is ErrNotFound.
func (k *KeyringStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("keyring %s/%s: %w", k.service, k.user, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("empty credential in keyring for service %s, user %s", k.service, k.user)
	}
	return value, nil
}

// Write stores the credential, overwriting any existing entry.
func (k *KeyringStore) Write(ctx context.Context, credential string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if credential == "" {
		return fmt.Errorf("refusing to store empty credential")
	}
	return keyring.Set(k.service, k.user, credential)
}
