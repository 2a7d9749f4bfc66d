package credential

import (
	"context"
	"fmt"
	"os"
)

// EnvStore reads a credential from an environment variable. Writes always fail with
// ErrReadOnly, so it only suits static access tokens.
type EnvStore struct {
	envKey string
}

// Compile-time check to ensure EnvStore implements Store
var _ Store = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore for the given variable name.
func NewEnvStore(envKey string) (*EnvStore, error) {
	if envKey == "" {
		return nil, fmt.Errorf("environment key cannot be empty")
	}
	return &EnvStore{envKey: envKey}, nil
}

// Read returns the variable's value. An unset variable is ErrNotFound, a set but
// empty one is an error.
func (e *EnvStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, ok := os.LookupEnv(e.envKey)
	if !ok {
		return "", fmt.Errorf("environment variable %s: %w", e.envKey, ErrNotFound)
	}
	if value == "" {
		return "", fmt.Errorf("environment variable %s is empty", e.envKey)
	}
	return value, nil
}

// Write always fails: the process cannot update its own environment durably.
func (e *EnvStore) Write(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("environment variable %s: %w", e.envKey, ErrReadOnly)
}
