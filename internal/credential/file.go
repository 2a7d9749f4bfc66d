package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the credential in a single file readable only by its owner.
// Writes go through a temp file and a rename so a crash never leaves a torn value.
type FileStore struct {
	path string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore at path. The parent directory is created with 0700
// permissions if missing.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating credential directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

// Read returns the trimmed file content. The file must have 0600 permissions.
func (f *FileStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", f.path, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		return "", fmt.Errorf("insecure permissions on %s: %04o (expected 0600)", f.path, perm)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("empty credential file %s", f.path)
	}
	return value, nil
}

// Write atomically replaces the file content.
func (f *FileStore) Write(ctx context.Context, credential string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value := strings.TrimSpace(credential)
	if value == "" {
		return fmt.Errorf("refusing to store empty credential")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credential-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	defer func() { _ = tmp.Close() }()

	if err := tmp.Chmod(0600); err != nil {
		return err
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}
