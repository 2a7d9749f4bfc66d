package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	store, err := NewKeyringStore("optsync-test", "alice")
	if err != nil {
		t.Fatalf("NewKeyringStore: %v", err)
	}

	if _, err := store.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read before Write: got %v, want ErrNotFound", err)
	}

	if err := store.Write(ctx, "refresh"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "refresh" {
		t.Errorf("Read = %q", got)
	}
}

func TestNewKeyringStoreValidation(t *testing.T) {
	if _, err := NewKeyringStore("", "alice"); err == nil {
		t.Error("expected error for empty service")
	}
	if _, err := NewKeyringStore("svc", ""); err == nil {
		t.Error("expected error for empty user")
	}
}
