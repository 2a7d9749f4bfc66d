package tokenstore

import "github.com/florianilch/optsync/internal/mwapi"

// Store holds at most one token per identity.
type Store interface {
	// Get returns the cached token for id and whether one is present.
	Get(id mwapi.Identity) (token string, ok bool)

	// Set creates or overwrites the token for id.
	Set(id mwapi.Identity, token string)
}
