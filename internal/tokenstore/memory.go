package tokenstore

import (
	"sync"

	"github.com/florianilch/optsync/internal/mwapi"
)

// Memory is an in-process Store safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	tokens map[mwapi.Identity]string
}

// Compile-time check to ensure Memory implements Store
var _ Store = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[mwapi.Identity]string)}
}

// Get returns the cached token for id.
func (m *Memory) Get(id mwapi.Identity) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[id]
	return token, ok
}

// Set overwrites the token for id. The token's content is not inspected.
func (m *Memory) Set(id mwapi.Identity, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = token
}

// size returns the number of identities with a cached token.
func (m *Memory) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}
