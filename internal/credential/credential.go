// Package credential holds the API key used for chat-completion calls.
package credential

import (
	"strings"
	"sync"
)

// Source provides the current API key. An empty key means none is configured.
type Source interface {
	APIKey() string
}

// Store is an in-memory, concurrency-safe Source that can be updated at runtime.
type Store struct {
	mu  sync.RWMutex
	key string
}

// NewStore creates a Store holding key.
func NewStore(key string) *Store {
	return &Store{key: strings.TrimSpace(key)}
}

// APIKey returns the stored key.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// SetAPIKey replaces the stored key. Pass "" to clear it.
func (s *Store) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = strings.TrimSpace(key)
}

// Has reports whether src holds a non-empty key.
func Has(src Source) bool {
	return src != nil && src.APIKey() != ""
}
