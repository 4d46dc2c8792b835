// Package cache memoizes translation and summary results per document ID.
//
// Entries never expire and are never evicted; they live until Invalidate is
// called or the process exits.
package cache

import "sync"

// Store holds finished results in two independent namespaces.
type Store interface {
	Translation(id string) (string, bool)
	Summary(id string) (string, bool)
	PutTranslation(id, text string)
	PutSummary(id, text string)
	Invalidate(id string)
}

// Memory is an unbounded in-memory Store safe for concurrent use.
type Memory struct {
	mu           sync.RWMutex
	translations map[string]string
	summaries    map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		translations: make(map[string]string),
		summaries:    make(map[string]string),
	}
}

func (m *Memory) Translation(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.translations[id]
	return text, ok
}

func (m *Memory) Summary(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.summaries[id]
	return text, ok
}

func (m *Memory) PutTranslation(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[id] = text
}

func (m *Memory) PutSummary(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[id] = text
}

// Invalidate drops both the translation and the summary for id.
func (m *Memory) Invalidate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.translations, id)
	delete(m.summaries, id)
}

// Len returns the number of cached translations and summaries.
func (m *Memory) Len() (translations, summaries int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.translations), len(m.summaries)
}
