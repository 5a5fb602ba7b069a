// Package settings persists the flat key/value configuration map.
package settings

import (
	"context"
	"sync"
)

// Well-known setting keys.
const (
	KeyThresholdManicure    = "threshold_manicure"
	KeyThresholdPedicure    = "threshold_pedicure"
	KeyLastNotifiedManicure = "last_notified_manicure"
	KeyLastNotifiedPedicure = "last_notified_pedicure"
	KeyInstaLink            = "insta_link"
	KeyCalendarID           = "calendar_id"
)

// Defaults seeded on first run. Existing values are never overwritten.
var Defaults = map[string]string{
	KeyThresholdManicure:    "20",
	KeyThresholdPedicure:    "20",
	KeyLastNotifiedManicure: "0",
	KeyLastNotifiedPedicure: "0",
	KeyInstaLink:            "",
	KeyCalendarID:           "",
}

// Store defines the interface for settings persistence.
// Unknown keys read as the empty string.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SeedDefaults(ctx context.Context) error
}

// InMemoryStore is a Store backed by a process-local map.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryStore creates a new in-memory settings store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]string)}
}

// Get returns the stored value, or "" when the key is unknown.
func (s *InMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores or replaces a value.
func (s *InMemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// SeedDefaults inserts missing default keys only.
func (s *InMemoryStore) SeedDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range Defaults {
		if _, ok := s.values[key]; !ok {
			s.values[key] = value
		}
	}
	return nil
}

// Ensure interface compliance
var _ Store = (*InMemoryStore)(nil)
