package ports

import "go.trai.ch/seek/internal/core/domain"

// CacheStore defines the persisted tier of the resolution cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the entry for a signature hash.
	// Returns nil, nil if not found.
	Get(key string) (*domain.CacheEntry, error)

	// Put stores the entry and persists the store.
	Put(key string, entry domain.CacheEntry) error

	// Entries returns a snapshot of all stored entries.
	Entries() map[string]domain.CacheEntry

	// Clear removes every entry and the backing file.
	Clear() error
}
