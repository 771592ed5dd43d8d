package catalog

import "context"

// Store exposes read access to the food catalog. Implementations must be
// safe for concurrent readers; the handlers never write.
type Store interface {
	List(ctx context.Context) ([]Item, error)
}

// MemoryStore implements Store with an in-memory slice, suitable for tests
// and for running without a database file.
type MemoryStore struct {
	items []Item
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied items.
func NewMemoryStore(items []Item) *MemoryStore {
	return &MemoryStore{items: append([]Item(nil), items...)}
}

// List returns a copy of the catalog rows.
func (s *MemoryStore) List(_ context.Context) ([]Item, error) {
	return append([]Item(nil), s.items...), nil
}
