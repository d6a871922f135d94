package repositories

import "context"

// KeyValueStore is the persistence medium: a string key to value store with
// finite capacity. Implementations return domain.ErrNotFound for missing keys
// and a *domain.StorageError when a write cannot be completed.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetMany writes all entries atomically. A nil value deletes the key.
	SetMany(ctx context.Context, entries map[string][]byte) error

	Delete(ctx context.Context, key string) error

	// Keys lists keys starting with prefix, sorted
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
