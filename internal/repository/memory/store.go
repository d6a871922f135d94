package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quill/internal/domain"
	"quill/internal/domain/repositories"
)

// ErrCapacityExceeded is wrapped in a *domain.StorageError when a write would
// push the store past its byte capacity.
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// Store is an in-process key-value medium. It is used for tests and for the
// "memory" storage driver. Capacity counts key and value bytes; 0 is unlimited.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	capacity int64
	used     int64

	// FailWrites makes every write fail, simulating an unavailable medium
	FailWrites bool
}

// New creates an empty store with the given byte capacity
func New(capacity int64) *Store {
	return &Store{
		data:     make(map[string][]byte),
		capacity: capacity,
	}
}

var _ repositories.KeyValueStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany checks capacity for the whole batch before applying any entry
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return &domain.StorageError{Op: "set", Key: firstKey(entries), Err: errors.New("medium unavailable")}
	}

	used := s.used
	for key, value := range entries {
		if old, ok := s.data[key]; ok {
			used -= entrySize(key, old)
		}
		if value != nil {
			used += entrySize(key, value)
		}
	}
	if s.capacity > 0 && used > s.capacity {
		return &domain.StorageError{Op: "set", Key: firstKey(entries), Err: ErrCapacityExceeded}
	}

	for key, value := range entries {
		if value == nil {
			delete(s.data, key)
			continue
		}
		s.data[key] = append([]byte(nil), value...)
	}
	s.used = used
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.SetMany(ctx, map[string][]byte{key: nil})
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }

// Used returns the number of bytes currently stored
func (s *Store) Used() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}

func firstKey(entries map[string][]byte) string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
