package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quill/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_WALMode(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "quill:profile")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, s.Set(ctx, "quill:profile", []byte(`{"display_name":"A"}`)))
	require.NoError(t, s.Set(ctx, "quill:profile", []byte(`{"display_name":"B"}`)))

	value, err := s.Get(ctx, "quill:profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"display_name":"B"}`, string(value))

	require.NoError(t, s.Delete(ctx, "quill:profile"))
	_, err = s.Get(ctx, "quill:profile")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_SetManyAndKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "quill:drafts:stale", []byte(`{}`)))
	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"quill:drafts:stale": nil,
		"quill:drafts:cv":    []byte(`{}`),
		"quill:drafts:blog":  []byte(`{}`),
		"other:drafts:cv":    []byte(`{}`),
	}))

	keys, err := s.Keys(ctx, "quill:drafts:")
	require.NoError(t, err)
	assert.Equal(t, []string{"quill:drafts:blog", "quill:drafts:cv"}, keys)
}
