package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quill/internal/domain"
)

func TestStore_Capacity(t *testing.T) {
	ctx := context.Background()
	s := New(20)

	require.NoError(t, s.Set(ctx, "k1", []byte("0123456789")))
	assert.Equal(t, int64(12), s.Used())

	err := s.Set(ctx, "k2", []byte("0123456789"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))

	// Failed write leaves the prior value untouched
	value, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(value))

	// Overwriting an existing key reuses its space
	require.NoError(t, s.Set(ctx, "k1", []byte("abcdefghijklmnop")))
	assert.Equal(t, int64(18), s.Used())
}

func TestStore_SetManyAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := New(10)

	err := s.SetMany(ctx, map[string][]byte{
		"a": []byte("1234"),
		"b": []byte("123456789"),
	})
	require.Error(t, err)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_FailWrites(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	require.NoError(t, s.Set(ctx, "doc", []byte("v1")))

	s.FailWrites = true
	err := s.Set(ctx, "doc", []byte("v2"))
	assert.True(t, errors.Is(err, domain.ErrStorage))

	value, err := s.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(value))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	value, _ := s.Get(ctx, "k")
	value[0] = 'z'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}
