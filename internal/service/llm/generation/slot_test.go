package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestSlot_ReplaceCancelsPrevious(t *testing.T) {
	var slot RequestSlot

	ctx1, cancel1 := context.WithCancel(context.Background())
	first := slot.Replace(cancel1)
	assert.True(t, slot.IsCurrent(first))

	_, cancel2 := context.WithCancel(context.Background())
	second := slot.Replace(cancel2)

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NotEqual(t, first, second)
	assert.False(t, slot.IsCurrent(first))
	assert.True(t, slot.IsCurrent(second))
}

func TestRequestSlot_Cancel(t *testing.T) {
	var slot RequestSlot
	assert.False(t, slot.Cancel(), "empty slot")

	ctx, cancel := context.WithCancel(context.Background())
	token := slot.Replace(cancel)

	assert.True(t, slot.Cancel())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, slot.IsCurrent(token))
	assert.False(t, slot.Cancel(), "second cancel is a no-op")
	assert.False(t, slot.IsCurrent(""))
}
