package timer

import (
	"testing"

	"github.com/fixkme/cotimer/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRelease(t *testing.T) {
	r := NewRegistry(clock.NewManual(0))
	o := &testOwner{}
	h, err := r.Acquire(o, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.ID())
	assert.True(t, h.Active())

	assert.True(t, h.Release())
	assert.False(t, h.Active())
	assert.False(t, h.Release())
	assert.Zero(t, r.Len())
	assert.Equal(t, 0, r.ProcessDue(100))
	assert.Empty(t, o.fired)
}

func TestHandleDoesNotCancelReusedId(t *testing.T) {
	r := NewRegistry(clock.NewManual(0))
	o := &testOwner{}
	h, err := r.Acquire(o, 10)
	require.NoError(t, err)
	require.True(t, r.Cancel(h.ID()))

	// 同一个id被新的定时器复用
	id, _ := r.Schedule(o, 10)
	require.Equal(t, h.ID(), id)
	assert.False(t, h.Release())
	assert.Equal(t, 1, r.Len())
}

func TestHandleOneShotFired(t *testing.T) {
	r := NewRegistry(clock.NewManual(0))
	h, err := r.Acquire(&testOwner{}, 0)
	require.NoError(t, err)
	r.ProcessDue(0)
	assert.False(t, h.Active())
	assert.False(t, h.Release())
}

func TestAcquireError(t *testing.T) {
	r := NewRegistry(clock.NewManual(0))
	h, err := r.Acquire(nil, 10)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.Zero(t, h.ID())
	assert.False(t, h.Release())
}
