package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_RoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), 0))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	now := time.Now()
	kv.SetClock(func() time.Time { return now })

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(30 * time.Second)
	_, err := kv.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(31 * time.Second)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_ExpireRefreshesWindow(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	now := time.Now()
	kv.SetClock(func() time.Time { return now })

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(50 * time.Second)
	require.NoError(t, kv.Expire(ctx, "k", time.Minute))

	now = now.Add(50 * time.Second)
	_, err := kv.Get(ctx, "k")
	assert.NoError(t, err)

	assert.ErrorIs(t, kv.Expire(ctx, "gone", time.Minute), ErrMiss)
}

func TestMemoryKV_GetCopiesValue(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("abc"), 0))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
