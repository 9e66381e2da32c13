package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "A")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Put(ctx, "A", []string{"p1", "p2"}))
	ids, ok, err := c.Get(ctx, "A")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"p1", "p2"}, ids)
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "A", []string{"p1"}))

	now = now.Add(30 * time.Second)
	_, ok, _ := c.Get(ctx, "A")
	require.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "A")
	require.False(t, ok)
}

func TestTiered_BackfillsFirstLevel(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(0)
	l2 := NewMemoryCache(0)
	require.NoError(t, l2.Put(ctx, "A", []string{"p1"}))

	tc := NewTiered(l1, l2)
	ids, ok, err := tc.Get(ctx, "A")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"p1"}, ids)

	ids, ok, _ = l1.Get(ctx, "A")
	require.True(t, ok)
	require.Equal(t, []string{"p1"}, ids)
}

func TestTiered_PutWritesBothLevels(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(0)
	l2 := NewMemoryCache(0)
	tc := NewTiered(l1, l2)

	require.NoError(t, tc.Put(ctx, "B", []string{"p2"}))
	_, ok, _ := l1.Get(ctx, "B")
	require.True(t, ok)
	_, ok, _ = l2.Get(ctx, "B")
	require.True(t, ok)

	_, ok, err := NewTiered(l1, nil).Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
