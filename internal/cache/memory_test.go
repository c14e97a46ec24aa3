package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlobMode(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set(ctx, "k", doc{Name: "a", Count: 3}, 0))

	var got doc
	found, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc{Name: "a", Count: 3}, got)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "k"))
	found, err = store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryGetMiss(t *testing.T) {
	store := NewMemory()

	var got map[string]any
	found, err := store.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	found, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryFlatMode(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	doc := map[string]any{
		"user": map[string]any{
			"name":      "holly",
			"followers": float64(1200),
		},
		"tags": []any{"#go"},
	}

	require.NoError(t, store.SetFlat(ctx, "k", doc, 0))

	got, found, err := store.GetFlat(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc, got)
}

func TestMemoryPing(t *testing.T) {
	assert.NoError(t, NewMemory().Ping(context.Background()))
}
