package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	doc := map[string]any{
		"user": map[string]any{
			"name": "holly",
			"stats": map[string]any{
				"followers": float64(1200),
				"verified":  true,
			},
		},
		"tags": []any{"#go", "#redis"},
	}

	flat := Flatten(doc)

	assert.Equal(t, "holly", flat["user.name"])
	assert.Equal(t, float64(1200), flat["user.stats.followers"])
	assert.Equal(t, true, flat["user.stats.verified"])
	// arrays are terminal values, never recursed into
	assert.Equal(t, []any{"#go", "#redis"}, flat["tags"])
	assert.Len(t, flat, 4)
}

func TestUnflattenRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{
			name: "empty document",
			doc:  map[string]any{},
		},
		{
			name: "flat scalars",
			doc:  map[string]any{"a": float64(1), "b": "two", "c": false},
		},
		{
			name: "deep nesting",
			doc: map[string]any{
				"a": map[string]any{
					"b": map[string]any{
						"c": map[string]any{
							"d": "leaf",
						},
					},
				},
			},
		},
		{
			name: "mixed leaves and arrays",
			doc: map[string]any{
				"profile": map[string]any{
					"username":  "cyber.uz",
					"followers": float64(52000),
				},
				"recent": []any{float64(1), float64(2), float64(3)},
				"nil":    nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.doc, Unflatten(Flatten(tt.doc)))
		})
	}
}

func TestUnflattenSiblingPaths(t *testing.T) {
	flat := map[string]any{
		"a.b": float64(1),
		"a.c": float64(2),
		"d":   "x",
	}

	got := Unflatten(flat)

	require.Equal(t, map[string]any{
		"a": map[string]any{"b": float64(1), "c": float64(2)},
		"d": "x",
	}, got)
}
