package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_AddAndSearch(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "acme", "ch-1", []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, "acme", "ch-2", []float32{0, 1, 0}))
	require.NoError(t, idx.Add(ctx, "acme", "ch-3", []float32{0.9, 0.1, 0}))

	hits, err := idx.Search(ctx, "acme", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ch-1", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "ch-3", hits[1].ChunkID)
	assert.Greater(t, hits[1].Similarity, 0.9)
}

func TestIndex_Search_EmptySpace(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	hits, err := idx.Search(ctx, "nonexistent", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestIndex_Search_KLargerThanSpace(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	_ = idx.Add(ctx, "acme", "ch-1", []float32{1, 0})

	hits, err := idx.Search(ctx, "acme", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Search_SpacesAreIsolated(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	_ = idx.Add(ctx, "acme", "ch-1", []float32{1, 0})
	_ = idx.Add(ctx, "widget", "ch-2", []float32{1, 0})

	hits, err := idx.Search(ctx, "acme", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ch-1", hits[0].ChunkID)
}

func TestIndex_Delete(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	_ = idx.Add(ctx, "acme", "ch-1", []float32{1, 0})
	require.NoError(t, idx.Delete(ctx, "acme", "ch-1"))

	hits, err := idx.Search(ctx, "acme", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Deleting from a missing space is not an error.
	assert.NoError(t, idx.Delete(ctx, "nonexistent", "ch-1"))
}

func TestIndex_Add_CopiesVector(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	vec := []float32{1, 0}
	_ = idx.Add(ctx, "acme", "ch-1", vec)
	vec[0] = 0 // mutation after Add must not affect the index

	hits, err := idx.Search(ctx, "acme", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_Close(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	_ = idx.Add(ctx, "acme", "ch-1", []float32{1, 0})
	require.NoError(t, idx.Close())

	hits, err := idx.Search(ctx, "acme", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosine(tt.a, tt.b), 1e-6)
		})
	}
}
