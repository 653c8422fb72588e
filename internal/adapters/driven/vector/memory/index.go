// Package memory provides an in-memory brute-force vector index.
// Each cluster key owns an independent vector space; lookups score the
// query against every vector in the space. Fine for the corpus sizes a
// single matter produces.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu     sync.RWMutex
	spaces map[string]map[string][]float32 // cluster key -> chunk ID -> vector
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{spaces: make(map[string]map[string][]float32)}
}

// Add inserts a vector for the given chunk ID into a cluster's space.
func (i *Index) Add(_ context.Context, clusterKey, chunkID string, embedding []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	space, ok := i.spaces[clusterKey]
	if !ok {
		space = make(map[string][]float32)
		i.spaces[clusterKey] = space
	}
	space[chunkID] = append([]float32(nil), embedding...)
	return nil
}

// Delete removes a chunk's vector from a cluster's space.
func (i *Index) Delete(_ context.Context, clusterKey, chunkID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if space, ok := i.spaces[clusterKey]; ok {
		delete(space, chunkID)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector within the
// cluster's space.
func (i *Index) Search(_ context.Context, clusterKey string, query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	space := i.spaces[clusterKey]
	if len(space) == 0 || k <= 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, 0, len(space))
	for chunkID, vec := range space {
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: cosine(query, vec),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources. A no-op for the in-memory index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.spaces = make(map[string]map[string][]float32)
	return nil
}

// cosine computes cosine similarity clamped to [0, 1]. Mismatched or
// zero-magnitude vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
