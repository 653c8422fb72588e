package driven

import "context"

// VectorIndex provides similarity search scoped to a cluster.
// Each cluster key names an independent vector space; a chunk may appear
// in more than one cluster (its defendant cluster and a global cluster).
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID into a cluster's space.
	Add(ctx context.Context, clusterKey, chunkID string, embedding []float32) error

	// Delete removes a chunk's vector from a cluster's space.
	Delete(ctx context.Context, clusterKey, chunkID string) error

	// Search finds the k nearest neighbours to the query vector within
	// the cluster's space.
	Search(ctx context.Context, clusterKey string, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
