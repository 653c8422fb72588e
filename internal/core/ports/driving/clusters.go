package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// ClusterManager maintains per-defendant and global similarity clusters.
type ClusterManager interface {
	// Assign routes a categorised document's chunks into the appropriate
	// cluster, creating the cluster on first use.
	Assign(ctx context.Context, doc *domain.Document, cat domain.Categorisation) error

	// Remove drops a document's memberships and index entries, for
	// example when the document is deleted or replaced on re-ingest.
	Remove(ctx context.Context, matterID, documentID string) error

	// Nearest finds the k chunks in a cluster most similar to the query text.
	Nearest(ctx context.Context, matterID, clusterKey, query string, k int) ([]ClusterHit, error)

	// MaxSimilarity returns the highest cosine similarity between the text
	// and any embedded member of the cluster.
	MaxSimilarity(ctx context.Context, matterID, clusterKey, text string) (float64, error)

	// Stats computes quality statistics for a cluster.
	Stats(ctx context.Context, matterID, clusterKey string) (*domain.ClusterStats, error)

	// List returns all clusters for a matter.
	List(ctx context.Context, matterID string) ([]domain.Cluster, error)
}

// ClusterHit is a nearest-neighbour result hydrated with chunk content.
type ClusterHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Document is the chunk's parent document.
	Document domain.Document

	// Similarity is the cosine similarity to the query (0-1).
	Similarity float64
}
