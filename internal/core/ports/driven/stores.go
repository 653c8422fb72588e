package driven

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// MatterStore persists matters created from intake forms.
type MatterStore interface {
	// Save stores or updates a matter.
	Save(ctx context.Context, matter *domain.Matter) error

	// Get retrieves a matter by ID.
	Get(ctx context.Context, id string) (*domain.Matter, error)

	// List returns all matters.
	List(ctx context.Context) ([]domain.Matter, error)

	// Delete removes a matter.
	Delete(ctx context.Context, id string) error
}

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURI retrieves a document by matter and URI.
	GetDocumentByURI(ctx context.Context, matterID, uri string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents for a matter.
	ListDocuments(ctx context.Context, matterID string) ([]domain.Document, error)
}

// ClusterStore persists clusters and their memberships.
type ClusterStore interface {
	// SaveCluster stores or updates a cluster.
	SaveCluster(ctx context.Context, cluster *domain.Cluster) error

	// GetCluster retrieves a cluster by matter and key.
	GetCluster(ctx context.Context, matterID, key string) (*domain.Cluster, error)

	// ListClusters returns all clusters for a matter.
	ListClusters(ctx context.Context, matterID string) ([]domain.Cluster, error)

	// AddMember assigns a chunk to a cluster.
	AddMember(ctx context.Context, member domain.ClusterMember) error

	// ListMembers returns all members of a cluster.
	ListMembers(ctx context.Context, clusterID string) ([]domain.ClusterMember, error)

	// RemoveMembers removes all memberships for a document.
	RemoveMembers(ctx context.Context, documentID string) error

	// DeleteCluster removes a cluster and its memberships.
	DeleteCluster(ctx context.Context, clusterID string) error
}

// EvidenceStore persists evidence items and their queue status.
type EvidenceStore interface {
	// Save stores or updates an evidence item.
	Save(ctx context.Context, item *domain.EvidenceItem) error

	// Get retrieves an evidence item by ID.
	Get(ctx context.Context, id string) (*domain.EvidenceItem, error)

	// List returns evidence items for a matter.
	List(ctx context.Context, matterID string) ([]domain.EvidenceItem, error)

	// ListPending returns all items across matters still in the queued
	// or processing state, for re-dispatch after a restart.
	ListPending(ctx context.Context) ([]domain.EvidenceItem, error)

	// CountByStatus counts a matter's items in each queue state.
	CountByStatus(ctx context.Context, matterID string) (domain.QueueStatus, error)
}

// DraftStore persists drafts and validation reports.
type DraftStore interface {
	// SaveDraft stores or updates a draft.
	SaveDraft(ctx context.Context, draft *domain.Draft) error

	// GetDraft retrieves a draft by ID.
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)

	// ListDrafts returns drafts for a matter.
	ListDrafts(ctx context.Context, matterID string) ([]domain.Draft, error)

	// SaveReport stores a validation report.
	SaveReport(ctx context.Context, report *domain.ValidationReport) error

	// ListReports returns validation reports for a draft, newest first.
	ListReports(ctx context.Context, draftID string) ([]domain.ValidationReport, error)
}
