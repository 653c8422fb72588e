package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/storage/memory"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

type ingestFixture struct {
	svc         *IngestService
	matterStore *memory.MatterStore
	docStore    *memory.DocumentStore
	connector   *mockConnector
	clusters    *mockClusterManager
}

func newIngestFixture(t *testing.T, docs ...domain.RawDocument) *ingestFixture {
	t.Helper()
	f := &ingestFixture{
		matterStore: memory.NewMatterStore(),
		docStore:    memory.NewDocumentStore(),
		connector:   &mockConnector{docs: docs},
		clusters:    &mockClusterManager{},
	}
	embedding := &mockEmbeddingService{embedding: []float32{1, 0, 0}}
	categoriser := NewCategoriser(f.matterStore, f.docStore, f.clusters)
	f.svc = NewIngestService(
		f.matterStore,
		f.docStore,
		&mockConnectorFactory{connector: f.connector},
		&mockRegistry{},
		&mockPipeline{},
		embedding,
		categoriser,
		f.clusters,
	)

	_, err := seedMatter(context.Background(), f.matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)
	return f
}

func TestIngestService_Ingest_ProcessesDocuments(t *testing.T) {
	f := newIngestFixture(t,
		domain.RawDocument{MatterID: "matter-1", URI: "complaint.txt", Content: []byte(complaintText)},
		domain.RawDocument{MatterID: "matter-1", URI: "exhibit-a.txt", Content: []byte("Exhibit A: invoice for services")},
	)
	ctx := context.Background()

	require.NoError(t, f.svc.Ingest(ctx, "matter-1"))

	docs, err := f.docStore.ListDocuments(ctx, "matter-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Chunks were embedded before persisting.
	chunks, err := f.docStore.GetChunks(ctx, "doc-complaint.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []float32{1, 0, 0}, chunks[0].Embedding)

	// The categoriser typed the documents and routed them into clusters.
	doc, err := f.docStore.GetDocument(ctx, "doc-complaint.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeComplaint, doc.DocType)
	assert.Len(t, f.clusters.assignments(), 2)
}

func TestIngestService_Ingest_ReingestReplacesByURI(t *testing.T) {
	f := newIngestFixture(t,
		domain.RawDocument{MatterID: "matter-1", URI: "complaint.txt", Content: []byte(complaintText)},
	)
	ctx := context.Background()

	require.NoError(t, f.svc.Ingest(ctx, "matter-1"))
	first, err := f.docStore.GetDocumentByURI(ctx, "matter-1", "complaint.txt")
	require.NoError(t, err)

	require.NoError(t, f.svc.Ingest(ctx, "matter-1"))

	docs, err := f.docStore.ListDocuments(ctx, "matter-1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	// The replaced document's cluster memberships went with it.
	assert.Contains(t, f.clusters.removals(), first.ID)
}

func TestIngestService_Ingest_UnknownMatter(t *testing.T) {
	f := newIngestFixture(t)

	err := f.svc.Ingest(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_Ingest_ValidationFailure(t *testing.T) {
	f := newIngestFixture(t)
	f.connector.caps = driven.ConnectorCapabilities{SupportsValidation: true}
	f.connector.validateErr = errors.New("intake dir missing")

	err := f.svc.Ingest(context.Background(), "matter-1")
	assert.ErrorIs(t, err, domain.ErrConnectorValidation)
}

func TestIngestService_Ingest_ConnectorError(t *testing.T) {
	f := newIngestFixture(t)
	f.connector.ingestErr = errors.New("walk failed")

	err := f.svc.Ingest(context.Background(), "matter-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "walk failed")
}

func TestIngestService_Watch_ProcessesChanges(t *testing.T) {
	f := newIngestFixture(t)
	f.connector.caps = driven.ConnectorCapabilities{SupportsWatch: true}
	f.connector.changes = []domain.RawDocumentChange{
		{
			Type:     domain.ChangeCreated,
			Document: domain.RawDocument{MatterID: "matter-1", URI: "exhibit-a.txt", Content: []byte("Exhibit A")},
		},
		{
			Type:     domain.ChangeUpdated,
			Document: domain.RawDocument{MatterID: "matter-1", URI: "exhibit-a.txt", Content: []byte("Exhibit A, amended")},
		},
	}
	ctx := context.Background()

	// The change channel closes after replaying, so Watch returns nil.
	require.NoError(t, f.svc.Watch(ctx, "matter-1"))

	doc, err := f.docStore.GetDocumentByURI(ctx, "matter-1", "exhibit-a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Exhibit A, amended", doc.Content)
}

func TestIngestService_Watch_Delete(t *testing.T) {
	f := newIngestFixture(t)
	f.connector.caps = driven.ConnectorCapabilities{SupportsWatch: true}
	f.connector.changes = []domain.RawDocumentChange{
		{
			Type:     domain.ChangeCreated,
			Document: domain.RawDocument{MatterID: "matter-1", URI: "exhibit-a.txt", Content: []byte("Exhibit A")},
		},
		{
			Type:     domain.ChangeDeleted,
			Document: domain.RawDocument{URI: "exhibit-a.txt"},
		},
	}
	ctx := context.Background()

	require.NoError(t, f.svc.Watch(ctx, "matter-1"))

	_, err := f.docStore.GetDocumentByURI(ctx, "matter-1", "exhibit-a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.clusters.removals(), 1)
}

func TestIngestService_Watch_Unsupported(t *testing.T) {
	f := newIngestFixture(t)

	err := f.svc.Watch(context.Background(), "matter-1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestService_Status_Idle(t *testing.T) {
	f := newIngestFixture(t)

	status, err := f.svc.Status(context.Background(), "matter-1")
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Zero(t, status.DocumentsProcessed)
}
