package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// IngestService coordinates document intake for matters.
type IngestService struct {
	matterStore      driven.MatterStore
	docStore         driven.DocumentStore
	factory          driven.ConnectorFactory
	registry         driven.NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	categoriser      driving.CategoriserService
	clusters         driving.ClusterManager

	// Status tracking
	mu            sync.RWMutex
	activeIngests map[string]*driving.IngestStatus
}

// NewIngestService creates a new ingest orchestrator.
// The embeddingService is optional - if nil, chunks are stored without
// vectors and similarity features degrade. The categoriser is optional -
// if nil, documents stay uncategorised until `categorise` runs. The
// cluster manager is optional - if nil, replaced and deleted documents
// leave their cluster memberships behind.
func NewIngestService(
	matterStore driven.MatterStore,
	docStore driven.DocumentStore,
	factory driven.ConnectorFactory,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	categoriser driving.CategoriserService,
	clusters driving.ClusterManager,
) *IngestService {
	return &IngestService{
		matterStore:      matterStore,
		docStore:         docStore,
		factory:          factory,
		registry:         registry,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		categoriser:      categoriser,
		clusters:         clusters,
		activeIngests:    make(map[string]*driving.IngestStatus),
	}
}

// Ingest runs a full intake pass for a matter.
func (o *IngestService) Ingest(ctx context.Context, matterID string) error {
	matter, err := o.matterStore.Get(ctx, matterID)
	if err != nil {
		return fmt.Errorf("get matter: %w", err)
	}

	if o.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := o.factory.Create(ctx, *matter)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if connector.Capabilities().SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
		}
	}

	if !o.beginIngest(matterID) {
		return domain.ErrIngestInProgress
	}
	defer o.clearStatus(matterID)
	status := o.status(matterID)

	logger.Info("Starting ingest for matter %s from %s", matterID, matter.IntakeDir)

	docsCh, errsCh := connector.FullIngest(ctx)
	if err := o.processDocuments(ctx, matter, docsCh, errsCh, status); err != nil {
		return err
	}

	logger.Info("Ingest complete: %d documents, %d errors",
		status.DocumentsProcessed, status.ErrorCount)
	return nil
}

// Watch processes intake changes continuously until the context is
// cancelled.
func (o *IngestService) Watch(ctx context.Context, matterID string) error {
	matter, err := o.matterStore.Get(ctx, matterID)
	if err != nil {
		return fmt.Errorf("get matter: %w", err)
	}

	connector, err := o.factory.Create(ctx, *matter)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if !connector.Capabilities().SupportsWatch {
		return fmt.Errorf("%w: connector %s cannot watch", domain.ErrUnsupportedType, connector.Type())
	}

	changesCh, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	if !o.beginIngest(matterID) {
		return domain.ErrIngestInProgress
	}
	defer o.clearStatus(matterID)
	status := o.status(matterID)

	logger.Info("Watching intake for matter %s", matterID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case change, ok := <-changesCh:
			if !ok {
				return nil
			}

			switch change.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				logger.Debug("Processing: %s", change.Document.URI)
				if err := o.processOneDocument(ctx, matter, &change.Document); err != nil {
					status.ErrorCount++
					logger.Debug("Failed to process %s: %v", change.Document.URI, err)
					continue
				}

			case domain.ChangeDeleted:
				logger.Debug("Deleting: %s", change.Document.URI)
				if err := o.deleteDocumentByURI(ctx, matter.ID, change.Document.URI); err != nil {
					status.ErrorCount++
					logger.Debug("Failed to delete %s: %v", change.Document.URI, err)
					continue
				}
			}
			status.DocumentsProcessed++
		}
	}
}

// Status returns ingest status for a matter.
func (o *IngestService) Status(_ context.Context, matterID string) (*driving.IngestStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeIngests[matterID]; ok {
		// Return a copy to avoid race conditions
		return &driving.IngestStatus{
			MatterID:           status.MatterID,
			Running:            status.Running,
			DocumentsProcessed: status.DocumentsProcessed,
			ErrorCount:         status.ErrorCount,
		}, nil
	}

	return &driving.IngestStatus{MatterID: matterID, Running: false}, nil
}

// processDocuments drains the connector channels, processing documents
// until both close.
func (o *IngestService) processDocuments(
	ctx context.Context,
	matter *domain.Matter,
	docsCh <-chan domain.RawDocument,
	errsCh <-chan error,
	status *driving.IngestStatus,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("connector error: %w", err)
			}

		case rawDoc, ok := <-docsCh:
			if !ok {
				return nil // Done - channel closed
			}

			logger.Debug("Processing: %s", rawDoc.URI)
			if err := o.processOneDocument(ctx, matter, &rawDoc); err != nil {
				status.ErrorCount++
				logger.Debug("Failed to process %s: %v", rawDoc.URI, err)
				continue
			}
			status.DocumentsProcessed++
		}
	}
}

// processOneDocument handles the document processing pipeline: normalise,
// chunk, embed, persist, categorise.
func (o *IngestService) processOneDocument(
	ctx context.Context,
	matter *domain.Matter,
	raw *domain.RawDocument,
) error {
	// Re-ingesting the same URI replaces the previous version. The old
	// document gets a fresh ID downstream, so its cluster memberships
	// must go with it or they keep scoring in similarity lookups.
	if existing, err := o.docStore.GetDocumentByURI(ctx, matter.ID, raw.URI); err == nil {
		if o.clusters != nil {
			if err := o.clusters.Remove(ctx, matter.ID, existing.ID); err != nil {
				return fmt.Errorf("remove cluster members: %w", err)
			}
		}
		if err := o.docStore.DeleteDocument(ctx, existing.ID); err != nil {
			return fmt.Errorf("replace document: %w", err)
		}
	}

	result, err := o.registry.Normalise(ctx, raw)
	if err != nil {
		return fmt.Errorf("normalise: %w", err)
	}

	chunks, err := o.pipeline.Process(ctx, &result.Document)
	if err != nil {
		return fmt.Errorf("post-process: %w", err)
	}

	if o.embeddingService != nil && len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Content
		}
		embeddings, err := o.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	if err := o.docStore.SaveDocument(ctx, &result.Document); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := o.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	// Categorisation routes the document into its cluster.
	if o.categoriser != nil {
		if _, err := o.categoriser.CategoriseAndStore(ctx, result.Document.ID); err != nil {
			return fmt.Errorf("categorise: %w", err)
		}
	}

	return nil
}

// deleteDocumentByURI removes a document, its chunks and its cluster
// memberships by URI.
func (o *IngestService) deleteDocumentByURI(ctx context.Context, matterID, uri string) error {
	doc, err := o.docStore.GetDocumentByURI(ctx, matterID, uri)
	if err != nil {
		// Document not found - might have been deleted already
		return nil
	}
	if o.clusters != nil {
		if err := o.clusters.Remove(ctx, matterID, doc.ID); err != nil {
			return fmt.Errorf("remove cluster members: %w", err)
		}
	}
	if err := o.docStore.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// beginIngest registers a running status, refusing concurrent ingests
// for the same matter.
func (o *IngestService) beginIngest(matterID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.activeIngests[matterID]; ok && existing.Running {
		return false
	}
	o.activeIngests[matterID] = &driving.IngestStatus{MatterID: matterID, Running: true}
	return true
}

// status returns the live status pointer for a matter.
func (o *IngestService) status(matterID string) *driving.IngestStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.activeIngests[matterID]
}

// clearStatus removes the status for a matter.
func (o *IngestService) clearStatus(matterID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeIngests, matterID)
}
