package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure EvidenceQueue implements the interface.
var _ driving.EvidenceQueue = (*EvidenceQueue)(nil)

// primaryCues indicate direct records of events.
var primaryCues = map[string]float64{
	"contract":       3,
	"agreement":      3,
	"invoice":        3,
	"receipt":        3,
	"photograph":     3,
	"recording":      3,
	"original":       2,
	"executed on":    2,
	"signed":         2,
	"bank statement": 3,
	"ledger":         2,
}

// secondaryCues indicate commentary about records.
var secondaryCues = map[string]float64{
	"summary":       3,
	"analysis":      3,
	"article":       3,
	"report of":     2,
	"according to":  2,
	"commentary":    3,
	"expert report": 3,
	"reviewed":      1,
	"describes":     1,
}

// EvidenceClassifier classifies evidence as primary or secondary by
// keyword scoring over the item's text.
type EvidenceClassifier struct{}

// NewEvidenceClassifier creates a new classifier.
func NewEvidenceClassifier() *EvidenceClassifier {
	return &EvidenceClassifier{}
}

// Classify assigns an evidence class from the item's title and text.
// Ties and no-signal inputs default to secondary, the safer assumption
// for drafting purposes.
func (c *EvidenceClassifier) Classify(title, text string) domain.EvidenceClass {
	needle := strings.ToLower(title + "\n" + text)

	var primary, secondary float64
	for cue, weight := range primaryCues {
		if strings.Contains(needle, cue) {
			primary += weight
		}
	}
	for cue, weight := range secondaryCues {
		if strings.Contains(needle, cue) {
			secondary += weight
		}
	}

	if primary > secondary {
		return domain.EvidencePrimary
	}
	return domain.EvidenceSecondary
}

// EvidenceQueueConfig configures the worker pool.
type EvidenceQueueConfig struct {
	// Workers is the number of concurrent workers (default 2).
	Workers int

	// Buffer is the queue channel capacity (default 64).
	Buffer int
}

// EvidenceQueue processes evidence items through the classification
// state machine with a pool of workers.
type EvidenceQueue struct {
	cfg        EvidenceQueueConfig
	store      driven.EvidenceStore
	docStore   driven.DocumentStore
	registry   driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	classifier *EvidenceClassifier
	clusters   driving.ClusterManager

	mu      sync.Mutex
	ch      chan string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool

	// loadFile reads an item's bytes. Overridable in tests.
	loadFile func(uri string) ([]byte, string, error)
}

// NewEvidenceQueue creates a new evidence queue.
// The cluster manager is optional; when nil, completed items are not
// routed into the evidence cluster.
func NewEvidenceQueue(
	cfg EvidenceQueueConfig,
	store driven.EvidenceStore,
	docStore driven.DocumentStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	clusters driving.ClusterManager,
) *EvidenceQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	return &EvidenceQueue{
		cfg:        cfg,
		store:      store,
		docStore:   docStore,
		registry:   registry,
		pipeline:   pipeline,
		classifier: NewEvidenceClassifier(),
		clusters:   clusters,
		ch:         make(chan string, cfg.Buffer),
		loadFile:   readEvidenceFile,
	}
}

// Start launches the worker pool.
func (q *EvidenceQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return nil
	}
	if q.closed {
		return domain.ErrQueueClosed
	}

	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.started = true

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(workerCtx, i)
	}
	logger.Info("Evidence queue started with %d workers", q.cfg.Workers)

	// The dispatch channel is process-local: items a previous run left
	// queued or processing would otherwise never run again.
	if err := q.redispatch(ctx); err != nil {
		return err
	}
	return nil
}

// redispatch requeues persisted items stranded by an earlier run.
func (q *EvidenceQueue) redispatch(ctx context.Context) error {
	pending, err := q.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending evidence: %w", err)
	}

	for i := range pending {
		item := &pending[i]
		if item.Status == domain.EvidenceProcessing {
			if err := item.Transition(domain.EvidenceQueued); err != nil {
				return err
			}
			if err := q.store.Save(ctx, item); err != nil {
				return fmt.Errorf("save evidence: %w", err)
			}
		}
		select {
		case q.ch <- item.ID:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(pending) > 0 {
		logger.Info("Requeued %d pending evidence items", len(pending))
	}
	return nil
}

// Stop drains in-flight items and shuts the workers down.
func (q *EvidenceQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	q.wg.Wait()
	if q.cancel != nil {
		q.cancel()
	}
	logger.Info("Evidence queue stopped")
}

// Enqueue submits an evidence item for processing.
func (q *EvidenceQueue) Enqueue(ctx context.Context, item *domain.EvidenceItem) error {
	if item == nil || item.MatterID == "" || item.URI == "" {
		return domain.ErrInvalidInput
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = domain.EvidenceQueued
	}
	if item.Class == "" {
		item.Class = domain.EvidenceUnclassified
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	if err := q.store.Save(ctx, item); err != nil {
		return fmt.Errorf("save evidence: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrQueueClosed
	}

	select {
	case q.ch <- item.ID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry requeues a failed item.
func (q *EvidenceQueue) Retry(ctx context.Context, itemID string) error {
	item, err := q.store.Get(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get evidence: %w", err)
	}
	if err := item.Transition(domain.EvidenceQueued); err != nil {
		return err
	}
	item.Error = ""
	if err := q.store.Save(ctx, item); err != nil {
		return fmt.Errorf("save evidence: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrQueueClosed
	}
	select {
	case q.ch <- item.ID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the queue for a matter.
func (q *EvidenceQueue) Status(ctx context.Context, matterID string) (domain.QueueStatus, error) {
	return q.store.CountByStatus(ctx, matterID)
}

// worker consumes item IDs until the channel closes or the context is
// cancelled.
func (q *EvidenceQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case itemID, ok := <-q.ch:
			if !ok {
				return
			}
			if err := q.process(ctx, itemID); err != nil {
				logger.Warn("Worker %d: item %s failed: %v", id, itemID, err)
			}
		}
	}
}

// process drives one item through the state machine.
func (q *EvidenceQueue) process(ctx context.Context, itemID string) error {
	item, err := q.store.Get(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get evidence: %w", err)
	}

	if err := q.advance(ctx, item, domain.EvidenceProcessing); err != nil {
		return err
	}

	content, mimeType, err := q.loadFile(item.URI)
	if err != nil {
		return q.fail(ctx, item, fmt.Errorf("read evidence file: %w", err))
	}

	raw := &domain.RawDocument{
		MatterID: item.MatterID,
		URI:      item.URI,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{"evidence_id": item.ID},
	}
	result, err := q.registry.Normalise(ctx, raw)
	if err != nil {
		return q.fail(ctx, item, fmt.Errorf("normalise: %w", err))
	}
	doc := result.Document
	if item.Title == "" {
		item.Title = doc.Title
	}

	item.Class = q.classifier.Classify(item.Title, doc.Content)
	if err := q.advance(ctx, item, domain.EvidenceClassified); err != nil {
		return err
	}

	doc.DocType = domain.DocTypeEvidence
	doc.Authority = domain.AuthorityFactEvidence
	chunks, err := q.pipeline.Process(ctx, &doc)
	if err != nil {
		return q.fail(ctx, item, fmt.Errorf("chunk: %w", err))
	}
	if err := q.docStore.SaveDocument(ctx, &doc); err != nil {
		return q.fail(ctx, item, fmt.Errorf("save document: %w", err))
	}
	if err := q.docStore.SaveChunks(ctx, chunks); err != nil {
		return q.fail(ctx, item, fmt.Errorf("save chunks: %w", err))
	}

	if q.clusters != nil {
		cat := domain.Categorisation{
			DocumentID: doc.ID,
			DocType:    domain.DocTypeEvidence,
			Authority:  domain.AuthorityFactEvidence,
		}
		if err := q.clusters.Assign(ctx, &doc, cat); err != nil {
			return q.fail(ctx, item, fmt.Errorf("assign cluster: %w", err))
		}
	}

	item.DocumentID = doc.ID
	return q.advance(ctx, item, domain.EvidenceComplete)
}

// advance transitions and persists an item.
func (q *EvidenceQueue) advance(ctx context.Context, item *domain.EvidenceItem, next domain.EvidenceStatus) error {
	if err := item.Transition(next); err != nil {
		return err
	}
	if err := q.store.Save(ctx, item); err != nil {
		return fmt.Errorf("save evidence: %w", err)
	}
	logger.Debug("Evidence %s -> %s", item.ID, next)
	return nil
}

// readEvidenceFile reads an evidence file and resolves its MIME type
// from the extension.
func readEvidenceFile(uri string) ([]byte, string, error) {
	content, err := os.ReadFile(uri)
	if err != nil {
		return nil, "", err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(uri))
	if mimeType == "" {
		mimeType = "text/plain"
	}
	// Strip charset parameters so registry lookup matches.
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return content, mimeType, nil
}

// fail marks an item failed with its error message. The original error
// is returned so the worker can log it.
func (q *EvidenceQueue) fail(ctx context.Context, item *domain.EvidenceItem, cause error) error {
	item.Error = cause.Error()
	if err := item.Transition(domain.EvidenceFailed); err != nil {
		return err
	}
	if err := q.store.Save(ctx, item); err != nil {
		return fmt.Errorf("save evidence: %w", err)
	}
	return cause
}
