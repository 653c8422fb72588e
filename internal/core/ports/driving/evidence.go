package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// EvidenceQueue accepts evidence items and processes them through the
// classification state machine with a pool of workers.
type EvidenceQueue interface {
	// Start launches the worker pool. Workers run until Stop is called
	// or the context is cancelled.
	Start(ctx context.Context) error

	// Stop drains in-flight items and shuts the workers down.
	Stop()

	// Enqueue submits an evidence item for processing.
	// Returns ErrQueueClosed after Stop.
	Enqueue(ctx context.Context, item *domain.EvidenceItem) error

	// Retry requeues a failed item.
	Retry(ctx context.Context, itemID string) error

	// Status returns a snapshot of the queue for a matter.
	Status(ctx context.Context, matterID string) (domain.QueueStatus, error)
}
