package domain

import (
	"fmt"
	"time"
)

// EvidenceClass distinguishes direct records from commentary about them.
type EvidenceClass string

const (
	// EvidencePrimary is a direct record: contract, invoice, photograph,
	// recording, original correspondence.
	EvidencePrimary EvidenceClass = "primary"

	// EvidenceSecondary is commentary on the record: summaries, analyses,
	// articles, expert reports.
	EvidenceSecondary EvidenceClass = "secondary"

	// EvidenceUnclassified means classification has not run yet.
	EvidenceUnclassified EvidenceClass = "unclassified"
)

// EvidenceStatus tracks an item through the processing queue.
type EvidenceStatus string

const (
	// EvidenceQueued means the item is waiting for a worker.
	EvidenceQueued EvidenceStatus = "queued"

	// EvidenceProcessing means a worker has picked the item up.
	EvidenceProcessing EvidenceStatus = "processing"

	// EvidenceClassified means the classifier has assigned a class.
	EvidenceClassified EvidenceStatus = "classified"

	// EvidenceComplete means the item is persisted and clustered.
	EvidenceComplete EvidenceStatus = "complete"

	// EvidenceFailed means processing stopped with an error.
	EvidenceFailed EvidenceStatus = "failed"
)

// evidenceTransitions maps each status to the statuses it may move to.
// Failure is reachable from any non-terminal state. Processing may move
// back to queued so items stranded by an interrupted run can be
// re-dispatched when the queue restarts.
var evidenceTransitions = map[EvidenceStatus][]EvidenceStatus{
	EvidenceQueued:     {EvidenceProcessing, EvidenceFailed},
	EvidenceProcessing: {EvidenceClassified, EvidenceQueued, EvidenceFailed},
	EvidenceClassified: {EvidenceComplete, EvidenceFailed},
	EvidenceComplete:   {},
	EvidenceFailed:     {EvidenceQueued}, // retry
}

// CanTransition reports whether moving from s to next is legal.
func (s EvidenceStatus) CanTransition(next EvidenceStatus) bool {
	for _, allowed := range evidenceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EvidenceItem is a piece of uploaded evidence moving through the
// processing queue.
type EvidenceItem struct {
	// ID is the unique identifier for the item.
	ID string

	// MatterID links to the Matter the evidence belongs to.
	MatterID string

	// URI is the location of the underlying file.
	URI string

	// Title is the human-readable name.
	Title string

	// Class is the assigned evidence class.
	Class EvidenceClass

	// Status is the current queue status.
	Status EvidenceStatus

	// Error holds the failure message when Status is EvidenceFailed.
	Error string

	// DocumentID links to the ingested Document once processing completes.
	DocumentID string

	// CreatedAt is when the item was enqueued.
	CreatedAt time.Time

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}

// Transition moves the item to the next status, enforcing the state
// machine. Returns ErrInvalidTransition for illegal moves.
func (e *EvidenceItem) Transition(next EvidenceStatus) error {
	if !e.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, next)
	}
	e.Status = next
	e.UpdatedAt = time.Now()
	return nil
}

// QueueStatus is a snapshot of the evidence queue, counting items in
// each state.
type QueueStatus struct {
	// Queued is the number of items waiting.
	Queued int

	// Processing is the number of items being worked on.
	Processing int

	// Classified is the number of items classified but not yet persisted.
	Classified int

	// Complete is the number of finished items.
	Complete int

	// Failed is the number of items that errored.
	Failed int
}

// Total returns the total number of tracked items.
func (q QueueStatus) Total() int {
	return q.Queued + q.Processing + q.Classified + q.Complete + q.Failed
}
