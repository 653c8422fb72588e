package driving

import "context"

// IngestOrchestrator coordinates document intake for matters.
type IngestOrchestrator interface {
	// Ingest runs a full intake pass for a matter.
	Ingest(ctx context.Context, matterID string) error

	// Watch processes intake changes continuously until the context is
	// cancelled. Requires a connector with watch support.
	Watch(ctx context.Context, matterID string) error

	// Status returns ingest status for a matter.
	Status(ctx context.Context, matterID string) (*IngestStatus, error)
}

// IngestStatus represents the current state of an ingest operation.
type IngestStatus struct {
	// MatterID identifies the matter.
	MatterID string

	// Running indicates if ingest is currently in progress.
	Running bool

	// DocumentsProcessed is the count of documents processed.
	DocumentsProcessed int

	// ErrorCount is the number of errors encountered.
	ErrorCount int
}
