package driven

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// Connector fetches documents for a matter from an intake location.
// The filesystem connector reads a matter's intake directory; other
// connector types can be registered the same way.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// MatterID returns the configured matter ID.
	MatterID() string

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Validate checks if the connector is properly configured.
	// For filesystem, this checks the intake path exists and is readable.
	// Returns nil if ready to ingest, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// FullIngest fetches all documents from the intake location.
	// Returns channels for documents and errors; both close when done.
	FullIngest(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch listens for intake changes in real time.
	// Only available if SupportsWatch is true.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}

// ConnectorFactory creates connectors for matters.
type ConnectorFactory interface {
	// Create builds a connector for the matter's intake location.
	Create(ctx context.Context, matter domain.Matter) (Connector, error)
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsWatch indicates the connector can push real-time events.
	SupportsWatch bool

	// SupportsBinary indicates the connector handles binary content.
	SupportsBinary bool

	// SupportsValidation indicates Validate() performs actual validation.
	SupportsValidation bool
}
