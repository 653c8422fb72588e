package domain

import "time"

// Document represents an ingested legal document with metadata.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// MatterID links to the Matter this document belongs to.
	MatterID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// DocType is the assigned document type (complaint, answer, motion, ...).
	// Set by the categoriser; DocTypeUnknown until categorised.
	DocType DocType

	// Authority is the assigned authority level.
	// Set by the categoriser; AuthorityUnknown until categorised.
	Authority AuthorityLevel

	// Defendant is the normalised defendant name this document relates to.
	// Empty when the categoriser could not identify one.
	Defendant string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents an embeddable unit within a document.
// Documents are split into chunks for similarity lookups.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
