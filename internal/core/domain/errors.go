package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidTransition indicates an illegal evidence status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrQueueClosed indicates the evidence queue has been shut down.
	ErrQueueClosed = errors.New("evidence queue closed")

	// ErrIngestInProgress indicates an ingest is already running for the matter.
	ErrIngestInProgress = errors.New("ingest in progress")

	// ErrNoDefendant indicates a draft or document has no identifiable defendant.
	ErrNoDefendant = errors.New("no defendant identified")

	// ErrEmptyCluster indicates a similarity operation against a cluster
	// with no embedded members.
	ErrEmptyCluster = errors.New("cluster has no embedded members")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Drafting and revision are disabled without an LLM.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Similarity clustering and validation degrade without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrConnectorValidation indicates connector validation failed.
	// The intake directory is missing or unreadable.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
