// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): stores, embedding and LLM services, the
// vector index, connectors, normalisers and post-processors.
//
// Implementations live under internal/adapters/driven, internal/connectors,
// internal/normalisers and internal/postprocessors.
package driven
