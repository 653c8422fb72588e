// Package domain contains the core entities of the LawyerFactory pipeline:
// matters, documents, categorisations, defendant clusters, evidence items,
// drafts and validation reports. It has no dependencies on adapters or
// infrastructure and defines the sentinel errors used across the codebase.
package domain
