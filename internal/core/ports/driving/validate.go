package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// DraftValidator scores drafts against their defendant clusters.
type DraftValidator interface {
	// Validate runs all checks on a draft, persists the report, and feeds
	// passing drafts back into the defendant cluster.
	Validate(ctx context.Context, draftID string) (*domain.ValidationReport, error)

	// ValidateBody runs the checks on an unsaved draft body without
	// persisting anything. Used by the drafting pipeline between
	// revision passes.
	ValidateBody(ctx context.Context, draft *domain.Draft) (*domain.ValidationReport, error)
}
