package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// DraftingOrchestrator runs the researcher/writer/editor agent pipeline
// to produce validated complaint drafts.
type DraftingOrchestrator interface {
	// Draft generates a complaint draft for one defendant of a matter,
	// validates it, and retries one revision if validation fails.
	// The returned report describes the final draft version.
	Draft(ctx context.Context, matterID, defendant string) (*domain.Draft, *domain.ValidationReport, error)

	// DraftAll generates drafts for every defendant in the matter.
	DraftAll(ctx context.Context, matterID string) ([]DraftResult, error)
}

// DraftResult pairs a generated draft with its validation report.
type DraftResult struct {
	// Draft is the generated draft.
	Draft *domain.Draft

	// Report is the validation outcome, nil when drafting failed.
	Report *domain.ValidationReport

	// Err records a per-defendant failure in DraftAll.
	Err error
}
