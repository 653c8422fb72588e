package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// MatterService manages matters created from intake forms.
type MatterService interface {
	// Create validates an intake form and creates the matter along with
	// its fixed global clusters.
	Create(ctx context.Context, intake IntakeForm) (*domain.Matter, error)

	// Get retrieves a matter by ID.
	Get(ctx context.Context, id string) (*domain.Matter, error)

	// List returns all matters.
	List(ctx context.Context) ([]domain.Matter, error)

	// AddFacts merges facts into the matter's facts matrix.
	AddFacts(ctx context.Context, matterID string, facts domain.FactsMatrix) error

	// Delete removes a matter.
	Delete(ctx context.Context, id string) error
}

// IntakeForm carries the fields of a client intake form.
type IntakeForm struct {
	// Caption is the case caption.
	Caption string

	// Plaintiff is the plaintiff's name.
	Plaintiff string

	// Defendants are the named defendants. At least one is required.
	Defendants []string

	// Jurisdiction is the court or venue.
	Jurisdiction string

	// CauseSummary is the narrative of the claim.
	CauseSummary string

	// IntakeDir is the directory holding the matter's documents.
	IntakeDir string
}
