package driving

import (
	"context"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

// CategoriserService classifies documents into types, authority levels
// and defendants.
type CategoriserService interface {
	// Categorise classifies a document without persisting anything.
	Categorise(ctx context.Context, doc *domain.Document) (domain.Categorisation, error)

	// CategoriseAndStore classifies a document, persists the result onto
	// the document, and routes the document into its cluster.
	CategoriseAndStore(ctx context.Context, documentID string) (domain.Categorisation, error)

	// CategoriseMatter runs CategoriseAndStore over every uncategorised
	// document in a matter. Returns the categorisations in document order.
	CategoriseMatter(ctx context.Context, matterID string) ([]domain.Categorisation, error)
}
