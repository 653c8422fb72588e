package filesystem

import (
	"context"
	"fmt"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory creates filesystem connectors from a matter's intake
// directory.
type Factory struct{}

// NewFactory creates a connector factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds a connector for the matter's intake location.
func (f *Factory) Create(_ context.Context, matter domain.Matter) (driven.Connector, error) {
	if matter.IntakeDir == "" {
		return nil, fmt.Errorf("%w: matter %s has no intake directory", domain.ErrInvalidInput, matter.ID)
	}
	return New(matter.ID, matter.IntakeDir), nil
}
