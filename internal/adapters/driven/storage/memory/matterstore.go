// Package memory provides in-memory store implementations, used for
// tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure MatterStore implements the interface.
var _ driven.MatterStore = (*MatterStore)(nil)

// MatterStore is an in-memory implementation of driven.MatterStore.
type MatterStore struct {
	mu      sync.RWMutex
	matters map[string]domain.Matter
}

// NewMatterStore creates a new in-memory matter store.
func NewMatterStore() *MatterStore {
	return &MatterStore{matters: make(map[string]domain.Matter)}
}

// Save stores or updates a matter.
func (s *MatterStore) Save(_ context.Context, matter *domain.Matter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matters[matter.ID] = *matter
	return nil
}

// Get retrieves a matter by ID.
func (s *MatterStore) Get(_ context.Context, id string) (*domain.Matter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matter, ok := s.matters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &matter, nil
}

// List returns all matters.
func (s *MatterStore) List(_ context.Context) ([]domain.Matter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Matter, 0, len(s.matters))
	for id := range s.matters {
		result = append(result, s.matters[id])
	}
	return result, nil
}

// Delete removes a matter.
func (s *MatterStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matters, id)
	return nil
}
