package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure EvidenceStore implements the interface.
var _ driven.EvidenceStore = (*EvidenceStore)(nil)

// EvidenceStore is an in-memory implementation of driven.EvidenceStore.
type EvidenceStore struct {
	mu    sync.RWMutex
	items map[string]domain.EvidenceItem
}

// NewEvidenceStore creates a new in-memory evidence store.
func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{
		items: make(map[string]domain.EvidenceItem),
	}
}

// Save stores or updates an evidence item.
func (s *EvidenceStore) Save(_ context.Context, item *domain.EvidenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

// Get retrieves an evidence item by ID.
func (s *EvidenceStore) Get(_ context.Context, id string) (*domain.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// List returns evidence items for a matter, oldest first.
func (s *EvidenceStore) List(_ context.Context, matterID string) ([]domain.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.EvidenceItem
	for id := range s.items {
		item := s.items[id]
		if item.MatterID == matterID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// ListPending returns all queued or processing items, oldest first.
func (s *EvidenceStore) ListPending(_ context.Context) ([]domain.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.EvidenceItem
	for id := range s.items {
		item := s.items[id]
		if item.Status == domain.EvidenceQueued || item.Status == domain.EvidenceProcessing {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CountByStatus counts a matter's items in each queue state.
func (s *EvidenceStore) CountByStatus(_ context.Context, matterID string) (domain.QueueStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var status domain.QueueStatus
	for id := range s.items {
		item := s.items[id]
		if item.MatterID != matterID {
			continue
		}
		switch item.Status {
		case domain.EvidenceQueued:
			status.Queued++
		case domain.EvidenceProcessing:
			status.Processing++
		case domain.EvidenceClassified:
			status.Classified++
		case domain.EvidenceComplete:
			status.Complete++
		case domain.EvidenceFailed:
			status.Failed++
		}
	}
	return status, nil
}
