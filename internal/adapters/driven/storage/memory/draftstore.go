package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure DraftStore implements the interface.
var _ driven.DraftStore = (*DraftStore)(nil)

// DraftStore is an in-memory implementation of driven.DraftStore.
type DraftStore struct {
	mu      sync.RWMutex
	drafts  map[string]domain.Draft
	reports map[string][]domain.ValidationReport // by draft ID
}

// NewDraftStore creates a new in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts:  make(map[string]domain.Draft),
		reports: make(map[string][]domain.ValidationReport),
	}
}

// SaveDraft stores or updates a draft.
func (s *DraftStore) SaveDraft(_ context.Context, draft *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = *draft
	return nil
}

// GetDraft retrieves a draft by ID.
func (s *DraftStore) GetDraft(_ context.Context, id string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &draft, nil
}

// ListDrafts returns drafts for a matter, newest first.
func (s *DraftStore) ListDrafts(_ context.Context, matterID string) ([]domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Draft
	for id := range s.drafts {
		draft := s.drafts[id]
		if draft.MatterID == matterID {
			result = append(result, draft)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// SaveReport stores a validation report.
func (s *DraftStore) SaveReport(_ context.Context, report *domain.ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.DraftID] = append(s.reports[report.DraftID], *report)
	return nil
}

// ListReports returns validation reports for a draft, newest first.
func (s *DraftStore) ListReports(_ context.Context, draftID string) ([]domain.ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := append([]domain.ValidationReport(nil), s.reports[draftID]...)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
