package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure MatterService implements the interface.
var _ driving.MatterService = (*MatterService)(nil)

// MatterService manages matters created from intake forms.
type MatterService struct {
	matterStore  driven.MatterStore
	clusterStore driven.ClusterStore
}

// NewMatterService creates a new matter service.
func NewMatterService(matterStore driven.MatterStore, clusterStore driven.ClusterStore) *MatterService {
	return &MatterService{
		matterStore:  matterStore,
		clusterStore: clusterStore,
	}
}

// Create validates an intake form and creates the matter along with its
// fixed global clusters and one cluster per defendant.
func (s *MatterService) Create(ctx context.Context, intake driving.IntakeForm) (*domain.Matter, error) {
	if strings.TrimSpace(intake.Caption) == "" {
		return nil, fmt.Errorf("%w: caption is required", domain.ErrInvalidInput)
	}
	if len(intake.Defendants) == 0 {
		return nil, fmt.Errorf("%w: at least one defendant is required", domain.ErrInvalidInput)
	}
	for _, d := range intake.Defendants {
		if domain.NormalizeDefendant(d) == "" {
			return nil, fmt.Errorf("%w: defendant name %q normalises to nothing", domain.ErrInvalidInput, d)
		}
	}

	now := time.Now()
	matter := &domain.Matter{
		ID:           uuid.New().String(),
		Caption:      intake.Caption,
		Plaintiff:    intake.Plaintiff,
		Defendants:   intake.Defendants,
		Jurisdiction: intake.Jurisdiction,
		CauseSummary: intake.CauseSummary,
		IntakeDir:    intake.IntakeDir,
		Facts:        domain.FactsMatrix{CaseMetadata: map[string]string{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.matterStore.Save(ctx, matter); err != nil {
		return nil, fmt.Errorf("save matter: %w", err)
	}

	// Global clusters exist from the start so categorised documents always
	// have a destination.
	for _, key := range domain.GlobalClusterKeys() {
		cluster := &domain.Cluster{
			ID:        uuid.New().String(),
			MatterID:  matter.ID,
			Key:       key,
			Kind:      domain.ClusterGlobal,
			Label:     key,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.saveMatterCluster(ctx, cluster); err != nil {
			return nil, fmt.Errorf("create global cluster %s: %w", key, err)
		}
	}

	for i, d := range intake.Defendants {
		cluster := &domain.Cluster{
			ID:        uuid.New().String(),
			MatterID:  matter.ID,
			Key:       domain.NormalizeDefendant(d),
			Kind:      domain.ClusterDefendant,
			Label:     intake.Defendants[i],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.saveMatterCluster(ctx, cluster); err != nil {
			return nil, fmt.Errorf("create defendant cluster %s: %w", cluster.Key, err)
		}
	}

	logger.Info("Created matter %s with %d defendants", matter.ID, len(matter.Defendants))
	return matter, nil
}

// saveMatterCluster persists a cluster, skipping keys that already exist
// (two defendants can normalise to the same key).
func (s *MatterService) saveMatterCluster(ctx context.Context, cluster *domain.Cluster) error {
	if existing, err := s.clusterStore.GetCluster(ctx, cluster.MatterID, cluster.Key); err == nil && existing != nil {
		return nil
	}
	return s.clusterStore.SaveCluster(ctx, cluster)
}

// Get retrieves a matter by ID.
func (s *MatterService) Get(ctx context.Context, id string) (*domain.Matter, error) {
	return s.matterStore.Get(ctx, id)
}

// List returns all matters.
func (s *MatterService) List(ctx context.Context) ([]domain.Matter, error) {
	return s.matterStore.List(ctx)
}

// AddFacts merges facts into the matter's facts matrix.
func (s *MatterService) AddFacts(ctx context.Context, matterID string, facts domain.FactsMatrix) error {
	matter, err := s.matterStore.Get(ctx, matterID)
	if err != nil {
		return fmt.Errorf("get matter: %w", err)
	}

	matter.Facts.UndisputedFacts = append(matter.Facts.UndisputedFacts, facts.UndisputedFacts...)
	matter.Facts.DisputedFacts = append(matter.Facts.DisputedFacts, facts.DisputedFacts...)
	matter.Facts.ProceduralFacts = append(matter.Facts.ProceduralFacts, facts.ProceduralFacts...)
	matter.Facts.EvidenceRefs = append(matter.Facts.EvidenceRefs, facts.EvidenceRefs...)
	if matter.Facts.CaseMetadata == nil {
		matter.Facts.CaseMetadata = map[string]string{}
	}
	for k, v := range facts.CaseMetadata {
		matter.Facts.CaseMetadata[k] = v
	}
	matter.UpdatedAt = time.Now()

	if err := s.matterStore.Save(ctx, matter); err != nil {
		return fmt.Errorf("save matter: %w", err)
	}
	return nil
}

// Delete removes a matter.
func (s *MatterService) Delete(ctx context.Context, id string) error {
	return s.matterStore.Delete(ctx, id)
}
