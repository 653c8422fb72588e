package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/storage/memory"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
)

func newMatterService() (*MatterService, *memory.MatterStore, *memory.ClusterStore) {
	matterStore := memory.NewMatterStore()
	clusterStore := memory.NewClusterStore()
	return NewMatterService(matterStore, clusterStore), matterStore, clusterStore
}

func TestMatterService_Create_Success(t *testing.T) {
	svc, _, clusterStore := newMatterService()
	ctx := context.Background()

	matter, err := svc.Create(ctx, driving.IntakeForm{
		Caption:      "Doe v. Acme Corp.",
		Plaintiff:    "Jane Doe",
		Defendants:   []string{"Acme Corp.", "Bolt Industries LLC"},
		Jurisdiction: "N.D. Cal.",
		CauseSummary: "breach of contract",
	})
	require.NoError(t, err)
	require.NotNil(t, matter)
	assert.NotEmpty(t, matter.ID)
	assert.NotNil(t, matter.Facts.CaseMetadata)

	clusters, err := clusterStore.ListClusters(ctx, matter.ID)
	require.NoError(t, err)
	// Three global clusters plus one per defendant.
	assert.Len(t, clusters, 5)

	byKey := make(map[string]domain.Cluster, len(clusters))
	for _, c := range clusters {
		byKey[c.Key] = c
	}
	for _, key := range domain.GlobalClusterKeys() {
		c, ok := byKey[key]
		require.True(t, ok, "missing global cluster %s", key)
		assert.Equal(t, domain.ClusterGlobal, c.Kind)
	}
	acme, ok := byKey[domain.NormalizeDefendant("Acme Corp.")]
	require.True(t, ok)
	assert.Equal(t, domain.ClusterDefendant, acme.Kind)
	assert.Equal(t, "Acme Corp.", acme.Label)
}

func TestMatterService_Create_RequiresCaption(t *testing.T) {
	svc, _, _ := newMatterService()

	_, err := svc.Create(context.Background(), driving.IntakeForm{
		Defendants: []string{"Acme Corp."},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatterService_Create_RequiresDefendant(t *testing.T) {
	svc, _, _ := newMatterService()

	_, err := svc.Create(context.Background(), driving.IntakeForm{
		Caption: "Doe v. Nobody",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatterService_Create_RejectsEmptyDefendantName(t *testing.T) {
	svc, _, _ := newMatterService()

	_, err := svc.Create(context.Background(), driving.IntakeForm{
		Caption:    "Doe v. Unknown",
		Defendants: []string{"???"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatterService_Create_DeduplicatesDefendantClusters(t *testing.T) {
	svc, _, clusterStore := newMatterService()
	ctx := context.Background()

	// Both names normalise to the same key.
	matter, err := svc.Create(ctx, driving.IntakeForm{
		Caption:    "Doe v. Acme",
		Defendants: []string{"Acme Corp.", "Acme, Inc."},
	})
	require.NoError(t, err)

	clusters, err := clusterStore.ListClusters(ctx, matter.ID)
	require.NoError(t, err)
	assert.Len(t, clusters, 4)
}

func TestMatterService_AddFacts_Merges(t *testing.T) {
	svc, _, _ := newMatterService()
	ctx := context.Background()

	matter, err := svc.Create(ctx, driving.IntakeForm{
		Caption:    "Doe v. Acme",
		Defendants: []string{"Acme Corp."},
	})
	require.NoError(t, err)

	err = svc.AddFacts(ctx, matter.ID, domain.FactsMatrix{
		UndisputedFacts: []domain.Fact{{Text: "contract signed 2024-01-15", Source: "intake form"}},
		CaseMetadata:    map[string]string{"case_no": "3:26-cv-01234"},
	})
	require.NoError(t, err)

	err = svc.AddFacts(ctx, matter.ID, domain.FactsMatrix{
		DisputedFacts: []domain.Fact{{Text: "delivery date"}},
		CaseMetadata:  map[string]string{"judge": "Hon. A. Example"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, matter.ID)
	require.NoError(t, err)
	require.Len(t, got.Facts.UndisputedFacts, 1)
	assert.Equal(t, "contract signed 2024-01-15", got.Facts.UndisputedFacts[0].Text)
	require.Len(t, got.Facts.DisputedFacts, 1)
	assert.Equal(t, "delivery date", got.Facts.DisputedFacts[0].Text)
	assert.Equal(t, "3:26-cv-01234", got.Facts.CaseMetadata["case_no"])
	assert.Equal(t, "Hon. A. Example", got.Facts.CaseMetadata["judge"])
}

func TestMatterService_AddFacts_UnknownMatter(t *testing.T) {
	svc, _, _ := newMatterService()

	err := svc.AddFacts(context.Background(), "nonexistent", domain.FactsMatrix{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatterService_Delete(t *testing.T) {
	svc, _, _ := newMatterService()
	ctx := context.Background()

	matter, err := svc.Create(ctx, driving.IntakeForm{
		Caption:    "Doe v. Acme",
		Defendants: []string{"Acme Corp."},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, matter.ID))

	_, err = svc.Get(ctx, matter.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
