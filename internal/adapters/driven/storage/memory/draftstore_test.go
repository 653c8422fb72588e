package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

func TestDraftStore_SaveAndGet(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	draft := &domain.Draft{
		ID:        "draft-1",
		MatterID:  "matter-1",
		Defendant: "acme",
		Body:      "COMPLAINT\n\n1. Plaintiff alleges...",
		Version:   1,
	}

	err := store.SaveDraft(ctx, draft)
	require.NoError(t, err)

	saved, err := store.GetDraft(ctx, "draft-1")
	require.NoError(t, err)
	assert.Equal(t, "acme", saved.Defendant)
	assert.Equal(t, 1, saved.Version)
}

func TestDraftStore_GetDraft_NotFound(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	draft, err := store.GetDraft(ctx, "nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, draft)
}

func TestDraftStore_ListDrafts_NewestFirst(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	base := time.Now()
	_ = store.SaveDraft(ctx, &domain.Draft{ID: "d-old", MatterID: "m1", CreatedAt: base})
	_ = store.SaveDraft(ctx, &domain.Draft{ID: "d-new", MatterID: "m1", CreatedAt: base.Add(time.Hour)})
	_ = store.SaveDraft(ctx, &domain.Draft{ID: "d-other", MatterID: "m2", CreatedAt: base})

	drafts, err := store.ListDrafts(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "d-new", drafts[0].ID)
	assert.Equal(t, "d-old", drafts[1].ID)
}

func TestDraftStore_SaveAndListReports(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	base := time.Now()
	first := &domain.ValidationReport{
		ID:        "rep-1",
		DraftID:   "draft-1",
		Total:     0.52,
		Threshold: 0.65,
		Passed:    false,
		CreatedAt: base,
	}
	second := &domain.ValidationReport{
		ID:        "rep-2",
		DraftID:   "draft-1",
		Total:     0.71,
		Threshold: 0.65,
		Passed:    true,
		CreatedAt: base.Add(time.Minute),
	}

	require.NoError(t, store.SaveReport(ctx, first))
	require.NoError(t, store.SaveReport(ctx, second))

	reports, err := store.ListReports(ctx, "draft-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "rep-2", reports[0].ID)
	assert.True(t, reports[0].Passed)
	assert.Equal(t, "rep-1", reports[1].ID)
}

func TestDraftStore_ListReports_Empty(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	reports, err := store.ListReports(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, reports)
}
