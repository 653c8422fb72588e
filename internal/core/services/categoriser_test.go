package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/storage/memory"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

const complaintText = `UNITED STATES DISTRICT COURT

Jane Doe v. Acme Corp.

COMPLAINT

JURISDICTION AND VENUE

1. Plaintiff alleges that defendant Acme Corp. breached the parties' contract.

CAUSES OF ACTION

2. First cause of action: breach of contract.

PRAYER FOR RELIEF

Plaintiff demands judgment against defendant. Jury trial demanded.`

const bindingOpinionText = `SLIP OPINION

SUPREME COURT OF THE UNITED STATES

The court holds that the judgment below must stand. We affirm.

It is so ordered.`

func newCategoriser(t *testing.T) (*Categoriser, *memory.MatterStore, *memory.DocumentStore, *mockClusterManager) {
	t.Helper()
	matterStore := memory.NewMatterStore()
	docStore := memory.NewDocumentStore()
	clusters := &mockClusterManager{}
	return NewCategoriser(matterStore, docStore, clusters), matterStore, docStore, clusters
}

func TestCategoriser_Categorise_Complaint(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-1",
		MatterID: "matter-1",
		URI:      "/intake/complaint.pdf",
		Content:  complaintText,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeComplaint, cat.DocType)
	assert.Equal(t, domain.AuthorityFactEvidence, cat.Authority)
	assert.Equal(t, domain.NormalizeDefendant("Acme Corp."), cat.Defendant)
	assert.Greater(t, cat.Confidence, 0.5)
	assert.Contains(t, cat.Signals, "keyword:prayer for relief")
	assert.Contains(t, cat.Signals, "filename:complaint")
}

func TestCategoriser_Categorise_BindingOpinion(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-2",
		MatterID: "matter-1",
		URI:      "/authorities/smith-opinion.pdf",
		Content:  bindingOpinionText,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeOpinion, cat.DocType)
	assert.Equal(t, domain.AuthorityBinding, cat.Authority)
	assert.Empty(t, cat.Defendant)
}

func TestCategoriser_Categorise_PersuasiveOpinion(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-3",
		MatterID: "matter-1",
		URI:      "/authorities/jones.pdf",
		Content:  "OPINION\n\nThe court holds that summary judgment was proper. We affirm the district court of another circuit.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeOpinion, cat.DocType)
	assert.Equal(t, domain.AuthorityPersuasive, cat.Authority)
}

func TestCategoriser_Categorise_JurisdictionMakesOpinionBinding(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	matter, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)
	require.Equal(t, "N.D. Cal.", matter.Jurisdiction)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-4",
		MatterID: "matter-1",
		URI:      "/authorities/local.pdf",
		Content:  "OPINION of the N.D. Cal. bench.\n\nThe court holds for plaintiff. We affirm.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeOpinion, cat.DocType)
	assert.Equal(t, domain.AuthorityBinding, cat.Authority)
}

func TestCategoriser_Categorise_FilenameHintAlone(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-5",
		MatterID: "matter-1",
		URI:      "/intake/invoice-march.pdf",
		Content:  "widget x 12 ... total due 4,200.00",
	})
	require.NoError(t, err)

	// Content scoring found nothing, so the filename hint decides with
	// reduced confidence.
	assert.Equal(t, domain.DocTypeEvidence, cat.DocType)
	assert.Equal(t, domain.AuthorityFactEvidence, cat.Authority)
	assert.InDelta(t, 0.1, cat.Confidence, 0.001)
}

func TestCategoriser_Categorise_FilenameWithTwoCues(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	// Both "motion" and "exhibit" match; pleading cues outrank evidence
	// cues, so the hint is stable across runs.
	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-7",
		MatterID: "matter-1",
		URI:      "/intake/motion_re_exhibit.pdf",
		Content:  "lorem ipsum dolor sit amet",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeMotion, cat.DocType)
	assert.Contains(t, cat.Signals, "filename:motion")
}

func TestCategoriser_Categorise_Unknown(t *testing.T) {
	svc, matterStore, _, _ := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	cat, err := svc.Categorise(ctx, &domain.Document{
		ID:       "doc-6",
		MatterID: "matter-1",
		URI:      "/intake/notes.txt",
		Content:  "lorem ipsum dolor sit amet",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeUnknown, cat.DocType)
	assert.Equal(t, domain.AuthorityUnknown, cat.Authority)
	assert.Zero(t, cat.Confidence)
}

func TestCategoriser_Categorise_NilDocument(t *testing.T) {
	svc, _, _, _ := newCategoriser(t)

	_, err := svc.Categorise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoriser_CategoriseAndStore(t *testing.T) {
	svc, matterStore, docStore, clusters := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{
		ID:       "doc-1",
		MatterID: "matter-1",
		URI:      "/intake/complaint.pdf",
		Content:  complaintText,
	}))

	cat, err := svc.CategoriseAndStore(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeComplaint, cat.DocType)

	stored, err := docStore.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeComplaint, stored.DocType)
	assert.Equal(t, domain.AuthorityFactEvidence, stored.Authority)
	assert.Equal(t, domain.NormalizeDefendant("Acme Corp."), stored.Defendant)

	assigned := clusters.assignments()
	require.Len(t, assigned, 1)
	assert.Equal(t, cat.Defendant, assigned[0].Defendant)
}

func TestCategoriser_CategoriseAndStore_UnknownDocument(t *testing.T) {
	svc, _, _, _ := newCategoriser(t)

	_, err := svc.CategoriseAndStore(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoriser_CategoriseMatter_SkipsTypedDocuments(t *testing.T) {
	svc, matterStore, docStore, clusters := newCategoriser(t)
	ctx := context.Background()

	_, err := seedMatter(ctx, matterStore, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{
		ID:       "doc-typed",
		MatterID: "matter-1",
		URI:      "/intake/answer.pdf",
		Content:  "ANSWER. Defendant denies each allegation.",
		DocType:  domain.DocTypeAnswer,
	}))
	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{
		ID:       "doc-fresh",
		MatterID: "matter-1",
		URI:      "/intake/complaint.pdf",
		Content:  complaintText,
	}))

	cats, err := svc.CategoriseMatter(ctx, "matter-1")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "doc-fresh", cats[0].DocumentID)
	assert.Len(t, clusters.assignments(), 1)
}
