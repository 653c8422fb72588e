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

type draftingFixture struct {
	svc         *DraftingService
	matterStore *memory.MatterStore
	draftStore  *memory.DraftStore
	llm         *mockLLMService
	clusters    *mockClusterManager
	validator   *mockValidator
}

func newDraftingFixture(t *testing.T, defendants ...string) *draftingFixture {
	t.Helper()
	f := &draftingFixture{
		matterStore: memory.NewMatterStore(),
		draftStore:  memory.NewDraftStore(),
		llm:         &mockLLMService{},
		clusters:    &mockClusterManager{nearestErr: domain.ErrNotFound},
		validator:   &mockValidator{},
	}
	f.svc = NewDraftingService(DefaultDraftingConfig(), f.matterStore, f.draftStore, f.llm, f.clusters, f.validator)

	if len(defendants) == 0 {
		defendants = []string{"Acme Corp."}
	}
	_, err := seedMatter(context.Background(), f.matterStore, "matter-1", defendants...)
	require.NoError(t, err)
	return f
}

func TestDraftingService_Draft_PassesFirstTry(t *testing.T) {
	f := newDraftingFixture(t)
	f.clusters.nearestErr = nil
	f.clusters.hits = []driving.ClusterHit{
		{
			Chunk:      domain.Chunk{ID: "chunk-1", Content: "the parties signed on January 15"},
			Document:   domain.Document{ID: "doc-1", Title: "Contract"},
			Similarity: 0.9,
		},
	}
	f.llm.responses = []string{"research digest", "COMPLAINT body"}
	ctx := context.Background()

	draft, report, err := f.svc.Draft(ctx, "matter-1", "Acme Corp.")
	require.NoError(t, err)
	require.NotNil(t, draft)
	require.NotNil(t, report)

	assert.Equal(t, "acme", draft.Defendant)
	assert.Equal(t, 1, draft.Version)
	assert.Equal(t, "COMPLAINT body", draft.Body)
	assert.True(t, report.Passed)

	// One research digest over the retrieved excerpts, one writer call.
	require.Len(t, f.llm.generated, 1)
	assert.Contains(t, f.llm.generated[0], "the parties signed on January 15")
	require.Len(t, f.llm.chatted, 1)
	assert.Contains(t, f.llm.chatted[0][1].Content, "Acme Corp.")

	stored, err := f.draftStore.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Body, stored.Body)
}

func TestDraftingService_Draft_NoClusterMaterial(t *testing.T) {
	f := newDraftingFixture(t)
	f.llm.responses = []string{"COMPLAINT body"}

	draft, report, err := f.svc.Draft(context.Background(), "matter-1", "Acme Corp.")
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Equal(t, "COMPLAINT body", draft.Body)

	// Nothing to digest, so the only LLM call is the writer.
	assert.Empty(t, f.llm.generated)
	assert.Len(t, f.llm.chatted, 1)
}

func TestDraftingService_Draft_RevisesFailingDraft(t *testing.T) {
	f := newDraftingFixture(t)
	f.validator.reports = []*domain.ValidationReport{
		{
			Passed: false,
			Total:  0.3,
			Checks: []domain.CheckResult{
				{Name: "elements", Findings: []string{"missing element: venue"}},
			},
		},
		{Passed: true, Total: 0.8},
	}
	f.llm.responses = []string{"weak first draft", "revised draft"}
	ctx := context.Background()

	draft, report, err := f.svc.Draft(ctx, "matter-1", "Acme Corp.")
	require.NoError(t, err)

	assert.Equal(t, 2, draft.Version)
	assert.Equal(t, "revised draft", draft.Body)
	assert.True(t, report.Passed)
	assert.Equal(t, 2, f.validator.calls)

	// The revision prompt carried the validator findings.
	require.Len(t, f.llm.generated, 1)
	assert.Contains(t, f.llm.generated[0], "missing element: venue")

	drafts, err := f.draftStore.ListDrafts(ctx, "matter-1")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestDraftingService_Draft_StopsAfterMaxRevisions(t *testing.T) {
	f := newDraftingFixture(t)
	f.validator.reports = []*domain.ValidationReport{
		{Passed: false, Total: 0.3},
		{Passed: false, Total: 0.4},
	}
	f.llm.responses = []string{"first", "second"}

	draft, report, err := f.svc.Draft(context.Background(), "matter-1", "Acme Corp.")
	require.NoError(t, err)

	assert.Equal(t, 2, draft.Version)
	assert.False(t, report.Passed)
	assert.Equal(t, 2, f.validator.calls)
}

func TestDraftingService_Draft_NilLLM(t *testing.T) {
	f := newDraftingFixture(t)
	svc := NewDraftingService(DefaultDraftingConfig(), f.matterStore, f.draftStore, nil, f.clusters, f.validator)

	_, _, err := svc.Draft(context.Background(), "matter-1", "Acme Corp.")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestDraftingService_Draft_UnknownMatter(t *testing.T) {
	f := newDraftingFixture(t)

	_, _, err := f.svc.Draft(context.Background(), "nonexistent", "Acme Corp.")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftingService_Draft_EmptyDefendant(t *testing.T) {
	f := newDraftingFixture(t)

	_, _, err := f.svc.Draft(context.Background(), "matter-1", "???")
	assert.ErrorIs(t, err, domain.ErrNoDefendant)
}

func TestDraftingService_DraftAll(t *testing.T) {
	f := newDraftingFixture(t, "Acme Corp.", "Bolt Industries LLC")

	results, err := f.svc.DraftAll(context.Background(), "matter-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "acme", results[0].Draft.Defendant)
	assert.Equal(t, domain.NormalizeDefendant("Bolt Industries LLC"), results[1].Draft.Defendant)
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.True(t, result.Report.Passed)
	}
}
