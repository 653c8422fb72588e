package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure DraftingService implements the interfaces.
var (
	_ driving.DraftingOrchestrator = (*DraftingService)(nil)
	_ driven.PromptStoreAware      = (*DraftingService)(nil)
)

// Default prompt templates, used when no PromptStore is configured or a
// named prompt is missing. The templates deliberately stay skeletal;
// firms supply their own house style through the prompt store.
const (
	defaultDraftSystem = "You are drafting a civil complaint. Write in plain, formal " +
		"legal prose with numbered paragraphs. Do not invent facts."

	defaultResearchDigest = "Summarise the following excerpts from related case " +
		"material into a short research digest of the strongest points:\n\n%s"

	defaultDraftComplaint = "Draft a civil complaint using only these facts:\n%s\n\n" +
		"Research digest:\n%s\n\nThe defendant is %s. Include jurisdiction, venue, " +
		"parties, factual allegations, causes of action and a prayer for relief, " +
		"with numbered paragraphs and a signature block."

	defaultReviseDraft = "Revise the following complaint draft. Keep its structure " +
		"and facts, and fix these problems:\n%s\n\nDraft:\n%s"
)

// DraftingConfig tunes the agent pipeline.
type DraftingConfig struct {
	// ResearchK is the number of chunks retrieved per cluster (default 5).
	ResearchK int

	// MaxTokens caps generation length (default 4096).
	MaxTokens int

	// Temperature for generation (default 0.3).
	Temperature float64

	// MaxRevisions is the number of revision retries after a failed
	// validation (default 1).
	MaxRevisions int
}

// DefaultDraftingConfig returns the standard pipeline settings.
func DefaultDraftingConfig() DraftingConfig {
	return DraftingConfig{
		ResearchK:    5,
		MaxTokens:    4096,
		Temperature:  0.3,
		MaxRevisions: 1,
	}
}

// DraftingService runs the researcher/writer/editor agent pipeline.
type DraftingService struct {
	cfg         DraftingConfig
	matterStore driven.MatterStore
	draftStore  driven.DraftStore
	llm         driven.LLMService
	clusters    driving.ClusterManager
	validator   driving.DraftValidator
	prompts     driven.PromptStore
}

// NewDraftingService creates a new drafting service.
// The LLM service is required for drafting; Draft returns
// domain.ErrLLMUnavailable when it is nil.
func NewDraftingService(
	cfg DraftingConfig,
	matterStore driven.MatterStore,
	draftStore driven.DraftStore,
	llm driven.LLMService,
	clusters driving.ClusterManager,
	validator driving.DraftValidator,
) *DraftingService {
	return &DraftingService{
		cfg:         cfg,
		matterStore: matterStore,
		draftStore:  draftStore,
		llm:         llm,
		clusters:    clusters,
		validator:   validator,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *DraftingService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// prompt loads a named prompt, falling back to the built-in default.
func (s *DraftingService) prompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	content, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(content) == "" {
		return fallback
	}
	return content
}

// Draft generates a complaint draft for one defendant, validates it,
// and retries revisions while validation fails.
func (s *DraftingService) Draft(ctx context.Context, matterID, defendant string) (*domain.Draft, *domain.ValidationReport, error) {
	if s.llm == nil {
		return nil, nil, domain.ErrLLMUnavailable
	}

	matter, err := s.matterStore.Get(ctx, matterID)
	if err != nil {
		return nil, nil, fmt.Errorf("get matter: %w", err)
	}

	key := domain.NormalizeDefendant(defendant)
	if key == "" {
		return nil, nil, domain.ErrNoDefendant
	}

	logger.Section("Drafting Pipeline")
	logger.Info("Drafting for defendant %s in matter %s", key, matterID)

	// Researcher: retrieve and digest related material.
	digest, err := s.research(ctx, matter, key)
	if err != nil {
		return nil, nil, err
	}

	// Writer: generate the draft body.
	body, err := s.write(ctx, matter, key, digest)
	if err != nil {
		return nil, nil, err
	}

	draft := &domain.Draft{
		ID:        uuid.New().String(),
		MatterID:  matterID,
		Defendant: key,
		Body:      body,
		Version:   1,
		CreatedAt: time.Now(),
	}
	if err := s.draftStore.SaveDraft(ctx, draft); err != nil {
		return nil, nil, fmt.Errorf("save draft: %w", err)
	}

	// Editor: validate and revise while failing.
	report, err := s.validator.Validate(ctx, draft.ID)
	if err != nil {
		return draft, nil, fmt.Errorf("validate draft: %w", err)
	}

	for attempt := 0; !report.Passed && attempt < s.cfg.MaxRevisions; attempt++ {
		logger.Info("Draft %s failed validation (%.2f), revising", draft.ID, report.Total)

		revised, err := s.revise(ctx, draft.Body, report.Findings())
		if err != nil {
			return draft, report, err
		}

		draft = &domain.Draft{
			ID:        uuid.New().String(),
			MatterID:  matterID,
			Defendant: key,
			Body:      revised,
			Version:   draft.Version + 1,
			CreatedAt: time.Now(),
		}
		if err := s.draftStore.SaveDraft(ctx, draft); err != nil {
			return nil, nil, fmt.Errorf("save revised draft: %w", err)
		}

		report, err = s.validator.Validate(ctx, draft.ID)
		if err != nil {
			return draft, nil, fmt.Errorf("validate revision: %w", err)
		}
	}

	logger.Info("Draft %s v%d: passed=%t score=%.2f", draft.ID, draft.Version, report.Passed, report.Total)
	return draft, report, nil
}

// DraftAll generates drafts for every defendant in the matter.
func (s *DraftingService) DraftAll(ctx context.Context, matterID string) ([]driving.DraftResult, error) {
	matter, err := s.matterStore.Get(ctx, matterID)
	if err != nil {
		return nil, fmt.Errorf("get matter: %w", err)
	}

	results := make([]driving.DraftResult, 0, len(matter.Defendants))
	for _, defendant := range matter.Defendants {
		draft, report, err := s.Draft(ctx, matterID, defendant)
		results = append(results, driving.DraftResult{Draft: draft, Report: report, Err: err})
	}
	return results, nil
}

// research retrieves material from the defendant and authority clusters
// and digests it with the LLM. A matter with no cluster material yet
// yields an empty digest rather than an error.
func (s *DraftingService) research(ctx context.Context, matter *domain.Matter, defendantKey string) (string, error) {
	query := matter.CauseSummary
	if strings.TrimSpace(query) == "" {
		query = matter.Caption
	}

	var excerpts []string
	for _, clusterKey := range []string{defendantKey, domain.GlobalClusterAuthority} {
		hits, err := s.clusters.Nearest(ctx, matter.ID, clusterKey, query, s.cfg.ResearchK)
		if err != nil {
			if errors.Is(err, domain.ErrEmbeddingUnavailable) ||
				errors.Is(err, domain.ErrVectorIndexUnavailable) ||
				errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Research skipping cluster %s: %v", clusterKey, err)
				continue
			}
			return "", fmt.Errorf("research cluster %s: %w", clusterKey, err)
		}
		for _, hit := range hits {
			excerpts = append(excerpts, fmt.Sprintf("[%s] %s", hit.Document.Title, hit.Chunk.Content))
		}
	}

	if len(excerpts) == 0 {
		logger.Debug("Research found no cluster material")
		return "", nil
	}

	template := s.prompt(driven.PromptResearchDigest, defaultResearchDigest)
	digest, err := s.llm.Generate(ctx, fmt.Sprintf(template, strings.Join(excerpts, "\n---\n")), driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens / 2,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("digest research: %w", err)
	}
	return digest, nil
}

// write generates the complaint body from the facts matrix and digest.
func (s *DraftingService) write(ctx context.Context, matter *domain.Matter, defendantKey, digest string) (string, error) {
	defendantLabel := defendantKey
	for _, d := range matter.Defendants {
		if domain.NormalizeDefendant(d) == defendantKey {
			defendantLabel = d
			break
		}
	}

	template := s.prompt(driven.PromptDraftComplaint, defaultDraftComplaint)
	messages := []driven.ChatMessage{
		{Role: "system", Content: s.prompt(driven.PromptDraftSystem, defaultDraftSystem)},
		{Role: "user", Content: fmt.Sprintf(template, renderFacts(matter), digest, defendantLabel)},
	}

	body, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("write draft: %w", err)
	}
	return body, nil
}

// revise asks the LLM to fix a failing draft using validator findings.
func (s *DraftingService) revise(ctx context.Context, body string, findings []string) (string, error) {
	template := s.prompt(driven.PromptReviseDraft, defaultReviseDraft)
	revised, err := s.llm.Generate(ctx, fmt.Sprintf(template, strings.Join(findings, "\n- "), body), driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("revise draft: %w", err)
	}
	return revised, nil
}

// renderFacts flattens the facts matrix for the writer prompt.
func renderFacts(matter *domain.Matter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Caption: %s\n", matter.Caption)
	fmt.Fprintf(&b, "Plaintiff: %s\n", matter.Plaintiff)
	fmt.Fprintf(&b, "Jurisdiction: %s\n", matter.Jurisdiction)
	if matter.CauseSummary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", matter.CauseSummary)
	}

	writeFacts := func(heading string, facts []domain.Fact) {
		if len(facts) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", heading)
		for _, f := range facts {
			fmt.Fprintf(&b, "- %s", f.Text)
			if f.Source != "" {
				fmt.Fprintf(&b, " (source: %s)", f.Source)
			}
			b.WriteByte('\n')
		}
	}
	writeFacts("Undisputed facts", matter.Facts.UndisputedFacts)
	writeFacts("Disputed facts", matter.Facts.DisputedFacts)
	writeFacts("Procedural facts", matter.Facts.ProceduralFacts)

	for k, v := range matter.Facts.CaseMetadata {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return b.String()
}
