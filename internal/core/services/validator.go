package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure Validator implements the interface.
var _ driving.DraftValidator = (*Validator)(nil)

// ValidatorConfig holds the check weights and pass threshold.
type ValidatorConfig struct {
	// SimilarityWeight scales the cluster-similarity check.
	SimilarityWeight float64

	// ElementsWeight scales the required-element check.
	ElementsWeight float64

	// StructureWeight scales the structural check.
	StructureWeight float64

	// MentionsWeight scales the defendant-mention check.
	MentionsWeight float64

	// Threshold is the weighted total required to pass.
	Threshold float64

	// MinMentions is the number of defendant mentions scoring full marks.
	MinMentions int
}

// DefaultValidatorConfig returns the standard weights and threshold.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		SimilarityWeight: 0.40,
		ElementsWeight:   0.30,
		StructureWeight:  0.20,
		MentionsWeight:   0.10,
		Threshold:        0.65,
		MinMentions:      3,
	}
}

// requiredElements are the complaint elements the element check looks
// for, each with the cues that count as present.
var requiredElements = []struct {
	name string
	cues []string
}{
	{"jurisdiction", []string{"jurisdiction"}},
	{"venue", []string{"venue"}},
	{"parties", []string{"plaintiff", "defendant"}},
	{"factual allegations", []string{"factual allegations", "statement of facts", "alleges as follows"}},
	{"causes of action", []string{"cause of action", "causes of action", "count i", "count one", "claim for relief"}},
	{"prayer for relief", []string{"prayer for relief", "wherefore", "plaintiff requests", "plaintiff prays"}},
}

// numberedParagraph matches complaint-style numbered paragraphs at the
// start of a line ("12." or "12)").
var numberedParagraph = regexp.MustCompile(`(?m)^\s*\d{1,3}[.)]\s`)

// Validator scores drafts against their defendant clusters and
// persists the resulting reports.
type Validator struct {
	cfg         ValidatorConfig
	matterStore driven.MatterStore
	draftStore  driven.DraftStore
	docStore    driven.DocumentStore
	pipeline    driven.PostProcessorPipeline
	clusters    driving.ClusterManager
}

// NewValidator creates a new drafting validator. The docStore and
// pipeline are used by the feedback loop to persist passing drafts as
// cluster material; pass nil for both to disable the feedback loop.
func NewValidator(
	cfg ValidatorConfig,
	matterStore driven.MatterStore,
	draftStore driven.DraftStore,
	docStore driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	clusters driving.ClusterManager,
) *Validator {
	return &Validator{
		cfg:         cfg,
		matterStore: matterStore,
		draftStore:  draftStore,
		docStore:    docStore,
		pipeline:    pipeline,
		clusters:    clusters,
	}
}

// Validate runs all checks on a stored draft, persists the report, and
// feeds passing drafts back into the defendant cluster.
func (v *Validator) Validate(ctx context.Context, draftID string) (*domain.ValidationReport, error) {
	draft, err := v.draftStore.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	report, err := v.ValidateBody(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := v.draftStore.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	// Feedback loop: a passing draft becomes cluster material so later
	// drafts are validated against it.
	if report.Passed {
		if err := v.feedDraftToCluster(ctx, draft); err != nil {
			// The report is already saved; a feedback failure is not fatal.
			logger.Warn("Failed to feed draft %s into cluster: %v", draft.ID, err)
		}
	}

	return report, nil
}

// feedDraftToCluster persists the draft as a document with chunks and
// assigns it to the defendant cluster. Missing chunk embeddings are
// filled in by the cluster manager.
func (v *Validator) feedDraftToCluster(ctx context.Context, draft *domain.Draft) error {
	if v.clusters == nil || v.docStore == nil || v.pipeline == nil {
		return nil
	}

	doc := draftAsDocument(draft)
	chunks, err := v.pipeline.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("chunk draft: %w", err)
	}
	if err := v.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save draft document: %w", err)
	}
	if err := v.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save draft chunks: %w", err)
	}

	cat := domain.Categorisation{
		DocumentID: doc.ID,
		DocType:    domain.DocTypeComplaint,
		Authority:  domain.AuthorityFactEvidence,
		Defendant:  draft.Defendant,
	}
	return v.clusters.Assign(ctx, doc, cat)
}

// ValidateBody runs the checks on a draft without persisting anything.
func (v *Validator) ValidateBody(ctx context.Context, draft *domain.Draft) (*domain.ValidationReport, error) {
	if draft == nil || strings.TrimSpace(draft.Body) == "" {
		return nil, fmt.Errorf("%w: draft body is empty", domain.ErrInvalidInput)
	}
	if draft.Defendant == "" {
		return nil, domain.ErrNoDefendant
	}

	logger.Section("Validate Draft")
	logger.Debug("Draft: %s defendant=%s", draft.ID, draft.Defendant)

	report := &domain.ValidationReport{
		ID:        uuid.New().String(),
		DraftID:   draft.ID,
		Threshold: v.cfg.Threshold,
		CreatedAt: time.Now(),
	}

	report.Checks = append(report.Checks, v.similarityCheck(ctx, draft))
	report.Checks = append(report.Checks, v.elementsCheck(draft.Body))
	report.Checks = append(report.Checks, v.structureCheck(draft.Body))
	report.Checks = append(report.Checks, v.mentionsCheck(ctx, draft))

	for _, check := range report.Checks {
		report.Total += check.Score * check.Weight
	}
	report.Passed = report.Total >= report.Threshold

	logger.Info("Validation total %.2f (threshold %.2f): passed=%t",
		report.Total, report.Threshold, report.Passed)
	return report, nil
}

// similarityCheck scores the draft by its maximum similarity against the
// defendant cluster. With no embeddings or an empty cluster the check
// scores a neutral 0.5 so a fresh matter is not unpassable.
func (v *Validator) similarityCheck(ctx context.Context, draft *domain.Draft) domain.CheckResult {
	check := domain.CheckResult{Name: "similarity", Weight: v.cfg.SimilarityWeight}

	sim, err := v.clusters.MaxSimilarity(ctx, draft.MatterID, draft.Defendant, draft.Body)
	switch {
	case err == nil:
		check.Score = sim
		check.Findings = append(check.Findings,
			fmt.Sprintf("max similarity %.2f against cluster %s", sim, draft.Defendant))
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrEmptyCluster),
		errors.Is(err, domain.ErrNotFound):
		check.Score = 0.5
		check.Findings = append(check.Findings, "similarity unavailable, scored neutral: "+err.Error())
	default:
		check.Score = 0
		check.Findings = append(check.Findings, "similarity check failed: "+err.Error())
	}
	return check
}

// elementsCheck scores the presence ratio of required complaint elements.
func (v *Validator) elementsCheck(body string) domain.CheckResult {
	check := domain.CheckResult{Name: "elements", Weight: v.cfg.ElementsWeight}
	lower := strings.ToLower(body)

	present := 0
	for _, element := range requiredElements {
		found := false
		for _, cue := range element.cues {
			if strings.Contains(lower, cue) {
				found = true
				break
			}
		}
		if found {
			present++
		} else {
			check.Findings = append(check.Findings, "missing element: "+element.name)
		}
	}

	check.Score = float64(present) / float64(len(requiredElements))
	return check
}

// structureCheck scores caption, numbered paragraphs and signature block.
func (v *Validator) structureCheck(body string) domain.CheckResult {
	check := domain.CheckResult{Name: "structure", Weight: v.cfg.StructureWeight}
	lower := strings.ToLower(body)

	passed := 0
	const total = 3

	if strings.Contains(lower, " v. ") || strings.Contains(lower, " vs. ") ||
		strings.Contains(lower, "case no") {
		passed++
	} else {
		check.Findings = append(check.Findings, "no case caption found")
	}

	if matches := numberedParagraph.FindAllStringIndex(body, -1); len(matches) >= 5 {
		passed++
	} else {
		check.Findings = append(check.Findings, "fewer than 5 numbered paragraphs")
	}

	if strings.Contains(lower, "respectfully submitted") || strings.Contains(lower, "dated:") {
		passed++
	} else {
		check.Findings = append(check.Findings, "no signature block")
	}

	check.Score = float64(passed) / float64(total)
	return check
}

// mentionsCheck scores how often the defendant is named in the draft,
// scaled to MinMentions.
func (v *Validator) mentionsCheck(ctx context.Context, draft *domain.Draft) domain.CheckResult {
	check := domain.CheckResult{Name: "defendant_mentions", Weight: v.cfg.MentionsWeight}
	lower := strings.ToLower(draft.Body)

	// Count mentions of the display name when the matter is available,
	// falling back to the normalised key words.
	needle := strings.ReplaceAll(draft.Defendant, "_", " ")
	if matter, err := v.matterStore.Get(ctx, draft.MatterID); err == nil {
		for _, d := range matter.Defendants {
			if domain.NormalizeDefendant(d) == draft.Defendant {
				needle = strings.ToLower(d)
				break
			}
		}
	}

	mentions := strings.Count(lower, needle)
	check.Findings = append(check.Findings, fmt.Sprintf("defendant mentioned %d times", mentions))

	if v.cfg.MinMentions <= 0 {
		check.Score = 1
		return check
	}
	score := float64(mentions) / float64(v.cfg.MinMentions)
	if score > 1 {
		score = 1
	}
	check.Score = score
	return check
}

// draftAsDocument adapts a draft for cluster assignment. The draft ID
// prefix keeps draft documents distinguishable from ingested ones.
func draftAsDocument(draft *domain.Draft) *domain.Document {
	now := time.Now()
	return &domain.Document{
		ID:        "draft:" + draft.ID,
		MatterID:  draft.MatterID,
		URI:       "draft://" + draft.ID,
		Title:     fmt.Sprintf("Draft complaint v%d (%s)", draft.Version, draft.Defendant),
		Content:   draft.Body,
		DocType:   domain.DocTypeComplaint,
		Authority: domain.AuthorityFactEvidence,
		Defendant: draft.Defendant,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
