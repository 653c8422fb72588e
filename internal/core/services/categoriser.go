package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure Categoriser implements the interface.
var _ driving.CategoriserService = (*Categoriser)(nil)

// docTypeCues maps each document type to weighted content keywords.
// Phrase cues carry more weight than single words because they are far
// less likely to appear incidentally.
var docTypeCues = map[domain.DocType]map[string]float64{
	domain.DocTypeComplaint: {
		"complaint":             3,
		"plaintiff alleges":     4,
		"causes of action":      4,
		"prayer for relief":     4,
		"jury trial demanded":   3,
		"comes now plaintiff":   4,
		"jurisdiction and venue": 3,
	},
	domain.DocTypeAnswer: {
		"answer":               3,
		"affirmative defense":  4,
		"affirmative defenses": 4,
		"denies each":          4,
		"admits the allegations": 3,
		"denies the allegations": 3,
	},
	domain.DocTypeMotion: {
		"motion":              3,
		"moves this court":    4,
		"memorandum of points": 4,
		"notice of motion":    4,
		"respectfully moves":  4,
		"proposed order":      2,
	},
	domain.DocTypeOpinion: {
		"opinion":            3,
		"it is so ordered":   4,
		"we affirm":          4,
		"we reverse":         4,
		"the court holds":    4,
		"concurring":         2,
		"dissenting":         2,
		"slip opinion":       3,
	},
	domain.DocTypeEvidence: {
		"exhibit":        3,
		"invoice":        3,
		"receipt":        2,
		"agreement":      2,
		"correspondence": 2,
		"dear ":          1,
		"deposition":     3,
		"transcript":     2,
	},
}

// filenameCues map filename substrings to document types, checked in
// order: pleading cues outrank evidence cues when a name matches both
// ("motion_re_exhibit.pdf" hints motion). A filename hint agreeing with
// the content score raises confidence; alone it is a weak signal.
var filenameCues = []struct {
	cue     string
	docType domain.DocType
}{
	{"complaint", domain.DocTypeComplaint},
	{"answer", domain.DocTypeAnswer},
	{"motion", domain.DocTypeMotion},
	{"opinion", domain.DocTypeOpinion},
	{"order", domain.DocTypeOpinion},
	{"ruling", domain.DocTypeOpinion},
	{"exhibit", domain.DocTypeEvidence},
	{"invoice", domain.DocTypeEvidence},
	{"receipt", domain.DocTypeEvidence},
	{"contract", domain.DocTypeEvidence},
	{"email", domain.DocTypeEvidence},
	{"letter", domain.DocTypeEvidence},
}

// bindingCues indicate a controlling court. The jurisdiction from the
// intake form is added at match time.
var bindingCues = []string{
	"supreme court",
	"en banc",
	"binding precedent",
	"controlling authority",
}

// persuasiveCues indicate non-controlling authority.
var persuasiveCues = []string{
	"district court",
	"court of appeals",
	"persuasive",
	"out-of-circuit",
	"unpublished",
}

// Categoriser assigns document types, authority levels and defendants
// using keyword heuristics and filename hints.
type Categoriser struct {
	matterStore driven.MatterStore
	docStore    driven.DocumentStore
	clusters    driving.ClusterManager
}

// NewCategoriser creates a new categoriser. The cluster manager is
// optional; when nil, CategoriseAndStore skips cluster routing.
func NewCategoriser(
	matterStore driven.MatterStore,
	docStore driven.DocumentStore,
	clusters driving.ClusterManager,
) *Categoriser {
	return &Categoriser{
		matterStore: matterStore,
		docStore:    docStore,
		clusters:    clusters,
	}
}

// Categorise classifies a document without persisting anything.
func (c *Categoriser) Categorise(ctx context.Context, doc *domain.Document) (domain.Categorisation, error) {
	if doc == nil {
		return domain.Categorisation{}, domain.ErrInvalidInput
	}

	logger.Section("Categorise")
	logger.Debug("Document: %s (%s)", doc.ID, doc.URI)

	content := strings.ToLower(doc.Content)
	cat := domain.Categorisation{DocumentID: doc.ID}

	docType, margin, signals := scoreDocType(content)
	cat.DocType = docType
	cat.Signals = signals

	// Filename hint: agreement raises confidence, disagreement only
	// decides ties when content scoring found nothing.
	hint, hintSignal := filenameHint(doc.URI)
	agreement := 0.0
	if hint != domain.DocTypeUnknown {
		cat.Signals = append(cat.Signals, hintSignal)
		switch {
		case hint == docType:
			agreement = 1.0
		case docType == domain.DocTypeUnknown:
			cat.DocType = hint
			agreement = 0.5
		}
	}

	cat.Authority = scoreAuthority(cat.DocType, content, c.jurisdictionCues(ctx, doc.MatterID))

	// Defendant identification from the caption region (first page is a
	// good proxy) and, failing that, the whole content.
	if matter, err := c.matterStore.Get(ctx, doc.MatterID); err == nil {
		caption := firstPage(doc.Content)
		name := matter.MatchDefendant(caption)
		if name == "" {
			name = matter.MatchDefendant(doc.Content)
		}
		if name != "" {
			cat.Defendant = domain.NormalizeDefendant(name)
			cat.Signals = append(cat.Signals, "defendant:"+cat.Defendant)
		}
	}

	// Confidence blends the keyword-score margin with filename agreement.
	cat.Confidence = 0.8*margin + 0.2*agreement
	if cat.DocType == domain.DocTypeUnknown {
		cat.Confidence = 0
	}

	logger.Debug("Type=%s authority=%s defendant=%q confidence=%.2f",
		cat.DocType, cat.Authority, cat.Defendant, cat.Confidence)
	return cat, nil
}

// CategoriseAndStore classifies a document, persists the result onto the
// document, and routes the document into its cluster.
func (c *Categoriser) CategoriseAndStore(ctx context.Context, documentID string) (domain.Categorisation, error) {
	doc, err := c.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return domain.Categorisation{}, fmt.Errorf("get document: %w", err)
	}

	cat, err := c.Categorise(ctx, doc)
	if err != nil {
		return domain.Categorisation{}, err
	}

	doc.DocType = cat.DocType
	doc.Authority = cat.Authority
	doc.Defendant = cat.Defendant
	if err := c.docStore.SaveDocument(ctx, doc); err != nil {
		return domain.Categorisation{}, fmt.Errorf("save document: %w", err)
	}

	if c.clusters != nil {
		if err := c.clusters.Assign(ctx, doc, cat); err != nil {
			return domain.Categorisation{}, fmt.Errorf("assign cluster: %w", err)
		}
	}

	return cat, nil
}

// CategoriseMatter runs CategoriseAndStore over every uncategorised
// document in a matter.
func (c *Categoriser) CategoriseMatter(ctx context.Context, matterID string) ([]domain.Categorisation, error) {
	docs, err := c.docStore.ListDocuments(ctx, matterID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var cats []domain.Categorisation
	for i := range docs {
		if docs[i].DocType != "" && docs[i].DocType != domain.DocTypeUnknown {
			continue
		}
		cat, err := c.CategoriseAndStore(ctx, docs[i].ID)
		if err != nil {
			return cats, fmt.Errorf("categorise %s: %w", docs[i].ID, err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// jurisdictionCues returns extra binding cues from the matter's intake
// jurisdiction, so "N.D. Cal." in the intake form makes Northern
// District opinions binding for this matter.
func (c *Categoriser) jurisdictionCues(ctx context.Context, matterID string) []string {
	matter, err := c.matterStore.Get(ctx, matterID)
	if err != nil || matter.Jurisdiction == "" {
		return nil
	}
	return []string{strings.ToLower(matter.Jurisdiction)}
}

// scoreDocType scores the content against every type's cues and returns
// the winner, the normalised margin over the runner-up, and the matched
// signals.
func scoreDocType(content string) (domain.DocType, float64, []string) {
	type typeScore struct {
		docType domain.DocType
		score   float64
	}

	var scores []typeScore
	signalsByType := map[domain.DocType][]string{}

	for docType, cues := range docTypeCues {
		var score float64
		for cue, weight := range cues {
			if n := strings.Count(content, cue); n > 0 {
				// Count capped at 3: a cue repeated fifty times should not
				// drown out everything else.
				if n > 3 {
					n = 3
				}
				score += weight * float64(n)
				signalsByType[docType] = append(signalsByType[docType], "keyword:"+strings.TrimSpace(cue))
			}
		}
		scores = append(scores, typeScore{docType, score})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].docType < scores[j].docType
	})

	best := scores[0]
	if best.score == 0 {
		return domain.DocTypeUnknown, 0, nil
	}

	margin := (best.score - scores[1].score) / best.score
	signals := signalsByType[best.docType]
	sort.Strings(signals)
	return best.docType, margin, signals
}

// filenameHint inspects the file name for a type cue.
func filenameHint(uri string) (domain.DocType, string) {
	name := strings.ToLower(filepath.Base(uri))
	for _, c := range filenameCues {
		if strings.Contains(name, c.cue) {
			return c.docType, "filename:" + c.cue
		}
	}
	return domain.DocTypeUnknown, ""
}

// scoreAuthority assigns the authority level. Pleadings, motions and
// evidence are always fact evidence; opinions are split between binding
// and persuasive by court cues.
func scoreAuthority(docType domain.DocType, content string, extraBinding []string) domain.AuthorityLevel {
	switch docType {
	case domain.DocTypeComplaint, domain.DocTypeAnswer, domain.DocTypeMotion, domain.DocTypeEvidence:
		return domain.AuthorityFactEvidence
	case domain.DocTypeUnknown:
		return domain.AuthorityUnknown
	}

	for _, cue := range append(append([]string{}, bindingCues...), extraBinding...) {
		if cue != "" && strings.Contains(content, cue) {
			return domain.AuthorityBinding
		}
	}
	for _, cue := range persuasiveCues {
		if strings.Contains(content, cue) {
			return domain.AuthorityPersuasive
		}
	}
	// An opinion with no court cues is still authority, just not binding.
	return domain.AuthorityPersuasive
}

// firstPage approximates the first page of a document for caption matching.
const firstPageChars = 3000

func firstPage(content string) string {
	if len(content) <= firstPageChars {
		return content
	}
	return content[:firstPageChars]
}
