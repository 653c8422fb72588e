package domain

import (
	"strings"
	"time"
)

// Matter represents a legal matter created from an intake form. It is
// the top-level grouping for documents, evidence, clusters and drafts.
type Matter struct {
	// ID is the unique identifier for the matter.
	ID string

	// Caption is the case caption (e.g., "Doe v. Acme Corp.").
	Caption string

	// Plaintiff is the plaintiff's name from the intake form.
	Plaintiff string

	// Defendants are the defendant names as written in the intake form.
	Defendants []string

	// Jurisdiction is the court or venue named in the intake form.
	Jurisdiction string

	// CauseSummary is the intake form's narrative of the claim.
	CauseSummary string

	// IntakeDir is the directory the filesystem connector watches for
	// this matter's documents.
	IntakeDir string

	// Facts is the matter's facts matrix.
	Facts FactsMatrix

	// CreatedAt is when the matter was created.
	CreatedAt time.Time

	// UpdatedAt is when the matter was last updated.
	UpdatedAt time.Time
}

// DefendantKeys returns the normalised cluster keys for all defendants.
func (m *Matter) DefendantKeys() []string {
	keys := make([]string, 0, len(m.Defendants))
	for _, d := range m.Defendants {
		if key := NormalizeDefendant(d); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// MatchDefendant returns the matter defendant whose normalised form
// appears in the given text, or empty string when none match. Longer
// names are tried first so "Acme Holdings" wins over "Acme".
func (m *Matter) MatchDefendant(text string) string {
	lower := strings.ToLower(text)

	best := ""
	for _, d := range m.Defendants {
		needle := strings.ToLower(strings.TrimSpace(d))
		if needle == "" {
			continue
		}
		if strings.Contains(lower, needle) && len(needle) > len(best) {
			best = d
		}
	}
	if best != "" {
		return best
	}

	// Fall back to matching on the normalised key words, so "ACME, Inc."
	// in the intake form still matches "Acme" in a caption.
	for _, d := range m.Defendants {
		key := NormalizeDefendant(d)
		needle := strings.ReplaceAll(key, "_", " ")
		if needle != "" && strings.Contains(lower, needle) {
			return d
		}
	}
	return ""
}
