package domain

// Fact is a single factual assertion from the intake process.
type Fact struct {
	// Text is the assertion.
	Text string

	// Source names where the fact came from (intake form, document URI).
	Source string
}

// FactsMatrix is the structured fact record passed between ingestion
// and drafting. The split between undisputed, disputed and procedural
// facts drives how the writer presents allegations.
type FactsMatrix struct {
	// UndisputedFacts are facts both sides accept.
	UndisputedFacts []Fact

	// DisputedFacts are contested facts.
	DisputedFacts []Fact

	// ProceduralFacts describe filings, deadlines and service.
	ProceduralFacts []Fact

	// CaseMetadata holds free-form case attributes (case number, judge,
	// filing date).
	CaseMetadata map[string]string

	// EvidenceRefs are IDs of evidence items supporting the facts.
	EvidenceRefs []string
}

// Empty reports whether the matrix contains no facts at all.
func (f FactsMatrix) Empty() bool {
	return len(f.UndisputedFacts) == 0 &&
		len(f.DisputedFacts) == 0 &&
		len(f.ProceduralFacts) == 0
}

// AllFacts returns every fact in the matrix, undisputed first.
func (f FactsMatrix) AllFacts() []Fact {
	out := make([]Fact, 0, len(f.UndisputedFacts)+len(f.DisputedFacts)+len(f.ProceduralFacts))
	out = append(out, f.UndisputedFacts...)
	out = append(out, f.DisputedFacts...)
	out = append(out, f.ProceduralFacts...)
	return out
}
