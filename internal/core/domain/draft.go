package domain

import "time"

// Draft is a generated complaint draft for a single defendant.
type Draft struct {
	// ID is the unique identifier for the draft.
	ID string

	// MatterID links to the Matter the draft belongs to.
	MatterID string

	// Defendant is the normalised defendant name the draft targets.
	Defendant string

	// Body is the full draft text.
	Body string

	// Version increments with each revision of the same draft.
	Version int

	// CreatedAt is when this version was generated.
	CreatedAt time.Time
}

// CheckResult is one validator check with its score and findings.
type CheckResult struct {
	// Name identifies the check ("similarity", "elements", "structure",
	// "defendant_mentions").
	Name string

	// Score is the check score in [0, 1].
	Score float64

	// Weight is the check's contribution to the total.
	Weight float64

	// Findings are human-readable notes about what passed or failed.
	Findings []string
}

// ValidationReport is the outcome of validating a draft against its
// defendant cluster.
type ValidationReport struct {
	// ID is the unique identifier for the report.
	ID string

	// DraftID links to the validated draft.
	DraftID string

	// Checks are the individual check results.
	Checks []CheckResult

	// Total is the weighted sum of check scores, in [0, 1].
	Total float64

	// Threshold is the pass threshold the total was compared against.
	Threshold float64

	// Passed reports whether Total >= Threshold.
	Passed bool

	// CreatedAt is when validation ran.
	CreatedAt time.Time
}

// Findings flattens all check findings into a single list.
func (r ValidationReport) Findings() []string {
	var out []string
	for _, c := range r.Checks {
		out = append(out, c.Findings...)
	}
	return out
}
