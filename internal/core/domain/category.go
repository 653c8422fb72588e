package domain

// DocType classifies a legal document by its procedural role.
type DocType string

const (
	// DocTypeComplaint is an initiating pleading.
	DocTypeComplaint DocType = "complaint"

	// DocTypeAnswer is a responsive pleading.
	DocTypeAnswer DocType = "answer"

	// DocTypeMotion is a request for a court order.
	DocTypeMotion DocType = "motion"

	// DocTypeOpinion is a judicial opinion or order.
	DocTypeOpinion DocType = "opinion"

	// DocTypeEvidence is factual material (exhibits, records, correspondence).
	DocTypeEvidence DocType = "evidence"

	// DocTypeUnknown means the categoriser could not determine a type.
	DocTypeUnknown DocType = "unknown"
)

// Valid reports whether the DocType is a known value.
func (t DocType) Valid() bool {
	switch t {
	case DocTypeComplaint, DocTypeAnswer, DocTypeMotion, DocTypeOpinion, DocTypeEvidence, DocTypeUnknown:
		return true
	}
	return false
}

// AuthorityLevel classifies the precedential weight of a document.
type AuthorityLevel string

const (
	// AuthorityBinding is binding precedent (controlling court).
	AuthorityBinding AuthorityLevel = "binding_precedent"

	// AuthorityPersuasive is persuasive precedent (non-controlling court).
	AuthorityPersuasive AuthorityLevel = "persuasive_precedent"

	// AuthorityFactEvidence is factual evidence with no precedential weight.
	AuthorityFactEvidence AuthorityLevel = "fact_evidence"

	// AuthorityUnknown means authority could not be determined.
	AuthorityUnknown AuthorityLevel = "unknown"
)

// Valid reports whether the AuthorityLevel is a known value.
func (a AuthorityLevel) Valid() bool {
	switch a {
	case AuthorityBinding, AuthorityPersuasive, AuthorityFactEvidence, AuthorityUnknown:
		return true
	}
	return false
}

// Categorisation is the result of classifying a document.
// Signals record which cues fired so a reviewer can see why a
// document was classified the way it was.
type Categorisation struct {
	// DocumentID links to the categorised document.
	DocumentID string

	// DocType is the assigned document type.
	DocType DocType

	// Authority is the assigned authority level.
	Authority AuthorityLevel

	// Defendant is the normalised defendant name, if one was identified.
	Defendant string

	// Confidence is the classification confidence in [0, 1].
	Confidence float64

	// Signals lists the keyword and filename cues that matched.
	Signals []string
}

// LowConfidence reports whether the categorisation falls below the
// review threshold and should be flagged for human inspection.
func (c Categorisation) LowConfidence() bool {
	return c.Confidence < 0.5
}
