package domain

import (
	"strings"
	"time"
	"unicode"
)

// ClusterKind distinguishes per-defendant clusters from the fixed
// global clusters that exist for every matter.
type ClusterKind string

const (
	// ClusterDefendant is a per-defendant similarity cluster.
	ClusterDefendant ClusterKind = "defendant"

	// ClusterGlobal is one of the fixed global clusters.
	ClusterGlobal ClusterKind = "global"
)

// Fixed global cluster keys. These clusters exist regardless of the
// defendants in a matter.
const (
	// GlobalClusterAuthority holds precedent documents.
	GlobalClusterAuthority = "authority"

	// GlobalClusterProcedure holds procedural documents (motions, answers).
	GlobalClusterProcedure = "procedure"

	// GlobalClusterEvidence holds factual evidence documents.
	GlobalClusterEvidence = "evidence"
)

// GlobalClusterKeys returns the fixed global cluster keys.
func GlobalClusterKeys() []string {
	return []string{GlobalClusterAuthority, GlobalClusterProcedure, GlobalClusterEvidence}
}

// Cluster is a similarity bucket of document chunks, keyed either by a
// normalised defendant name or by a fixed global key.
type Cluster struct {
	// ID is the unique identifier for the cluster.
	ID string

	// MatterID scopes the cluster to a matter.
	MatterID string

	// Key is the lookup key: a normalised defendant name for defendant
	// clusters, or one of the GlobalCluster* constants.
	Key string

	// Kind is the cluster kind.
	Kind ClusterKind

	// Label is the human-readable name (the defendant name as written
	// in the intake form, or a description for global clusters).
	Label string

	// MemberCount is the number of chunks assigned to the cluster.
	MemberCount int

	// CreatedAt is when the cluster was created.
	CreatedAt time.Time

	// UpdatedAt is when the cluster last gained or lost members.
	UpdatedAt time.Time
}

// ClusterMember links a chunk into a cluster, carrying the embedding so
// similarity operations do not need a second lookup.
type ClusterMember struct {
	// ClusterID links to the owning cluster.
	ClusterID string

	// ChunkID is the member chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Embedding is the chunk's vector, nil when embeddings are disabled.
	Embedding []float32

	// AddedAt is when the chunk was assigned.
	AddedAt time.Time
}

// Cohesion classifies cluster quality from its similarity statistics.
type Cohesion string

const (
	// CohesionTight means members sit close to the centroid.
	CohesionTight Cohesion = "tight"

	// CohesionLoose means members are moderately spread.
	CohesionLoose Cohesion = "loose"

	// CohesionScattered means the cluster has little internal similarity.
	CohesionScattered Cohesion = "scattered"
)

// ClusterStats summarises the quality of a cluster.
type ClusterStats struct {
	// Key is the cluster key the stats describe.
	Key string

	// Members is the number of chunks with embeddings.
	Members int

	// MeanSimilarity is the mean cosine similarity of members to the centroid.
	MeanSimilarity float64

	// MinSimilarity is the lowest member-to-centroid similarity.
	MinSimilarity float64

	// Cohesion is the quality classification derived from MeanSimilarity.
	Cohesion Cohesion
}

// corporateSuffixes are stripped when normalising defendant names so
// "Acme Corp." and "ACME Corporation" key the same cluster.
var corporateSuffixes = []string{
	"incorporated", "corporation", "company", "limited",
	"inc", "llc", "llp", "corp", "ltd", "co", "lp", "plc",
}

// NormalizeDefendant reduces a defendant name to a stable cluster key:
// lowercase, punctuation removed, corporate suffixes stripped, spaces
// collapsed to single underscores.
func NormalizeDefendant(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation is dropped.
	}

	words := strings.Fields(b.String())

	// Strip trailing corporate suffixes, repeatedly: "acme holdings co llc"
	// reduces to "acme holdings".
	for len(words) > 1 {
		last := words[len(words)-1]
		stripped := false
		for _, suffix := range corporateSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	return strings.Join(words, "_")
}
