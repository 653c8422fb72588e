package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// Ensure ClusterService implements the interface.
var _ driving.ClusterManager = (*ClusterService)(nil)

// Cohesion thresholds on mean member-to-centroid similarity.
const (
	cohesionTightMin = 0.75
	cohesionLooseMin = 0.45
)

// ClusterService maintains per-defendant and global similarity clusters.
type ClusterService struct {
	clusterStore     driven.ClusterStore
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewClusterService creates a new cluster service.
// VectorIndex and embeddingService are optional - if nil, assignment
// stores membership without vectors and similarity operations return
// domain.ErrEmbeddingUnavailable.
func NewClusterService(
	clusterStore driven.ClusterStore,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *ClusterService {
	return &ClusterService{
		clusterStore:     clusterStore,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// targetKey picks the cluster a categorised document belongs in: the
// defendant cluster when one was identified, otherwise a global cluster
// by document role.
func targetKey(cat domain.Categorisation) string {
	if cat.Defendant != "" {
		return cat.Defendant
	}
	switch cat.DocType {
	case domain.DocTypeOpinion:
		return domain.GlobalClusterAuthority
	case domain.DocTypeAnswer, domain.DocTypeMotion:
		return domain.GlobalClusterProcedure
	default:
		return domain.GlobalClusterEvidence
	}
}

// Assign routes a categorised document's chunks into the appropriate
// cluster, creating the cluster on first use.
func (s *ClusterService) Assign(ctx context.Context, doc *domain.Document, cat domain.Categorisation) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	key := targetKey(cat)
	cluster, err := s.ensureCluster(ctx, doc.MatterID, key, cat)
	if err != nil {
		return err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Warn("Document %s has no chunks to cluster", doc.ID)
		return nil
	}

	// Reassignment: drop stale memberships and index entries before
	// adding fresh ones.
	if err := s.Remove(ctx, doc.MatterID, doc.ID); err != nil {
		return err
	}

	// Fill in missing embeddings when a service is configured. Chunks
	// arriving from ingest already carry vectors; draft feedback does not.
	if s.embeddingService != nil {
		if err := s.embedMissing(ctx, chunks); err != nil {
			return err
		}
	}

	now := time.Now()
	added := 0
	for i := range chunks {
		member := domain.ClusterMember{
			ClusterID:  cluster.ID,
			ChunkID:    chunks[i].ID,
			DocumentID: doc.ID,
			Embedding:  chunks[i].Embedding,
			AddedAt:    now,
		}
		if err := s.clusterStore.AddMember(ctx, member); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		if s.vectorIndex != nil && chunks[i].Embedding != nil {
			if err := s.vectorIndex.Add(ctx, cluster.ID, chunks[i].ID, chunks[i].Embedding); err != nil {
				return fmt.Errorf("index vector: %w", err)
			}
		}
		added++
	}

	// Recompute the count from the store: reassignment may have removed
	// rows from this cluster, so incrementing would drift.
	members, err := s.clusterStore.ListMembers(ctx, cluster.ID)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	cluster.MemberCount = len(members)
	cluster.UpdatedAt = now
	if err := s.clusterStore.SaveCluster(ctx, cluster); err != nil {
		return fmt.Errorf("save cluster: %w", err)
	}

	logger.Debug("Assigned %d chunks of %s to cluster %s", added, doc.ID, key)
	return nil
}

// Remove drops a document's cluster memberships and index entries and
// refreshes the affected member counts. Called when a document is
// deleted, replaced by re-ingest, or reassigned.
func (s *ClusterService) Remove(ctx context.Context, matterID, documentID string) error {
	clusters, err := s.clusterStore.ListClusters(ctx, matterID)
	if err != nil {
		return fmt.Errorf("list clusters: %w", err)
	}

	removed := 0
	for i := range clusters {
		members, err := s.clusterStore.ListMembers(ctx, clusters[i].ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		kept := 0
		for _, m := range members {
			if m.DocumentID != documentID {
				kept++
				continue
			}
			removed++
			if s.vectorIndex != nil {
				if err := s.vectorIndex.Delete(ctx, clusters[i].ID, m.ChunkID); err != nil {
					return fmt.Errorf("unindex vector: %w", err)
				}
			}
		}
		if kept != clusters[i].MemberCount {
			clusters[i].MemberCount = kept
			clusters[i].UpdatedAt = time.Now()
			if err := s.clusterStore.SaveCluster(ctx, &clusters[i]); err != nil {
				return fmt.Errorf("save cluster: %w", err)
			}
		}
	}
	if removed == 0 {
		return nil
	}

	if err := s.clusterStore.RemoveMembers(ctx, documentID); err != nil {
		return fmt.Errorf("remove members: %w", err)
	}
	logger.Debug("Removed %d cluster members of %s", removed, documentID)
	return nil
}

// embedMissing generates and persists embeddings for chunks without one.
func (s *ClusterService) embedMissing(ctx context.Context, chunks []domain.Chunk) error {
	var missing []int
	for i := range chunks {
		if chunks[i].Embedding == nil {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	texts := make([]string, len(missing))
	for i, idx := range missing {
		texts[i] = chunks[idx].Content
	}
	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	for i, idx := range missing {
		chunks[idx].Embedding = embeddings[i]
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save embedded chunks: %w", err)
	}
	return nil
}

// ensureCluster fetches the target cluster, creating a defendant cluster
// on first sight of a new defendant key.
func (s *ClusterService) ensureCluster(ctx context.Context, matterID, key string, cat domain.Categorisation) (*domain.Cluster, error) {
	cluster, err := s.clusterStore.GetCluster(ctx, matterID, key)
	if err == nil {
		return cluster, nil
	}

	kind := domain.ClusterDefendant
	for _, g := range domain.GlobalClusterKeys() {
		if key == g {
			kind = domain.ClusterGlobal
		}
	}

	now := time.Now()
	cluster = &domain.Cluster{
		ID:        matterID + ":" + key,
		MatterID:  matterID,
		Key:       key,
		Kind:      kind,
		Label:     key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clusterStore.SaveCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("create cluster %s: %w", key, err)
	}
	return cluster, nil
}

// Nearest finds the k chunks in a cluster most similar to the query text.
func (s *ClusterService) Nearest(ctx context.Context, matterID, clusterKey, query string, k int) ([]driving.ClusterHit, error) {
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 {
		k = 5
	}

	cluster, err := s.clusterStore.GetCluster(ctx, matterID, clusterKey)
	if err != nil {
		return nil, fmt.Errorf("get cluster: %w", err)
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.searchIndex(ctx, cluster.ID, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]driving.ClusterHit, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Debug("Skipping stale vector hit %s: %v", hit.ChunkID, err)
			continue
		}
		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			logger.Debug("Skipping orphaned chunk %s: %v", chunk.ID, err)
			continue
		}
		results = append(results, driving.ClusterHit{
			Chunk:      *chunk,
			Document:   *doc,
			Similarity: hit.Similarity,
		})
	}
	return results, nil
}

// searchIndex queries the vector index, hydrating the cluster's space
// from the stored memberships first when the index has no entries for
// it. The index is process-local; the store is the durable record, so a
// fresh process must reload vectors before similarity works.
func (s *ClusterService) searchIndex(ctx context.Context, clusterID string, query []float32, k int) ([]driven.VectorHit, error) {
	hits, err := s.vectorIndex.Search(ctx, clusterID, query, k)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits, nil
	}

	members, err := s.clusterStore.ListMembers(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	loaded := 0
	for _, m := range members {
		if m.Embedding == nil {
			continue
		}
		if err := s.vectorIndex.Add(ctx, clusterID, m.ChunkID, m.Embedding); err != nil {
			return nil, fmt.Errorf("index vector: %w", err)
		}
		loaded++
	}
	if loaded == 0 {
		return nil, nil
	}
	logger.Debug("Hydrated %d vectors into cluster %s", loaded, clusterID)
	return s.vectorIndex.Search(ctx, clusterID, query, k)
}

// MaxSimilarity returns the highest cosine similarity between the text
// and any embedded member of the cluster.
func (s *ClusterService) MaxSimilarity(ctx context.Context, matterID, clusterKey, text string) (float64, error) {
	if s.embeddingService == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	cluster, err := s.clusterStore.GetCluster(ctx, matterID, clusterKey)
	if err != nil {
		return 0, fmt.Errorf("get cluster: %w", err)
	}

	embedding, err := s.embeddingService.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed text: %w", err)
	}

	if s.vectorIndex != nil {
		hits, err := s.searchIndex(ctx, cluster.ID, embedding, 1)
		if err != nil {
			return 0, fmt.Errorf("vector search: %w", err)
		}
		if len(hits) == 0 {
			return 0, domain.ErrEmptyCluster
		}
		return hits[0].Similarity, nil
	}

	// No index configured: brute force over stored memberships.
	members, err := s.clusterStore.ListMembers(ctx, cluster.ID)
	if err != nil {
		return 0, fmt.Errorf("list members: %w", err)
	}
	best := -1.0
	for _, m := range members {
		if m.Embedding == nil {
			continue
		}
		if sim := CosineSimilarity(embedding, m.Embedding); sim > best {
			best = sim
		}
	}
	if best < 0 {
		return 0, domain.ErrEmptyCluster
	}
	return best, nil
}

// Stats computes quality statistics for a cluster.
func (s *ClusterService) Stats(ctx context.Context, matterID, clusterKey string) (*domain.ClusterStats, error) {
	cluster, err := s.clusterStore.GetCluster(ctx, matterID, clusterKey)
	if err != nil {
		return nil, fmt.Errorf("get cluster: %w", err)
	}

	members, err := s.clusterStore.ListMembers(ctx, cluster.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	var vectors [][]float32
	for _, m := range members {
		if m.Embedding != nil {
			vectors = append(vectors, m.Embedding)
		}
	}

	stats := &domain.ClusterStats{Key: clusterKey, Members: len(vectors)}
	if len(vectors) == 0 {
		stats.Cohesion = domain.CohesionScattered
		return stats, nil
	}

	centroid := Centroid(vectors)
	sum := 0.0
	minSim := math.Inf(1)
	for _, v := range vectors {
		sim := CosineSimilarity(centroid, v)
		sum += sim
		if sim < minSim {
			minSim = sim
		}
	}

	stats.MeanSimilarity = sum / float64(len(vectors))
	stats.MinSimilarity = minSim
	switch {
	case stats.MeanSimilarity >= cohesionTightMin:
		stats.Cohesion = domain.CohesionTight
	case stats.MeanSimilarity >= cohesionLooseMin:
		stats.Cohesion = domain.CohesionLoose
	default:
		stats.Cohesion = domain.CohesionScattered
	}
	return stats, nil
}

// List returns all clusters for a matter, defendant clusters first.
func (s *ClusterService) List(ctx context.Context, matterID string) ([]domain.Cluster, error) {
	clusters, err := s.clusterStore.ListClusters(ctx, matterID)
	if err != nil {
		return nil, err
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Kind != clusters[j].Kind {
			return clusters[i].Kind == domain.ClusterDefendant
		}
		return clusters[i].Key < clusters[j].Key
	})
	return clusters, nil
}

// CosineSimilarity computes the cosine similarity of two vectors,
// clamped to [0, 1]. Mismatched or empty vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Centroid computes the mean vector of the given vectors.
// All vectors must share the first vector's dimensionality; others are
// skipped.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	sum := make([]float64, dims)
	count := 0
	for _, v := range vectors {
		if len(v) != dims {
			continue
		}
		for i := range v {
			sum[i] += float64(v[i])
		}
		count++
	}
	centroid := make([]float32, dims)
	for i := range sum {
		centroid[i] = float32(sum[i] / float64(count))
	}
	return centroid
}
