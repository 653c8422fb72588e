package memory

import (
	"context"
	"sync"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Ensure ClusterStore implements the interface.
var _ driven.ClusterStore = (*ClusterStore)(nil)

// ClusterStore is an in-memory implementation of driven.ClusterStore.
type ClusterStore struct {
	mu       sync.RWMutex
	clusters map[string]domain.Cluster         // by cluster ID
	members  map[string][]domain.ClusterMember // by cluster ID
}

// NewClusterStore creates a new in-memory cluster store.
func NewClusterStore() *ClusterStore {
	return &ClusterStore{
		clusters: make(map[string]domain.Cluster),
		members:  make(map[string][]domain.ClusterMember),
	}
}

// SaveCluster stores or updates a cluster.
func (s *ClusterStore) SaveCluster(_ context.Context, cluster *domain.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[cluster.ID] = *cluster
	return nil
}

// GetCluster retrieves a cluster by matter and key.
func (s *ClusterStore) GetCluster(_ context.Context, matterID, key string) (*domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.clusters {
		cluster := s.clusters[id]
		if cluster.MatterID == matterID && cluster.Key == key {
			return &cluster, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListClusters returns all clusters for a matter.
func (s *ClusterStore) ListClusters(_ context.Context, matterID string) ([]domain.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Cluster
	for id := range s.clusters {
		cluster := s.clusters[id]
		if cluster.MatterID == matterID {
			result = append(result, cluster)
		}
	}
	return result, nil
}

// AddMember assigns a chunk to a cluster.
func (s *ClusterStore) AddMember(_ context.Context, member domain.ClusterMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ClusterID] = append(s.members[member.ClusterID], member)
	return nil
}

// ListMembers returns all members of a cluster.
func (s *ClusterStore) ListMembers(_ context.Context, clusterID string) ([]domain.ClusterMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ClusterMember(nil), s.members[clusterID]...), nil
}

// RemoveMembers removes all memberships for a document.
func (s *ClusterStore) RemoveMembers(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for clusterID, members := range s.members {
		kept := members[:0]
		for _, m := range members {
			if m.DocumentID != documentID {
				kept = append(kept, m)
			}
		}
		s.members[clusterID] = kept
	}
	return nil
}

// DeleteCluster removes a cluster and its memberships.
func (s *ClusterStore) DeleteCluster(_ context.Context, clusterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clusters, clusterID)
	delete(s.members, clusterID)
	return nil
}
