package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
)

// mockClusterManagerCLI implements driving.ClusterManager for testing.
type mockClusterManagerCLI struct {
	clusters []domain.Cluster
	stats    *domain.ClusterStats
	err      error
}

func (m *mockClusterManagerCLI) Assign(_ context.Context, _ *domain.Document, _ domain.Categorisation) error {
	return m.err
}

func (m *mockClusterManagerCLI) Remove(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockClusterManagerCLI) Nearest(_ context.Context, _, _, _ string, _ int) ([]driving.ClusterHit, error) {
	return nil, m.err
}

func (m *mockClusterManagerCLI) MaxSimilarity(_ context.Context, _, _, _ string) (float64, error) {
	return 0, m.err
}

func (m *mockClusterManagerCLI) Stats(_ context.Context, _, _ string) (*domain.ClusterStats, error) {
	return m.stats, m.err
}

func (m *mockClusterManagerCLI) List(_ context.Context, _ string) ([]domain.Cluster, error) {
	return m.clusters, m.err
}

func TestClustersCmd_PrintsClusters(t *testing.T) {
	old := clusterManager
	clusterManager = &mockClusterManagerCLI{clusters: []domain.Cluster{
		{Key: "acme", Kind: domain.ClusterDefendant, Label: "Acme Corp.", MemberCount: 12},
		{Key: domain.GlobalClusterEvidence, Kind: domain.ClusterGlobal, Label: "evidence", MemberCount: 4},
	}}
	defer func() { clusterManager = old }()

	out, err := executeCommand("clusters", "matter-1")
	assert.NoError(t, err)
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "12 members")
	assert.Contains(t, out, "Acme Corp.")
}

func TestClustersCmd_Empty(t *testing.T) {
	old := clusterManager
	clusterManager = &mockClusterManagerCLI{}
	defer func() { clusterManager = old }()

	out, err := executeCommand("clusters", "matter-1")
	assert.NoError(t, err)
	assert.Contains(t, out, "No clusters found.")
}

func TestClustersStatsCmd_PrintsStats(t *testing.T) {
	old := clusterManager
	clusterManager = &mockClusterManagerCLI{stats: &domain.ClusterStats{
		Key:            "acme",
		Members:        8,
		MeanSimilarity: 0.81,
		MinSimilarity:  0.55,
		Cohesion:       domain.CohesionTight,
	}}
	defer func() { clusterManager = old }()

	out, err := executeCommand("clusters", "stats", "matter-1", "acme")
	assert.NoError(t, err)
	assert.Contains(t, out, "Cluster acme")
	assert.Contains(t, out, "Members:         8")
	assert.Contains(t, out, string(domain.CohesionTight))
}

func TestClustersCmd_NotConfigured(t *testing.T) {
	old := clusterManager
	clusterManager = nil
	defer func() { clusterManager = old }()

	_, err := executeCommand("clusters", "matter-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
