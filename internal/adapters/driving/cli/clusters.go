package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters [matter-id]",
	Short: "List a matter's clusters",
	Long: `Lists the matter's document clusters, defendant clusters first,
with their member counts.`,
	Args: cobra.ExactArgs(1),
	RunE: runClusters,
}

var clustersStatsCmd = &cobra.Command{
	Use:   "stats [matter-id] [cluster-key]",
	Short: "Show cluster quality statistics",
	Args:  cobra.ExactArgs(2),
	RunE:  runClusterStats,
}

func init() {
	clustersCmd.AddCommand(clustersStatsCmd)
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, args []string) error {
	if clusterManager == nil {
		return errors.New("cluster manager not configured")
	}

	clusters, err := clusterManager.List(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list clusters: %w", err)
	}

	if len(clusters) == 0 {
		cmd.Println("No clusters found.")
		return nil
	}

	for i := range clusters {
		cmd.Printf("%-24s  %-10s  %4d members  %s\n",
			clusters[i].Key, clusters[i].Kind, clusters[i].MemberCount, clusters[i].Label)
	}
	return nil
}

func runClusterStats(cmd *cobra.Command, args []string) error {
	if clusterManager == nil {
		return errors.New("cluster manager not configured")
	}

	stats, err := clusterManager.Stats(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("cluster stats: %w", err)
	}

	cmd.Printf("Cluster %s\n", stats.Key)
	cmd.Printf("  Members:         %d\n", stats.Members)
	cmd.Printf("  Mean similarity: %.3f\n", stats.MeanSimilarity)
	cmd.Printf("  Min similarity:  %.3f\n", stats.MinSimilarity)
	cmd.Printf("  Cohesion:        %s\n", stats.Cohesion)
	return nil
}
