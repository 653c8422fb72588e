// Package cli implements the command-line interface.
// Commands are thin wrappers over the driving ports; services are
// injected once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
	"github.com/Demothedread/lawyerfactory-sub004/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services. Commands nil-check the ones they need so a
// partially wired binary degrades with a clear error.
var (
	matterService        driving.MatterService
	ingestOrchestrator   driving.IngestOrchestrator
	categoriserService   driving.CategoriserService
	clusterManager       driving.ClusterManager
	evidenceQueue        driving.EvidenceQueue
	draftingOrchestrator driving.DraftingOrchestrator
	draftValidator       driving.DraftValidator
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lawyerfactory",
	Short: "Legal document pipeline for complaint drafting",
	Long: `lawyerfactory ingests the documents of a legal matter, categorises
them into per-defendant and global clusters, processes evidence, and
drives LLM agents that draft and validate complaint documents.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands depend on.
type Services struct {
	Matter      driving.MatterService
	Ingest      driving.IngestOrchestrator
	Categoriser driving.CategoriserService
	Clusters    driving.ClusterManager
	Evidence    driving.EvidenceQueue
	Drafting    driving.DraftingOrchestrator
	Validator   driving.DraftValidator
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	matterService = s.Matter
	ingestOrchestrator = s.Ingest
	categoriserService = s.Categoriser
	clusterManager = s.Clusters
	evidenceQueue = s.Evidence
	draftingOrchestrator = s.Drafting
	draftValidator = s.Validator
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
