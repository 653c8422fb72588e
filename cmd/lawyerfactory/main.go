// Command lawyerfactory is the CLI entry point. It wires the storage,
// AI, and connector adapters into the core services and hands them to
// the cobra command tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/ai"
	configfile "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/config/file"
	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/vector/memory"
	"github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driving/cli"
	"github.com/Demothedread/lawyerfactory-sub004/internal/connectors/filesystem"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/services"
	"github.com/Demothedread/lawyerfactory-sub004/internal/normalisers"
	"github.com/Demothedread/lawyerfactory-sub004/internal/normalisers/docx"
	"github.com/Demothedread/lawyerfactory-sub004/internal/normalisers/pdf"
	"github.com/Demothedread/lawyerfactory-sub004/internal/normalisers/plaintext"
	"github.com/Demothedread/lawyerfactory-sub004/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := cfg.GetString("storage.data_dir")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(home, ".lawyerfactory", "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	vectorIndex := vectormem.NewIndex()
	defer vectorIndex.Close()

	// AI services are optional: without them ingest still normalises and
	// categorises, and commands that need embeddings or an LLM fail with
	// a clear error.
	embeddingSvc, err := ai.CreateAndValidateEmbeddingService(ai.EmbeddingSettingsFromConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		embeddingSvc = nil
	}
	if embeddingSvc != nil {
		defer embeddingSvc.Close()
	}

	llmSvc, err := ai.CreateAndValidateLLMService(ai.LLMSettingsFromConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		llmSvc = nil
	}
	if llmSvc != nil {
		defer llmSvc.Close()
	}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())

	pipeline := postprocessors.DefaultPipeline()
	connectorFactory := filesystem.NewFactory()

	matterSvc := services.NewMatterService(store.MatterStore(), store.ClusterStore())
	clusterSvc := services.NewClusterService(store.ClusterStore(), store.DocumentStore(), vectorIndex, embeddingSvc)
	categoriser := services.NewCategoriser(store.MatterStore(), store.DocumentStore(), clusterSvc)
	ingestSvc := services.NewIngestService(
		store.MatterStore(),
		store.DocumentStore(),
		connectorFactory,
		registry,
		pipeline,
		embeddingSvc,
		categoriser,
		clusterSvc,
	)

	queue := services.NewEvidenceQueue(
		services.EvidenceQueueConfig{
			Workers: cfg.GetInt("evidence.workers"),
			Buffer:  cfg.GetInt("evidence.buffer"),
		},
		store.EvidenceStore(),
		store.DocumentStore(),
		registry,
		pipeline,
		clusterSvc,
	)

	validatorCfg := services.DefaultValidatorConfig()
	if threshold := cfg.GetFloat("validator.threshold"); threshold > 0 {
		validatorCfg.Threshold = threshold
	}
	validator := services.NewValidator(
		validatorCfg,
		store.MatterStore(),
		store.DraftStore(),
		store.DocumentStore(),
		pipeline,
		clusterSvc,
	)

	draftingCfg := services.DefaultDraftingConfig()
	if revisions := cfg.GetInt("drafting.max_revisions"); revisions > 0 {
		draftingCfg.MaxRevisions = revisions
	}
	drafting := services.NewDraftingService(
		draftingCfg,
		store.MatterStore(),
		store.DraftStore(),
		llmSvc,
		clusterSvc,
		validator,
	)

	prompts, err := configfile.NewPromptStore(cfg.GetString("drafting.prompt_dir"))
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}
	drafting.SetPromptStore(prompts)

	cli.SetServices(cli.Services{
		Matter:      matterSvc,
		Ingest:      ingestSvc,
		Categoriser: categoriser,
		Clusters:    clusterSvc,
		Evidence:    queue,
		Drafting:    drafting,
		Validator:   validator,
	})
	cli.SetVersion(version)

	return cli.Execute()
}
