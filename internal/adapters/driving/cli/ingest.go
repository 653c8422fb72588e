package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [matter-id]",
	Short: "Ingest the matter's intake documents",
	Long: `Runs a full intake pass: every document in the matter's intake
directory is normalised, chunked, embedded, categorised and routed into
its cluster.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var watchCmd = &cobra.Command{
	Use:   "watch [matter-id]",
	Short: "Watch the intake directory for changes",
	Long: `Processes intake changes continuously. New and modified documents
are re-ingested, deleted documents are removed. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	matterID := args[0]
	cmd.Printf("Ingesting matter %s...\n", matterID)

	if err := ingestWithProgress(context.Background(), cmd, ingestOrchestrator, matterID); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println("Ingest complete.")
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	matterID := args[0]
	cmd.Printf("Watching intake for matter %s (Ctrl-C to stop)...\n", matterID)

	if err := ingestOrchestrator.Watch(cmd.Context(), matterID); err != nil &&
		!errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// ingestWithProgress runs the ingest while displaying progress updates.
func ingestWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orchestrator driving.IngestOrchestrator,
	matterID string,
) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- orchestrator.Ingest(ctx, matterID)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Final status is best effort.
			status, statusErr := orchestrator.Status(ctx, matterID)
			if statusErr == nil && status != nil && status.DocumentsProcessed > 0 {
				cmd.Printf("\rProcessed %d documents (%d errors)\n",
					status.DocumentsProcessed, status.ErrorCount)
			}
			return err
		case <-ticker.C:
			status, statusErr := orchestrator.Status(ctx, matterID)
			if statusErr == nil && status != nil && status.DocumentsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d documents", status.DocumentsProcessed)
				lastCount = status.DocumentsProcessed
			}
		}
	}
}
