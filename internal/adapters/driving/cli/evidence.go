package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

var evidenceTitle string

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Manage the evidence processing queue",
}

var evidenceAddCmd = &cobra.Command{
	Use:   "add [matter-id] [uri...]",
	Short: "Queue evidence files for processing",
	Long: `Queues evidence files. Each item is normalised, classified as
primary or secondary evidence, chunked and routed into the evidence
cluster. The command waits for the queue to drain.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEvidenceAdd,
}

var evidenceStatusCmd = &cobra.Command{
	Use:   "status [matter-id]",
	Short: "Show queue counts for a matter",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvidenceStatus,
}

var evidenceRetryCmd = &cobra.Command{
	Use:   "retry [matter-id] [item-id]",
	Short: "Requeue a failed evidence item",
	Args:  cobra.ExactArgs(2),
	RunE:  runEvidenceRetry,
}

func init() {
	evidenceAddCmd.Flags().StringVar(&evidenceTitle, "title", "", "item title (single file only)")

	evidenceCmd.AddCommand(evidenceAddCmd)
	evidenceCmd.AddCommand(evidenceStatusCmd)
	evidenceCmd.AddCommand(evidenceRetryCmd)
	rootCmd.AddCommand(evidenceCmd)
}

func runEvidenceAdd(cmd *cobra.Command, args []string) error {
	if evidenceQueue == nil {
		return errors.New("evidence queue not configured")
	}

	matterID := args[0]
	uris := args[1:]
	if evidenceTitle != "" && len(uris) > 1 {
		return errors.New("--title applies to a single file")
	}

	ctx := context.Background()
	if err := evidenceQueue.Start(ctx); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}
	defer evidenceQueue.Stop()

	for _, uri := range uris {
		item := &domain.EvidenceItem{MatterID: matterID, URI: uri, Title: evidenceTitle}
		if err := evidenceQueue.Enqueue(ctx, item); err != nil {
			return fmt.Errorf("enqueue %s: %w", uri, err)
		}
		cmd.Printf("Queued %s (%s)\n", uri, item.ID)
	}

	if err := waitForQueue(ctx, matterID); err != nil {
		return err
	}
	return runEvidenceStatus(cmd, []string{matterID})
}

func runEvidenceStatus(cmd *cobra.Command, args []string) error {
	if evidenceQueue == nil {
		return errors.New("evidence queue not configured")
	}

	status, err := evidenceQueue.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("queue status: %w", err)
	}

	cmd.Printf("Queued:     %d\n", status.Queued)
	cmd.Printf("Processing: %d\n", status.Processing)
	cmd.Printf("Classified: %d\n", status.Classified)
	cmd.Printf("Complete:   %d\n", status.Complete)
	cmd.Printf("Failed:     %d\n", status.Failed)
	return nil
}

func runEvidenceRetry(cmd *cobra.Command, args []string) error {
	if evidenceQueue == nil {
		return errors.New("evidence queue not configured")
	}

	ctx := context.Background()
	if err := evidenceQueue.Start(ctx); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}
	defer evidenceQueue.Stop()

	if err := evidenceQueue.Retry(ctx, args[1]); err != nil {
		return fmt.Errorf("retry: %w", err)
	}

	if err := waitForQueue(ctx, args[0]); err != nil {
		return err
	}
	return runEvidenceStatus(cmd, []string{args[0]})
}

// waitForQueue polls until no items are in flight.
func waitForQueue(ctx context.Context, matterID string) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := evidenceQueue.Status(ctx, matterID)
			if err != nil {
				return fmt.Errorf("queue status: %w", err)
			}
			if status.Queued == 0 && status.Processing == 0 && status.Classified == 0 {
				return nil
			}
		}
	}
}
