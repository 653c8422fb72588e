package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

var (
	draftDefendant string
	draftOutputDir string
)

var draftCmd = &cobra.Command{
	Use:   "draft [matter-id]",
	Short: "Draft complaints for a matter",
	Long: `Runs the drafting agents: research over the defendant and authority
clusters, complaint writing from the facts matrix, and validation with
automatic revision. Without --defendant a draft is produced for every
defendant in the matter.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

var validateCmd = &cobra.Command{
	Use:   "validate [draft-id]",
	Short: "Validate a stored draft",
	Long: `Re-runs the validation checks on a stored draft and prints the
report. A passing draft is fed back into its defendant cluster.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	draftCmd.Flags().StringVar(&draftDefendant, "defendant", "", "draft for a single defendant")
	draftCmd.Flags().StringVarP(&draftOutputDir, "output", "o", "", "write draft bodies to this directory")

	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(validateCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	if draftingOrchestrator == nil {
		return errors.New("drafting service not configured")
	}

	ctx := context.Background()
	matterID := args[0]

	if draftDefendant != "" {
		draft, report, err := draftingOrchestrator.Draft(ctx, matterID, draftDefendant)
		if err != nil {
			return fmt.Errorf("draft failed: %w", err)
		}
		return outputDraft(cmd, draft, report)
	}

	results, err := draftingOrchestrator.DraftAll(ctx, matterID)
	if err != nil {
		return fmt.Errorf("draft failed: %w", err)
	}

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			cmd.PrintErrf("Draft failed: %v\n", result.Err)
			continue
		}
		if err := outputDraft(cmd, result.Draft, result.Report); err != nil {
			return err
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d drafts failed", failures, len(results))
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if draftValidator == nil {
		return errors.New("draft validator not configured")
	}

	report, err := draftValidator.Validate(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func outputDraft(cmd *cobra.Command, draft *domain.Draft, report *domain.ValidationReport) error {
	cmd.Printf("Draft %s v%d for %s\n", draft.ID, draft.Version, draft.Defendant)
	printReport(cmd, report)

	if draftOutputDir == "" {
		cmd.Println()
		cmd.Println(draft.Body)
		return nil
	}

	if err := os.MkdirAll(draftOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(draftOutputDir, fmt.Sprintf("complaint-%s-v%d.txt", draft.Defendant, draft.Version))
	if err := os.WriteFile(path, []byte(draft.Body), 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.ValidationReport) {
	if report == nil {
		return
	}
	cmd.Printf("  Score %.2f / threshold %.2f: ", report.Total, report.Threshold)
	if report.Passed {
		cmd.Println("PASSED")
	} else {
		cmd.Println("FAILED")
	}
	for _, check := range report.Checks {
		cmd.Printf("  %-20s %.2f (weight %.2f)\n", check.Name, check.Score, check.Weight)
		for _, finding := range check.Findings {
			cmd.Printf("    - %s\n", finding)
		}
	}
}
