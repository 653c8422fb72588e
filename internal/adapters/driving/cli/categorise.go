package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriseCmd = &cobra.Command{
	Use:   "categorise [matter-id]",
	Short: "Categorise uncategorised documents",
	Long: `Classifies every uncategorised document in the matter by type,
authority level and defendant, and routes each into its cluster.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategorise,
}

func init() {
	rootCmd.AddCommand(categoriseCmd)
}

func runCategorise(cmd *cobra.Command, args []string) error {
	if categoriserService == nil {
		return errors.New("categoriser service not configured")
	}

	cats, err := categoriserService.CategoriseMatter(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("categorise failed: %w", err)
	}

	if len(cats) == 0 {
		cmd.Println("No uncategorised documents.")
		return nil
	}

	for _, cat := range cats {
		defendant := cat.Defendant
		if defendant == "" {
			defendant = "-"
		}
		cmd.Printf("%-36s  %-10s  %-20s  %-12s  %.2f\n",
			cat.DocumentID, cat.DocType, cat.Authority, defendant, cat.Confidence)
	}
	cmd.Printf("\nCategorised %d documents.\n", len(cats))
	return nil
}
