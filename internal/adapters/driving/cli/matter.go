package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driving"
)

var (
	intakeCaption      string
	intakePlaintiff    string
	intakeDefendants   []string
	intakeJurisdiction string
	intakeSummary      string
	intakeDir          string

	factsUndisputed []string
	factsDisputed   []string
	factsProcedural []string
	factsMetadata   []string
)

var matterCmd = &cobra.Command{
	Use:   "matter",
	Short: "Manage matters",
	Long:  `Creates and inspects matters, the case files everything else hangs off.`,
}

var matterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a matter from an intake form",
	Long: `Creates a matter from intake details. Each defendant gets its own
document cluster alongside the three global clusters (authority,
procedure, evidence).`,
	RunE: runMatterCreate,
}

var matterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all matters",
	RunE:  runMatterList,
}

var matterFactsCmd = &cobra.Command{
	Use:   "facts [matter-id]",
	Short: "Add facts to a matter",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatterFacts,
}

var matterDeleteCmd = &cobra.Command{
	Use:   "delete [matter-id]",
	Short: "Delete a matter",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatterDelete,
}

func init() {
	matterCreateCmd.Flags().StringVar(&intakeCaption, "caption", "", "case caption (required)")
	matterCreateCmd.Flags().StringVar(&intakePlaintiff, "plaintiff", "", "plaintiff name")
	matterCreateCmd.Flags().StringArrayVar(&intakeDefendants, "defendant", nil, "defendant name (repeatable, at least one required)")
	matterCreateCmd.Flags().StringVar(&intakeJurisdiction, "jurisdiction", "", "jurisdiction")
	matterCreateCmd.Flags().StringVar(&intakeSummary, "summary", "", "cause of action summary")
	matterCreateCmd.Flags().StringVar(&intakeDir, "intake-dir", "", "directory holding intake documents")

	matterFactsCmd.Flags().StringArrayVar(&factsUndisputed, "undisputed", nil, "undisputed fact (repeatable)")
	matterFactsCmd.Flags().StringArrayVar(&factsDisputed, "disputed", nil, "disputed fact (repeatable)")
	matterFactsCmd.Flags().StringArrayVar(&factsProcedural, "procedural", nil, "procedural fact (repeatable)")
	matterFactsCmd.Flags().StringArrayVar(&factsMetadata, "meta", nil, "case metadata as key=value (repeatable)")

	matterCmd.AddCommand(matterCreateCmd)
	matterCmd.AddCommand(matterListCmd)
	matterCmd.AddCommand(matterFactsCmd)
	matterCmd.AddCommand(matterDeleteCmd)
	rootCmd.AddCommand(matterCmd)
}

func runMatterCreate(cmd *cobra.Command, _ []string) error {
	if matterService == nil {
		return errors.New("matter service not configured")
	}

	matter, err := matterService.Create(context.Background(), driving.IntakeForm{
		Caption:      intakeCaption,
		Plaintiff:    intakePlaintiff,
		Defendants:   intakeDefendants,
		Jurisdiction: intakeJurisdiction,
		CauseSummary: intakeSummary,
		IntakeDir:    intakeDir,
	})
	if err != nil {
		return fmt.Errorf("create matter: %w", err)
	}

	cmd.Printf("Created matter %s\n", matter.ID)
	cmd.Printf("  Caption:    %s\n", matter.Caption)
	cmd.Printf("  Defendants: %s\n", strings.Join(matter.Defendants, ", "))
	return nil
}

func runMatterList(cmd *cobra.Command, _ []string) error {
	if matterService == nil {
		return errors.New("matter service not configured")
	}

	matters, err := matterService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list matters: %w", err)
	}

	if len(matters) == 0 {
		cmd.Println("No matters found.")
		return nil
	}

	for i := range matters {
		cmd.Printf("%s  %s (%d defendants)\n",
			matters[i].ID, matters[i].Caption, len(matters[i].Defendants))
	}
	return nil
}

func runMatterFacts(cmd *cobra.Command, args []string) error {
	if matterService == nil {
		return errors.New("matter service not configured")
	}

	facts := domain.FactsMatrix{CaseMetadata: map[string]string{}}
	for _, text := range factsUndisputed {
		facts.UndisputedFacts = append(facts.UndisputedFacts, domain.Fact{Text: text, Source: "intake"})
	}
	for _, text := range factsDisputed {
		facts.DisputedFacts = append(facts.DisputedFacts, domain.Fact{Text: text, Source: "intake"})
	}
	for _, text := range factsProcedural {
		facts.ProceduralFacts = append(facts.ProceduralFacts, domain.Fact{Text: text, Source: "intake"})
	}
	for _, pair := range factsMetadata {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		facts.CaseMetadata[key] = value
	}

	if err := matterService.AddFacts(context.Background(), args[0], facts); err != nil {
		return fmt.Errorf("add facts: %w", err)
	}
	cmd.Println("Facts added.")
	return nil
}

func runMatterDelete(cmd *cobra.Command, args []string) error {
	if matterService == nil {
		return errors.New("matter service not configured")
	}

	if err := matterService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete matter: %w", err)
	}
	cmd.Printf("Deleted matter %s\n", args[0])
	return nil
}
