package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/logger"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Manage the content taxonomy",
}

var taxonomyLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a taxonomy from a JSON file",
	Long: `Loads categories, themes, goals, indicators and data requirements
from a JSON file into the local store. Existing entities with the same
identifiers are replaced, and all cached contexts are evicted so the
new content becomes visible immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaxonomyLoad,
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored taxonomy",
	RunE:  runTaxonomyShow,
}

var (
	historyUser       string
	historyGoals      []string
	historyIndicators []string
)

var taxonomyHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Record a user's goal and indicator selections",
	Long: `Records which goals and indicators a user has adopted. The
recommendation engine uses this history to suggest related-but-unused
content. The user's cached contexts are evicted.`,
	RunE: runTaxonomyHistory,
}

func init() {
	taxonomyHistoryCmd.Flags().StringVarP(&historyUser, "user", "u", "", "user identifier (required)")
	taxonomyHistoryCmd.Flags().StringSliceVar(&historyGoals, "goal", nil, "goal identifiers to record")
	taxonomyHistoryCmd.Flags().StringSliceVar(&historyIndicators, "indicator", nil, "indicator identifiers to record")

	taxonomyCmd.AddCommand(taxonomyLoadCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd)
	taxonomyCmd.AddCommand(taxonomyHistoryCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyLoad(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if store == nil {
		return errors.New("store not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading taxonomy file: %w", err)
	}

	var bundle domain.StructuredContentBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parsing taxonomy file: %w", err)
	}
	if bundle.IsEmpty() {
		return errors.New("taxonomy file holds no entities")
	}

	if err := store.ImportTaxonomy(cmd.Context(), bundle); err != nil {
		return fmt.Errorf("importing taxonomy: %w", err)
	}

	removed, err := store.CacheStore().InvalidateByTags(cmd.Context(), []string{"content"})
	if err != nil {
		logger.Warn("Cache invalidation failed: %v", err)
	}

	cmd.Printf("Loaded %d categories, %d themes, %d goals, %d indicators, %d requirements\n",
		len(bundle.Categories), len(bundle.Themes), len(bundle.Goals),
		len(bundle.Indicators), len(bundle.Requirements))
	if removed > 0 {
		cmd.Printf("Evicted %d cached context(s)\n", removed)
	}
	return nil
}

func runTaxonomyShow(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if store == nil {
		return errors.New("store not configured")
	}

	bundle, err := store.TaxonomyStore().Traverse(cmd.Context(), driven.TraversalFilter{
		Complexity: domain.ComplexityAdvanced,
	})
	if err != nil {
		return fmt.Errorf("reading taxonomy: %w", err)
	}
	if bundle.IsEmpty() {
		cmd.Println("Taxonomy is empty. Load one with: contexta taxonomy load <file>")
		return nil
	}

	printBundle(cmd, bundle)
	return nil
}

// printBundle renders the taxonomy as an indented tree.
func printBundle(cmd *cobra.Command, bundle domain.StructuredContentBundle) {
	goalsByTheme := make(map[string][]domain.StrategicGoal)
	for _, g := range bundle.Goals {
		goalsByTheme[g.ThemeID] = append(goalsByTheme[g.ThemeID], g)
	}
	indicatorsByGoal := make(map[string][]domain.Indicator)
	for _, ind := range bundle.Indicators {
		indicatorsByGoal[ind.GoalID] = append(indicatorsByGoal[ind.GoalID], ind)
	}

	for _, c := range bundle.Categories {
		cmd.Printf("%s (%s)\n", c.Name, c.ID)
		for _, th := range bundle.Themes {
			if th.CategoryID != c.ID {
				continue
			}
			cmd.Printf("  %s (%s)\n", th.Name, th.ID)
			for _, g := range goalsByTheme[th.ID] {
				cmd.Printf("    %s [%s] (%s)\n", g.Name, g.Complexity, g.ID)
				for _, ind := range indicatorsByGoal[g.ID] {
					cmd.Printf("      %s [%s] (%s)\n", ind.Name, ind.Complexity, ind.ID)
				}
			}
		}
	}
}

func runTaxonomyHistory(cmd *cobra.Command, _ []string) error {
	if historyUser == "" {
		return errors.New("--user is required")
	}
	if len(historyGoals) == 0 && len(historyIndicators) == 0 {
		return errors.New("specify at least one --goal or --indicator")
	}

	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if store == nil {
		return errors.New("store not configured")
	}

	err := store.RecordHistory(cmd.Context(), domain.UserHistory{
		UserID:       historyUser,
		GoalIDs:      historyGoals,
		IndicatorIDs: historyIndicators,
	})
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}

	if assemblyService != nil {
		if _, err := assemblyService.InvalidateUser(cmd.Context(), historyUser); err != nil {
			logger.Warn("Cache invalidation failed: %v", err)
		}
	}

	cmd.Printf("Recorded %d goal(s) and %d indicator(s) for %s\n",
		len(historyGoals), len(historyIndicators), historyUser)
	return nil
}
