package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillframe/contexta/internal/core/domain"
)

var (
	assembleUser       string
	assembleIntent     string
	assembleComplexity string
	assembleFocus      []string
	assembleLimit      int
	assembleJSON       bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [query]",
	Short: "Assemble a context for a query",
	Long: `Assembles relevant content for a free-text query.

Content is retrieved concurrently from semantic search, structured
taxonomy traversal and the recommendation engine, then merged by
relevance into one deterministic context. Repeated identical queries
are served from the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleUser, "user", "u", "", "user identifier for history and cache scoping")
	assembleCmd.Flags().StringVar(&assembleIntent, "intent", "", "query intent (default \"general\")")
	assembleCmd.Flags().StringVar(&assembleComplexity, "complexity", "", "content level: basic, intermediate or advanced")
	assembleCmd.Flags().StringSliceVar(&assembleFocus, "focus", nil, "focus areas restricting structured content")
	assembleCmd.Flags().IntVarP(&assembleLimit, "limit", "n", 0, "maximum number of content chunks")
	assembleCmd.Flags().BoolVar(&assembleJSON, "json", false, "output the context as JSON")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if assemblyService == nil {
		return errors.New("assembly service not configured")
	}

	query := domain.ContentQuery{
		Query:  args[0],
		Intent: assembleIntent,
		User: domain.UserContext{
			UserID:     assembleUser,
			Complexity: domain.ParseComplexity(assembleComplexity),
			FocusAreas: assembleFocus,
		},
		MaxResults: assembleLimit,
	}

	assembled, err := assemblyService.Assemble(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	if assembleJSON {
		data, err := json.MarshalIndent(assembled, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal context: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(assemblyService.Format(assembled))
	return nil
}
