package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	invalidateUser string
	invalidateAll  bool
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Evict cached contexts",
	Long: `Evicts cached contexts by tag.

Use --user to evict every cached context for one user, e.g. after
their underlying data changed externally. Use --all to evict every
cached context.`,
	RunE: runInvalidate,
}

func init() {
	invalidateCmd.Flags().StringVarP(&invalidateUser, "user", "u", "", "evict contexts for this user")
	invalidateCmd.Flags().BoolVar(&invalidateAll, "all", false, "evict every cached context")
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, _ []string) error {
	if invalidateUser == "" && !invalidateAll {
		return errors.New("specify --user or --all")
	}
	if invalidateUser != "" && invalidateAll {
		return errors.New("--user and --all are mutually exclusive")
	}

	if err := initServices(cmd.Context()); err != nil {
		return err
	}
	if assemblyService == nil {
		return errors.New("assembly service not configured")
	}

	var removed int
	var err error
	if invalidateAll {
		removed, err = assemblyService.InvalidateAll(cmd.Context())
	} else {
		removed, err = assemblyService.InvalidateUser(cmd.Context(), invalidateUser)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Evicted %d cached context(s)\n", removed)
	return nil
}
