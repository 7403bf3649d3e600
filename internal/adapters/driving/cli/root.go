// Package cli implements the Contexta command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillframe/contexta/internal/adapters/driven/config/file"
	"github.com/quillframe/contexta/internal/adapters/driven/search/bleve"
	"github.com/quillframe/contexta/internal/adapters/driven/search/remote"
	"github.com/quillframe/contexta/internal/adapters/driven/storage/sqlite"
	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/core/ports/driving"
	"github.com/quillframe/contexta/internal/core/services"
	"github.com/quillframe/contexta/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

var (
	verboseFlag bool
	dataDir     string
	configDir   string
)

// Services shared by the commands. Wired lazily by initServices; tests
// inject fakes directly.
var (
	assemblyService driving.AssemblyService
	configStore     driven.ConfigStore
	store           *sqlite.Store
	searchBackend   driven.SearchBackend
)

var rootCmd = &cobra.Command{
	Use:   "contexta",
	Short: "Assemble relevant impact-measurement content for a query",
	Long: `Contexta retrieves and assembles impact-measurement content.

Given a free-text query it searches the content taxonomy through
multiple sources in parallel (semantic search, structured traversal,
recommendations), merges the results by relevance, and renders a
single assembled context. Results are cached and invalidated by tag
when the underlying data changes.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.contexta/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.contexta)")
}

// Execute runs the root command and releases resources on exit.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

// initServices opens storage and builds the assembly service. Commands
// call it on first use; a service injected by tests short-circuits it.
func initServices(ctx context.Context) error {
	if assemblyService != nil {
		return nil
	}

	logger.Section("Initialisation")

	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg
	logger.Debug("Config loaded from %s", cfg.Path())

	s, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = s
	logger.Debug("Store opened at %s", s.Path())

	backend, err := buildSearchBackend(ctx)
	if err != nil {
		// Search is optional: without a backend the engine degrades to
		// structured traversal and basic text search.
		logger.Warn("Search backend unavailable: %v", err)
		backend = nil
	}
	searchBackend = backend

	engineCfg := services.EngineConfigFromStore(cfg)
	assemblyService = services.NewAssemblyService(s.TaxonomyStore(), backend, s.CacheStore(), engineCfg)
	return nil
}

// buildSearchBackend selects the search backend: a remote service when
// search.remote_url is configured, otherwise a local in-memory bleve
// index built from the stored taxonomy.
func buildSearchBackend(ctx context.Context) (driven.SearchBackend, error) {
	if url := configStore.GetString("search.remote_url"); url != "" {
		logger.Debug("Using remote search backend at %s", url)
		return remote.NewBackend(remote.Config{
			BaseURL:   url,
			APIKey:    configStore.GetString("search.api_key"),
			RateLimit: configStore.GetFloat("search.rate_limit"),
		})
	}

	backend, err := bleve.NewMemoryBackend()
	if err != nil {
		return nil, err
	}

	bundle, err := store.TaxonomyStore().Traverse(ctx, driven.TraversalFilter{
		Complexity: domain.ComplexityAdvanced,
	})
	if err != nil {
		backend.Close() //nolint:errcheck
		return nil, err
	}
	if err := backend.IndexTaxonomy(bundle); err != nil {
		backend.Close() //nolint:errcheck
		return nil, err
	}
	logger.Debug("Indexed %d goals and %d indicators", len(bundle.Goals), len(bundle.Indicators))

	return backend, nil
}

// shutdown releases resources opened by initServices.
func shutdown() {
	if searchBackend != nil {
		if err := searchBackend.Close(); err != nil {
			logger.Warn("Closing search backend: %v", err)
		}
		searchBackend = nil
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
		store = nil
	}
}
