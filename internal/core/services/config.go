package services

import (
	"time"

	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Engine defaults. Each value can be overridden through the config store.
const (
	// DefaultMinRelevanceScore is the merge threshold: chunks scoring
	// below it are discarded.
	DefaultMinRelevanceScore = 0.3

	// DefaultStructuredSourceScore is the fixed relevance assigned to
	// taxonomy-traversal results, which carry no semantic ranking.
	DefaultStructuredSourceScore = 0.6

	// DefaultFallbackSourceScore is the fixed relevance assigned to
	// basic-text-search results.
	DefaultFallbackSourceScore = 0.5

	// DefaultSourceTimeout bounds each retrieval branch.
	DefaultSourceTimeout = 3 * time.Second

	// DefaultAssemblyTimeout bounds the whole assembly. When it expires
	// the engine proceeds with whatever branches completed.
	DefaultAssemblyTimeout = 10 * time.Second

	// DefaultCacheTTL is the lifetime of cached contexts.
	DefaultCacheTTL = 30 * time.Minute

	// DefaultMaxTopGoals caps recommended goals.
	DefaultMaxTopGoals = 5

	// DefaultMaxSuggestedIndicators caps suggested indicators.
	DefaultMaxSuggestedIndicators = 5

	// DefaultTraversalFanOut bounds each taxonomy traversal level.
	DefaultTraversalFanOut = 10
)

// EngineConfig holds the assembly engine tunables.
type EngineConfig struct {
	// MinRelevanceScore is the merge threshold in [0,1].
	MinRelevanceScore float64

	// StructuredSourceScore is the fixed score for structured results.
	StructuredSourceScore float64

	// FallbackSourceScore is the fixed score for fallback results.
	FallbackSourceScore float64

	// SourceTimeout bounds each retrieval branch.
	SourceTimeout time.Duration

	// AssemblyTimeout bounds the whole assembly operation.
	AssemblyTimeout time.Duration

	// CacheTTL is the lifetime of cached contexts.
	CacheTTL time.Duration

	// MaxTopGoals caps recommended goals.
	MaxTopGoals int

	// MaxSuggestedIndicators caps suggested indicators.
	MaxSuggestedIndicators int

	// TraversalFanOut bounds each taxonomy traversal level.
	TraversalFanOut int
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinRelevanceScore:      DefaultMinRelevanceScore,
		StructuredSourceScore:  DefaultStructuredSourceScore,
		FallbackSourceScore:    DefaultFallbackSourceScore,
		SourceTimeout:          DefaultSourceTimeout,
		AssemblyTimeout:        DefaultAssemblyTimeout,
		CacheTTL:               DefaultCacheTTL,
		MaxTopGoals:            DefaultMaxTopGoals,
		MaxSuggestedIndicators: DefaultMaxSuggestedIndicators,
		TraversalFanOut:        DefaultTraversalFanOut,
	}
}

// EngineConfigFromStore builds an EngineConfig from a config store,
// falling back to defaults for unset keys.
func EngineConfigFromStore(store driven.ConfigStore) EngineConfig {
	cfg := DefaultEngineConfig()
	if store == nil {
		return cfg
	}

	if v := store.GetFloat("engine.min_relevance_score"); v > 0 {
		cfg.MinRelevanceScore = v
	}
	if v := store.GetFloat("engine.structured_source_score"); v > 0 {
		cfg.StructuredSourceScore = v
	}
	if v := store.GetFloat("engine.fallback_source_score"); v > 0 {
		cfg.FallbackSourceScore = v
	}
	if v := store.GetInt("engine.source_timeout_ms"); v > 0 {
		cfg.SourceTimeout = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt("engine.assembly_timeout_ms"); v > 0 {
		cfg.AssemblyTimeout = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt("engine.cache_ttl_seconds"); v > 0 {
		cfg.CacheTTL = time.Duration(v) * time.Second
	}
	if v := store.GetInt("engine.max_top_goals"); v > 0 {
		cfg.MaxTopGoals = v
	}
	if v := store.GetInt("engine.max_suggested_indicators"); v > 0 {
		cfg.MaxSuggestedIndicators = v
	}
	if v := store.GetInt("engine.traversal_fan_out"); v > 0 {
		cfg.TraversalFanOut = v
	}

	return cfg
}
