// Package domain defines the core business entities for Contexta.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentQuery / NormalisedQuery: A retrieval request and its canonical form
//   - ContentChunk: A scored unit of retrieved content
//   - Category, Theme, StrategicGoal, Indicator, DataRequirement: The taxonomy
//   - RecommendationSet: Personalised guidance for a user
//   - AssembledContext: The final merged bundle
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
