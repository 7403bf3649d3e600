// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The assembly pipeline runs: query normalisation, cache lookup,
// concurrent retrieval fan-out (semantic search, taxonomy traversal,
// recommendations), score merging, context assembly, cache store.
// The semantic source degrades through an ordered fallback chain;
// the other sources degrade to empty contributions.
//
// Services are pure Go with no external dependencies.
package services
