// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TaxonomyStore: Read-only taxonomy traversal and user history
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchBackend: Semantic/keyword search. Without it, assembly relies
//     on the fallback chain (basic text search over the taxonomy).
//   - CacheStore: Tag-invalidated result cache. Without it, every request
//     recomputes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
