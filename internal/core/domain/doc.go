// Package domain defines the core business entities for the semantic
// search service.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRef: A document listed from the remote repository
//   - Chunk: A fixed-size text window, the unit of embedding and retrieval
//   - Understanding / ScoredDocument: Resolved query intent and ranked results
//   - BuildStats: The outcome of one index build pass
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
