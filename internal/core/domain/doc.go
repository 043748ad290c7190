// Package domain defines the core business entities for memoir question answering.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Memoir: One logical document identified by title and author
//   - Chunk: An ordered segment of a memoir, the unit of indexing and retrieval
//   - RankedChunk: A chunk returned by the full-text index with its score
//   - Classification: The verdict of the safety gate
//   - Answer: The result of one pass through the retrieval pipeline
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
