// Package domain defines the core entities of the clinirag pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A corpus file with its display title
//   - PageRecord: Normalised text of one physical page plus provenance
//   - Chunk: A bounded window of page text carrying the page's provenance
//   - IndexedVector: A chunk paired with its embedding
//   - ConversationTurn: One question/answer exchange
//   - QueryResponse: An answer with the sources it was grounded on
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
