// Package sqlite persists the embedding index in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// Each index row records the identity it was built from (embedding model,
// chunking parameters, corpus digest). Vectors are stored in insertion order
// with their chunk text and provenance, embeddings as little-endian float32 blobs.
//
// # Data Location
//
// By default, the database is stored at ~/.clinirag/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
