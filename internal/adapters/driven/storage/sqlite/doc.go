// Package sqlite provides the SQLite implementation of the memoir store and
// its full-text search index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO and ships with FTS5 enabled. A single database holds:
//
//   - MemoirStore: memoirs, ordered chunks and chunk annotations
//   - SearchIndex: the chunks_fts FTS5 table, ranked with bm25
//
// # Consistency
//
// Chunk inserts and their postings share one transaction, so an ingestion
// is visible in full or not at all. A write that has begun ignores caller
// cancellation and always commits or rolls back.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory and applied once when the store opens.
//
// # Data Location
//
// By default, the database is stored at ~/.memoir/data/memoirs.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. Readers run concurrently
// under WAL; writers are serialised by SQLite.
package sqlite
