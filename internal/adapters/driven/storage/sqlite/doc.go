// Package sqlite provides the SQLite implementation of driven.DocumentStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Documents live in a single table whose content column carries a UNIQUE
// constraint; AUTOINCREMENT guarantees IDs are never reused.
//
// # Data Location
//
// By default, the database is stored at ~/.recall/data/recall.db
//
// # Thread Safety
//
// All operations are thread-safe. Writes run in IMMEDIATE transactions so
// the uniqueness check and the insert cannot interleave with another writer.
package sqlite
