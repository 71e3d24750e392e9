// Package database provides SQLite-based storage for run history.
//
// This package implements the HistoryDB, which stores:
//   - Completed runs with their classification statistics
//   - Accepted profile records in insertion order
//
// Stored runs back the history and compare commands: past runs can be
// listed per query, reloaded as summaries, and diffed against each other
// by canonical URL.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
