// Package repositories implements SQLite persistence for the morning routine.
//
// Key Implementations:
//   - [KVRepository] : JSON documents by key with per-key versions for compare-and-swap
//   - [CompletionRepository] : append-only history of every task completion
//   - [Store] : typed, failure-swallowing facade used by the game and the CLI
//
// Counters are updated through [KVRepository.Update], which re-reads and
// retries when another process wrote the same key in between, so the TUI
// and the HTTP server can share one database file without losing updates.
package repositories
