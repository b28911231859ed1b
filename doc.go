// Package moodvault is the persistence and versioning core of a personal
// mood-tracking application: a schema-less, multi-tenant document store
// that persists check-ins, panic events and configuration as individual
// JSON files on disk, paired with a git-backed version ledger that
// snapshots every accepted mutation as a commit.
//
// The store guarantees crash-safe writes through a temp-and-rename
// algorithm and tolerates malformed files left behind by prior crashes.
// The ledger gives point-in-time recovery and a human-readable change
// history without a custom write-ahead log; its failures are recoverable
// and never invalidate a completed document write.
package moodvault
