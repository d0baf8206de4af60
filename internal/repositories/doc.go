// Package repositories implements SQLite persistence for stored playlist entries.
//
// [SongRepository] implements [models.Repository]: an append-only list with create and list operations.
// Insertion order is kept with a per-table sequence counter rather than timestamps, so entries created
// within the same clock tick still list in the order they were created.
// The [NextSequence] function atomically increments the counter inside the caller's transaction.
package repositories
