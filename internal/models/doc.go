// Package models defines the domain types for the mood playlist service.
//
// The package contains two categories of types:
//
// 1. Pipeline values: short-lived records created per request
//   - [PipelineState] : mutable record threaded through the mood pipeline
//   - [SongMetadata] : artist and lyrics returned by the metadata stage
//   - [MoodResult] : mood label, confidence and genre returned by the classifier stage
//   - [Video] : one (title, url) pair of a generated playlist
//
// 2. Persistent entities
//   - [PlaylistEntry] : a stored playlist row, immutable once created
//
// The [Repository] interface defines the append-only access the storage resource offers.
package models
