// Package tasks runs the song mood pipeline with real-time progress reporting.
//
// # Pipeline
//
// [MoodEngine.Run] takes a song title and drives a [models.PipelineState] through
//
//	Start → MetadataFetched → MoodClassified → PlaylistBuilt → Done
//
// Each stage reads only what earlier stages produced and returns its own result.
// The engine copies a result into the state only when the stage succeeded; the first
// failure sets [models.PipelineState.Error], moves the state to Failed and stops.
//
//  1. Metadata: [services.MetadataFetcher] returns artist and lyrics
//  2. Mood: [services.MoodClassifier] returns mood, confidence and an optional genre
//  3. Playlist: [services.PlaylistBuilder] returns videos for the mood and genre
//
// An empty playlist ends in Done with no error; see [models.PipelineState.NoSongsFound].
//
// # Progress Reporting
//
// Run accepts an optional channel of [ProgressUpdate]. Sends use select with default
// so a slow or absent reader never stalls the pipeline.
package tasks
