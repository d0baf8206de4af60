// Package services defines the provider interfaces of the mood pipeline and implements them over HTTP.
//
// # Provider Interfaces
//
// Each pipeline stage depends on one interface, so the pipeline can be exercised with test doubles:
//   - [MetadataFetcher] : song title → artist and lyrics
//   - [MoodClassifier] : lyrics → mood, confidence, optional genre
//   - [PlaylistBuilder] : mood and genre → ordered videos
//
// # Genius Implementation
//
// [GeniusService] searches the Genius API with a bearer token (an [oauth2.StaticTokenSource]) and scrapes the
// lyrics from the song page with goquery.
//
// # Groq Implementation
//
// [GroqService] calls an OpenAI-compatible chat completion endpoint through openai-go.
// The reply must contain a JSON object with mood, confidence and genre. Anything else is rejected, never repaired.
//
// # YouTube Implementation
//
// [YouTubeService] calls the YouTube Data API search endpoint and maps results to watch URLs.
//
// # Storage Client
//
// [StorageClient] talks to the storage resource (POST /songs/, GET /songs/) on behalf of the presentation layers.
//
// # Rate Limiting
//
// Every provider call waits on a per-service [rate.Limiter] configured from requests_per_second.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : constructor called without an API key
//   - [shared.ErrTrackNotFound] : no song or lyrics upstream
//   - [shared.ErrClassificationFailure] : malformed or empty model output
//   - [shared.ErrAPIRequest] : non-2xx provider response
//   - [shared.ErrStorageFailure] : storage resource rejected or could not be reached
package services
