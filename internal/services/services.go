// package services defines the provider interfaces used by the mood pipeline and their HTTP implementations
//
// Genius (metadata), Groq (mood classification), YouTube (playlist search), storage resource (persistence)
package services

import (
	"context"
	"math"

	"github.com/desertthunder/moodmix/internal/models"
	"golang.org/x/time/rate"
)

// MetadataFetcher looks up the artist and lyrics for a song title.
type MetadataFetcher interface {
	// FetchSong returns metadata for the best match of title.
	// Returns an error wrapping [shared.ErrTrackNotFound] when no song or lyrics exist upstream.
	FetchSong(ctx context.Context, title string) (*models.SongMetadata, error)

	// Name returns the provider name (e.g. "Genius")
	Name() string
}

// MoodClassifier infers a mood label, confidence and optional genre from lyrics.
type MoodClassifier interface {
	// Classify returns the mood of lyrics. Confidence is always within [0, 1].
	// Malformed or empty model output returns an error wrapping [shared.ErrClassificationFailure].
	Classify(ctx context.Context, lyrics string) (*models.MoodResult, error)

	Name() string
}

// PlaylistBuilder searches for videos matching a mood and optional genre.
type PlaylistBuilder interface {
	// BuildPlaylist returns videos in provider order. An empty result is not an error.
	BuildPlaylist(ctx context.Context, mood, genre string) ([]models.Video, error)

	Name() string
}

// newLimiter returns a limiter allowing rps requests per second with a burst of one.
//
// A non-positive rps disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 || math.IsInf(rps, 1) {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
