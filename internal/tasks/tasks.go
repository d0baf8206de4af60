// package tasks implements the song mood pipeline.
//
// The core abstraction is Engine, which turns a song title into a mood-matched playlist.
// Runs emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Engine runs the pipeline for a single song.
type Engine interface {
	// Run returns the final state: either Error is set, or Artist, Mood, MoodConfidence, Genre and Playlist are.
	Run(ctx context.Context, song string, progress chan<- ProgressUpdate) *models.PipelineState
}

// metadataResult is the output of the metadata stage.
type metadataResult struct {
	artist string
	lyrics string
}

// moodResult is the output of the mood stage.
type moodResult struct {
	mood       string
	confidence float64
	genre      string
}

// playlistResult is the output of the playlist stage.
type playlistResult struct {
	videos []models.Video
}

// MoodEngine implements [Engine] with one provider per stage.
type MoodEngine struct {
	fetcher    services.MetadataFetcher
	classifier services.MoodClassifier
	builder    services.PlaylistBuilder
	logger     *log.Logger
}

// NewMoodEngine creates a new MoodEngine with the provided services.
// A nil logger discards log output.
func NewMoodEngine(fetcher services.MetadataFetcher, classifier services.MoodClassifier, builder services.PlaylistBuilder, logger *log.Logger) *MoodEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &MoodEngine{
		fetcher:    fetcher,
		classifier: classifier,
		builder:    builder,
		logger:     logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *MoodEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes metadata → mood → playlist in order, stopping at the first failure.
func (e *MoodEngine) Run(ctx context.Context, song string, progress chan<- ProgressUpdate) *models.PipelineState {
	state := models.NewPipelineState(song)
	logger := shared.WithLogger(e.logger, "song", song)

	fail := func(step int, err error) *models.PipelineState {
		state.Error = err.Error()
		state.Stage = models.StageFailed
		logger.Warn("pipeline failed", "step", step, "error", err)
		e.sendProgress(progress, failedUpdate(step, state))
		return state
	}

	e.sendProgress(progress, fetchingMetadataUpdate(song))
	meta, err := e.fetchMetadata(ctx, state)
	if err != nil {
		return fail(1, err)
	}
	state.Artist = meta.artist
	state.Lyrics = meta.lyrics
	state.Stage = models.StageMetadataFetched
	logger.Debug("metadata fetched", "artist", meta.artist, "lyrics_len", len(meta.lyrics))

	e.sendProgress(progress, classifyingMoodUpdate(&models.SongMetadata{Title: song, Artist: state.Artist}))
	mood, err := e.classifyMood(ctx, state)
	if err != nil {
		return fail(2, err)
	}
	state.Mood = mood.mood
	state.MoodConfidence = mood.confidence
	state.Genre = mood.genre
	state.Stage = models.StageMoodClassified
	logger.Debug("mood classified", "mood", mood.mood, "confidence", mood.confidence, "genre", mood.genre)

	e.sendProgress(progress, buildingPlaylistUpdate(&models.MoodResult{Mood: mood.mood, Confidence: mood.confidence, Genre: mood.genre}))
	playlist, err := e.buildPlaylist(ctx, state)
	if err != nil {
		return fail(3, err)
	}
	state.Playlist = playlist.videos
	state.Stage = models.StagePlaylistBuilt

	state.Stage = models.StageDone
	logger.Info("playlist built", "mood", state.Mood, "videos", len(state.Playlist))
	e.sendProgress(progress, completedUpdate(state))

	return state
}

func (e *MoodEngine) fetchMetadata(ctx context.Context, state *models.PipelineState) (*metadataResult, error) {
	if strings.TrimSpace(state.Song) == "" {
		return nil, fmt.Errorf("%w: please enter a song title", shared.ErrInvalidInput)
	}
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: metadata service not initialized", shared.ErrServiceUnavailable)
	}

	meta, err := e.fetcher.FetchSong(ctx, strings.TrimSpace(state.Song))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailure, err)
	}
	if meta == nil || strings.TrimSpace(meta.Artist) == "" || strings.TrimSpace(meta.Lyrics) == "" {
		return nil, shared.ErrFetchFailure
	}

	return &metadataResult{artist: meta.Artist, lyrics: meta.Lyrics}, nil
}

func (e *MoodEngine) classifyMood(ctx context.Context, state *models.PipelineState) (*moodResult, error) {
	if strings.TrimSpace(state.Lyrics) == "" {
		return nil, fmt.Errorf("%w: no lyrics to classify", shared.ErrClassificationFailure)
	}
	if e.classifier == nil {
		return nil, fmt.Errorf("%w: mood service not initialized", shared.ErrServiceUnavailable)
	}

	res, err := e.classifier.Classify(ctx, state.Lyrics)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrClassificationFailure, err)
	}
	if res == nil || strings.TrimSpace(res.Mood) == "" {
		return nil, fmt.Errorf("%w: empty mood", shared.ErrClassificationFailure)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", shared.ErrClassificationFailure, res.Confidence)
	}

	return &moodResult{mood: strings.TrimSpace(res.Mood), confidence: res.Confidence, genre: strings.TrimSpace(res.Genre)}, nil
}

func (e *MoodEngine) buildPlaylist(ctx context.Context, state *models.PipelineState) (*playlistResult, error) {
	if strings.TrimSpace(state.Mood) == "" {
		return nil, fmt.Errorf("%w: no mood to search for", shared.ErrInvalidInput)
	}
	if e.builder == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	videos, err := e.builder.BuildPlaylist(ctx, state.Mood, state.Genre)
	if err != nil {
		return nil, fmt.Errorf("failed to build playlist: %w", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}

	return &playlistResult{videos: videos}, nil
}
