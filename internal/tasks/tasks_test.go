package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	tu "github.com/desertthunder/moodmix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMocks() (*tu.MockFetcher, *tu.MockClassifier, *tu.MockBuilder) {
	return &tu.MockFetcher{Song: tu.SampleSong()},
		&tu.MockClassifier{Result: &models.MoodResult{Mood: "melancholic", Confidence: 0.87, Genre: "pop"}},
		&tu.MockBuilder{Videos: tu.SampleVideos(3)}
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	close(progress)
	var updates []ProgressUpdate
	for u := range progress {
		updates = append(updates, u)
	}
	return updates
}

func TestMoodEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("successful run", func(t *testing.T) {
		f, c, b := newMocks()
		engine := NewMoodEngine(f, c, b, nil)
		progress := make(chan ProgressUpdate, 10)

		state := engine.Run(ctx, "Happier Than Ever", progress)

		require.False(t, state.Failed(), "unexpected error: %s", state.Error)
		assert.Equal(t, models.StageDone, state.Stage)
		assert.Equal(t, "Happier Than Ever", state.Song)
		assert.Equal(t, "Billie Eilish", state.Artist)
		assert.Equal(t, "melancholic", state.Mood)
		assert.InDelta(t, 0.87, state.MoodConfidence, 1e-9)
		assert.Equal(t, "pop", state.Genre)
		assert.Len(t, state.Playlist, 3)
		assert.False(t, state.NoSongsFound())

		assert.Equal(t, tu.SampleSong().Lyrics, c.Lyrics)
		assert.Equal(t, "melancholic", b.Mood)
		assert.Equal(t, "pop", b.Genre)

		updates := drain(progress)
		require.Len(t, updates, 4)
		assert.Equal(t, FetchMetadata, updates[0].Phase)
		assert.Equal(t, ClassifyMood, updates[1].Phase)
		assert.Equal(t, BuildPlaylist, updates[2].Phase)
		assert.Equal(t, Completed, updates[3].Phase)
	})

	t.Run("entries follow playlist order", func(t *testing.T) {
		f, c, b := newMocks()
		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		entries := state.Entries()
		require.Len(t, entries, 3)
		for i, e := range entries {
			assert.Equal(t, state.Playlist[i].URL, e.YouTubeURL)
			assert.Equal(t, "Happier Than Ever", e.Query)
			assert.Equal(t, "melancholic", e.Mood)
			assert.NoError(t, e.Validate())
		}
	})

	t.Run("empty song title calls no provider", func(t *testing.T) {
		f, c, b := newMocks()
		state := NewMoodEngine(f, c, b, nil).Run(ctx, "   ", nil)

		assert.True(t, state.Failed())
		assert.Equal(t, models.StageFailed, state.Stage)
		assert.Zero(t, f.Calls)
		assert.Zero(t, c.Calls)
		assert.Zero(t, b.Calls)
	})

	t.Run("metadata failure stops pipeline", func(t *testing.T) {
		f, c, b := newMocks()
		f.Err = shared.ErrTrackNotFound
		progress := make(chan ProgressUpdate, 10)

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "zzzz", progress)

		assert.True(t, state.Failed())
		assert.Contains(t, state.Error, shared.ErrFetchFailure.Error())
		assert.Empty(t, state.Artist)
		assert.Empty(t, state.Mood)
		assert.Nil(t, state.Playlist)
		assert.Zero(t, c.Calls)
		assert.Zero(t, b.Calls)

		updates := drain(progress)
		require.NotEmpty(t, updates)
		last := updates[len(updates)-1]
		assert.Equal(t, Failed, last.Phase)
		assert.Equal(t, 1, last.Step)
	})

	t.Run("missing lyrics is a fetch failure", func(t *testing.T) {
		f, c, b := newMocks()
		f.Song = &models.SongMetadata{Title: "Instrumental", Artist: "Band"}

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Instrumental", nil)

		assert.Equal(t, shared.ErrFetchFailure.Error(), state.Error)
		assert.Zero(t, c.Calls)
	})

	t.Run("rejected classifier output leaves mood unset", func(t *testing.T) {
		f, c, b := newMocks()
		c.Err = errors.New("malformed reply")

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		assert.True(t, state.Failed())
		assert.Contains(t, state.Error, shared.ErrClassificationFailure.Error())
		assert.Equal(t, "Billie Eilish", state.Artist, "earlier results are kept")
		assert.Empty(t, state.Mood)
		assert.Zero(t, state.MoodConfidence)
		assert.Nil(t, state.Playlist)
		assert.Zero(t, b.Calls)
	})

	t.Run("out of range confidence is rejected", func(t *testing.T) {
		f, c, b := newMocks()
		c.Result = &models.MoodResult{Mood: "happy", Confidence: 87}

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		assert.True(t, state.Failed())
		assert.Empty(t, state.Mood)
		assert.Zero(t, b.Calls)
	})

	t.Run("playlist failure keeps mood", func(t *testing.T) {
		f, c, b := newMocks()
		b.Err = shared.ErrAPIRequest

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		assert.True(t, state.Failed())
		assert.Equal(t, models.StageFailed, state.Stage)
		assert.Equal(t, "melancholic", state.Mood)
		assert.Nil(t, state.Playlist)
		assert.Nil(t, state.Entries())
	})

	t.Run("empty playlist is not a failure", func(t *testing.T) {
		f, c, b := newMocks()
		b.Videos = nil

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		assert.False(t, state.Failed())
		assert.True(t, state.NoSongsFound())
		assert.NotNil(t, state.Playlist)
		assert.Empty(t, state.Entries())
	})

	t.Run("no genre passes empty genre", func(t *testing.T) {
		f, c, b := newMocks()
		c.Result = &models.MoodResult{Mood: "calm", Confidence: 0.4}

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", nil)

		require.False(t, state.Failed())
		assert.Empty(t, b.Genre)
		assert.Nil(t, state.GenrePtr())
	})

	t.Run("missing services", func(t *testing.T) {
		state := NewMoodEngine(nil, nil, nil, nil).Run(ctx, "Happier Than Ever", nil)
		assert.Contains(t, state.Error, shared.ErrServiceUnavailable.Error())
	})

	t.Run("full channel never blocks", func(t *testing.T) {
		f, c, b := newMocks()
		progress := make(chan ProgressUpdate)

		state := NewMoodEngine(f, c, b, nil).Run(ctx, "Happier Than Ever", progress)
		assert.False(t, state.Failed())
	})
}

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		FetchMetadata: "fetch_metadata",
		ClassifyMood:  "classify_mood",
		BuildPlaylist: "build_playlist",
		Completed:     "completed",
		Failed:        "failed",
		Phase(99):     "",
	}
	for phase, want := range tests {
		assert.Equal(t, want, phase.String())
	}
}

func TestStoreEntries(t *testing.T) {
	entries := []*models.PlaylistEntry{
		{Title: "First", Mood: "happy", YouTubeURL: "u1"},
		{Title: "Second", Mood: "happy", YouTubeURL: "u2"},
		{Title: "Third", Mood: "happy", YouTubeURL: "u3"},
	}

	t.Run("one failure does not block others", func(t *testing.T) {
		store := &tu.MockStore{Errs: map[string]error{
			"Second": shared.ErrStorageFailure,
		}}

		outcomes := StoreEntries(context.Background(), store, entries)

		require.Len(t, outcomes, 3)
		assert.Equal(t, Stored, outcomes[0].Status)
		assert.Equal(t, Rejected, outcomes[1].Status)
		assert.Equal(t, Stored, outcomes[2].Status)
		assert.Len(t, store.Stored, 2)
		assert.Equal(t, 2, CountStored(outcomes))

		assert.Equal(t, "stored-1", outcomes[0].Entry.ID)
		assert.Equal(t, "✅ Stored: First", outcomes[0].Message())
		assert.Contains(t, outcomes[1].Message(), "Error storing Second")
	})

	t.Run("unreachable storage is an exception", func(t *testing.T) {
		unavailable := errors.Join(shared.ErrStorageFailure, shared.ErrServiceUnavailable)
		store := &tu.MockStore{Errs: map[string]error{
			"First": unavailable, "Second": unavailable, "Third": unavailable,
		}}

		outcomes := StoreEntries(context.Background(), store, entries)

		for _, o := range outcomes {
			assert.Equal(t, Exception, o.Status)
			assert.Contains(t, o.Message(), "Exception occurred")
		}
		assert.Zero(t, CountStored(outcomes))
	})

	t.Run("no entries", func(t *testing.T) {
		outcomes := StoreEntries(context.Background(), &tu.MockStore{}, nil)
		assert.Empty(t, outcomes)
	})
}
