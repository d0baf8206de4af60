package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	tu "github.com/desertthunder/moodmix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fetcher    *tu.MockFetcher
	classifier *tu.MockClassifier
	builder    *tu.MockBuilder
	store      *tu.MockStore
	server     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		fetcher:    &tu.MockFetcher{Song: tu.SampleSong()},
		classifier: &tu.MockClassifier{Result: &models.MoodResult{Mood: "melancholic", Confidence: 0.87, Genre: "pop"}},
		builder:    &tu.MockBuilder{Videos: tu.SampleVideos(3)},
		store:      &tu.MockStore{},
	}

	engine := tasks.NewMoodEngine(f.fetcher, f.classifier, f.builder, nil)
	creds := []shared.CredentialStatus{
		{Name: "Genius API", Configured: true},
		{Name: "Groq API", Configured: false},
	}
	h, err := NewHandler(engine, f.store, creds, nil)
	require.NoError(t, err)

	f.server = httptest.NewServer(NewServer("", h, nil).Handler)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func (f *fixture) generate(t *testing.T, song string) (int, string) {
	t.Helper()
	resp, err := http.PostForm(f.server.URL+"/generate", url.Values{"song": {song}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestIndex(t *testing.T) {
	t.Run("renders form and sidebar", func(t *testing.T) {
		f := newFixture(t)
		status, body := f.get(t, "/")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Song Mood Playlist Generator")
		assert.Contains(t, body, `name="song"`)
		assert.Contains(t, body, "✅ Genius API: Configured")
		assert.Contains(t, body, "❌ Groq API: Not configured")
		assert.Contains(t, body, "✅ Backend: Running")
		assert.Contains(t, body, "No songs stored yet.")
	})

	t.Run("backend down", func(t *testing.T) {
		f := newFixture(t)
		f.store.PingErr = shared.ErrServiceUnavailable
		f.store.ListErr = shared.ErrServiceUnavailable

		_, body := f.get(t, "/")

		assert.Contains(t, body, "❌ Backend: Not running")
		assert.Contains(t, body, "Backend server not running")
	})

	t.Run("other list failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.ListErr = errors.New("boom")

		_, body := f.get(t, "/")
		assert.Contains(t, body, "Failed to fetch songs: boom")
	})

	t.Run("stored songs", func(t *testing.T) {
		f := newFixture(t)
		genre := "rock"
		f.store.Entries = []*models.PlaylistEntry{
			{Title: "With Genre", Artist: "A", Mood: "happy", YouTubeURL: "https://www.youtube.com/watch?v=a", Genre: &genre},
			{Title: "No Genre", Artist: "B", Mood: "calm", YouTubeURL: "https://www.youtube.com/watch?v=b"},
		}

		_, body := f.get(t, "/")

		assert.Contains(t, body, "<strong>With Genre</strong> by <em>A</em>")
		assert.Contains(t, body, "Genre: <code>rock</code>")
		assert.Contains(t, body, "Genre: <code>N/A</code>")
		assert.NotContains(t, body, "No songs stored yet.")
	})

	t.Run("unknown path", func(t *testing.T) {
		f := newFixture(t)
		status, _ := f.get(t, "/missing")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestGenerate(t *testing.T) {
	t.Run("stores every entry", func(t *testing.T) {
		f := newFixture(t)
		status, body := f.generate(t, "Happier Than Ever")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Playlist generated successfully!")
		assert.Contains(t, body, "<strong>Mood:</strong> melancholic (Confidence: 0.87)")
		assert.Contains(t, body, `<a href="https://www.youtube.com/watch?v=a">Video a</a>`)
		assert.Equal(t, 3, strings.Count(body, "✅ Stored:"))

		require.Len(t, f.store.Stored, 3)
		for i, e := range f.store.Stored {
			assert.Equal(t, "Happier Than Ever", e.Query)
			assert.Equal(t, "Billie Eilish", e.Artist)
			assert.Equal(t, "melancholic", e.Mood)
			assert.Equal(t, 0.87, e.MoodScore)
			assert.Equal(t, "pop", e.GenreOr(""))
			assert.Equal(t, tu.SampleVideos(3)[i].URL, e.YouTubeURL)
		}
	})

	t.Run("one storage failure does not block others", func(t *testing.T) {
		f := newFixture(t)
		f.store.Errs = map[string]error{"Video b": shared.ErrStorageFailure}

		_, body := f.generate(t, "Happier Than Ever")

		assert.Equal(t, 2, strings.Count(body, "✅ Stored:"))
		assert.Contains(t, body, "Error storing Video b")
		assert.Len(t, f.store.Stored, 2)
	})

	t.Run("unreachable storage", func(t *testing.T) {
		f := newFixture(t)
		down := errors.Join(shared.ErrStorageFailure, shared.ErrServiceUnavailable)
		f.store.Errs = map[string]error{"Video a": down, "Video b": down, "Video c": down}

		_, body := f.generate(t, "Happier Than Ever")

		assert.Equal(t, 3, strings.Count(body, "Exception occurred"))
	})

	t.Run("pipeline error is shown and nothing stored", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.Err = shared.ErrTrackNotFound

		_, body := f.generate(t, "zzzz")

		assert.Contains(t, body, shared.ErrFetchFailure.Error())
		assert.Contains(t, body, "Please check your API keys")
		assert.Empty(t, f.store.Stored)
		assert.NotContains(t, body, "Playlist generated successfully!")
	})

	t.Run("empty playlist", func(t *testing.T) {
		f := newFixture(t)
		f.builder.Videos = nil

		_, body := f.generate(t, "Happier Than Ever")

		assert.Contains(t, body, "No songs found for this playlist.")
		assert.Empty(t, f.store.Stored)
	})

	t.Run("empty input", func(t *testing.T) {
		f := newFixture(t)

		_, body := f.generate(t, "   ")

		assert.Contains(t, body, "Please enter a song title.")
		assert.Zero(t, f.fetcher.Calls)
	})

	t.Run("GET redirects to form", func(t *testing.T) {
		f := newFixture(t)
		status, body := f.get(t, "/generate")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `name="song"`)
	})
}
