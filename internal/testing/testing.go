// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
)

// MockFetcher is a test double for [services.MetadataFetcher]
type MockFetcher struct {
	Song  *models.SongMetadata
	Err   error
	Calls int
}

func (m *MockFetcher) FetchSong(ctx context.Context, title string) (*models.SongMetadata, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Song, nil
}

func (m *MockFetcher) Name() string { return "mock-fetcher" }

// MockClassifier is a test double for [services.MoodClassifier]
type MockClassifier struct {
	Result *models.MoodResult
	Err    error
	Calls  int
	Lyrics string // last lyrics received
}

func (m *MockClassifier) Classify(ctx context.Context, lyrics string) (*models.MoodResult, error) {
	m.Calls++
	m.Lyrics = lyrics
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockClassifier) Name() string { return "mock-classifier" }

// MockBuilder is a test double for [services.PlaylistBuilder]
type MockBuilder struct {
	Videos []models.Video
	Err    error
	Calls  int
	Mood   string
	Genre  string
}

func (m *MockBuilder) BuildPlaylist(ctx context.Context, mood, genre string) ([]models.Video, error) {
	m.Calls++
	m.Mood, m.Genre = mood, genre
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Videos, nil
}

func (m *MockBuilder) Name() string { return "mock-builder" }

// MemoryRepository is an in-memory [models.Repository].
type MemoryRepository struct {
	mu        sync.Mutex
	entries   []*models.PlaylistEntry
	CreateErr error
	ListErr   error
}

func (r *MemoryRepository) Create(ctx context.Context, entry *models.PlaylistEntry) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = fmt.Sprintf("entry-%d", len(r.entries)+1)
	entry.CreatedAt = time.Date(2025, 1, 1, 0, 0, len(r.entries), 0, time.UTC)
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.PlaylistEntry, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.PlaylistEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// MockStore is a test double for the storage client. Errs maps entry titles to the error returned for them.
type MockStore struct {
	mu      sync.Mutex
	Errs    map[string]error
	Stored  []*models.PlaylistEntry
	Entries []*models.PlaylistEntry // returned by ListSongs
	ListErr error
	PingErr error
}

func (m *MockStore) CreateSong(ctx context.Context, entry *models.PlaylistEntry) (*models.PlaylistEntry, error) {
	if err := m.Errs[entry.Title]; err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *entry
	stored.ID = fmt.Sprintf("stored-%d", len(m.Stored)+1)
	m.Stored = append(m.Stored, &stored)
	return &stored, nil
}

func (m *MockStore) ListSongs(ctx context.Context) ([]*models.PlaylistEntry, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Entries, nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// SampleSong returns metadata for a well-known song.
func SampleSong() *models.SongMetadata {
	return &models.SongMetadata{
		Title:  "Happier Than Ever",
		Artist: "Billie Eilish",
		Lyrics: "When I'm away from you\nI'm happier than ever",
		URL:    "https://genius.com/Billie-eilish-happier-than-ever-lyrics",
	}
}

// SampleVideos returns n videos with distinct URLs.
func SampleVideos(n int) []models.Video {
	videos := make([]models.Video, 0, n)
	for i := range n {
		id := string(rune('a' + i))
		videos = append(videos, models.Video{
			Title: "Video " + id,
			URL:   "https://www.youtube.com/watch?v=" + id,
		})
	}
	return videos
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
