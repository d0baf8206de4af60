// package models defines the data model for the mood playlist service
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stage is a state of the mood pipeline state machine.
//
// Start → MetadataFetched → MoodClassified → PlaylistBuilt → Done, with Failed reachable from any non-terminal stage.
type Stage int

const (
	StageStart Stage = iota
	StageMetadataFetched
	StageMoodClassified
	StagePlaylistBuilt
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageMetadataFetched:
		return "metadata_fetched"
	case StageMoodClassified:
		return "mood_classified"
	case StagePlaylistBuilt:
		return "playlist_built"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return ""
	}
}

// Terminal reports whether no further transition can happen from s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Video is a single playlist item.
type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SongMetadata is the output of the metadata stage.
type SongMetadata struct {
	Title  string
	Artist string
	Lyrics string
	URL    string // Provider page the lyrics were read from
}

// MoodResult is the output of the classifier stage.
type MoodResult struct {
	Mood       string
	Confidence float64 // Always within [0, 1]
	Genre      string  // Empty when the classifier made no guess
}

// PipelineState is the per-request record carried through the pipeline.
//
// Only the pipeline engine mutates it. Once Error is set no further stage runs and
// no previously populated field is overwritten.
type PipelineState struct {
	Song           string  `json:"song"`
	Artist         string  `json:"artist,omitempty"`
	Lyrics         string  `json:"-"`
	Mood           string  `json:"mood,omitempty"`
	MoodConfidence float64 `json:"mood_confidence,omitempty"`
	Genre          string  `json:"genre,omitempty"`
	Playlist       []Video `json:"playlist"`
	Error          string  `json:"error,omitempty"`
	Stage          Stage   `json:"-"`
}

// MarshalJSON writes mood_confidence whenever a mood was classified, including a confidence of 0.
func (s PipelineState) MarshalJSON() ([]byte, error) {
	type state PipelineState
	out := struct {
		state
		MoodConfidence *float64 `json:"mood_confidence,omitempty"`
	}{state: state(s)}

	if s.Mood != "" {
		c := s.MoodConfidence
		out.MoodConfidence = &c
	}
	return json.Marshal(out)
}

// NewPipelineState creates the initial state for song.
func NewPipelineState(song string) *PipelineState {
	return &PipelineState{Song: song, Stage: StageStart}
}

// Failed reports whether the pipeline terminated with an error.
func (s *PipelineState) Failed() bool {
	return s.Error != ""
}

// NoSongsFound reports a successful run whose playlist came back empty.
//
// This is distinct from a failure: Error is empty.
func (s *PipelineState) NoSongsFound() bool {
	return s.Stage == StageDone && !s.Failed() && len(s.Playlist) == 0
}

// GenrePtr returns the genre as a pointer, nil when no genre was guessed.
func (s *PipelineState) GenrePtr() *string {
	if s.Genre == "" {
		return nil
	}
	g := s.Genre
	return &g
}

// Entries converts a successful state into one [PlaylistEntry] per video, in playlist order.
func (s *PipelineState) Entries() []*PlaylistEntry {
	if s.Failed() {
		return nil
	}

	entries := make([]*PlaylistEntry, 0, len(s.Playlist))
	for _, v := range s.Playlist {
		entries = append(entries, &PlaylistEntry{
			Query:      s.Song,
			Title:      v.Title,
			Artist:     s.Artist,
			Mood:       s.Mood,
			Genre:      s.GenrePtr(),
			YouTubeURL: v.URL,
			MoodScore:  s.MoodConfidence,
		})
	}
	return entries
}

// PlaylistEntry is a stored playlist item.
type PlaylistEntry struct {
	ID         string    `json:"id,omitempty"`
	Query      string    `json:"query"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Mood       string    `json:"mood"`
	YouTubeURL string    `json:"youtube_url"`
	MoodScore  float64   `json:"mood_score"`
	Genre      *string   `json:"genre"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Validate checks the fields required for storage.
func (e *PlaylistEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(e.Mood) == "" {
		return fmt.Errorf("mood is required")
	}
	if strings.TrimSpace(e.YouTubeURL) == "" {
		return fmt.Errorf("youtube_url is required")
	}
	if e.MoodScore < 0 || e.MoodScore > 1 {
		return fmt.Errorf("mood_score must be between 0 and 1, got %v", e.MoodScore)
	}
	return nil
}

// GenreOr returns the genre or fallback when none is set.
func (e *PlaylistEntry) GenreOr(fallback string) string {
	if e.Genre == nil || *e.Genre == "" {
		return fallback
	}
	return *e.Genre
}

// Repository defines append-only access to stored playlist entries.
type Repository interface {
	Create(ctx context.Context, entry *PlaylistEntry) error // Create appends entry, assigning its ID and CreatedAt
	List(ctx context.Context) ([]*PlaylistEntry, error)     // List returns every entry in insertion order
}
