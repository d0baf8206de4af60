// package formatter renders pipeline results and stored songs to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Format is an output format name accepted by the --format flags.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// NoSongsMessage is shown for a successful run with an empty playlist.
const NoSongsMessage = "No songs found for this playlist."

// NoStoredSongsMessage is shown when the storage resource is empty.
const NoStoredSongsMessage = "No songs stored yet."

// ParseFormat validates s against allowed. Matching is case-insensitive and "md" is accepted for Markdown.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		f = Markdown
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}

	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("%w: format %q (expected one of %s)", shared.ErrInvalidFlag, s, strings.Join(names, ", "))
}

// StateToText renders a finished pipeline run as plain text.
func StateToText(state *models.PipelineState) ([]byte, error) {
	var buf bytes.Buffer

	if state.Failed() {
		fmt.Fprintf(&buf, "Error: %s\n", state.Error)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Song: %s\n", state.Song)
	fmt.Fprintf(&buf, "Artist: %s\n", state.Artist)
	fmt.Fprintf(&buf, "Mood: %s (Confidence: %.2f)\n", state.Mood, state.MoodConfidence)
	if state.Genre != "" {
		fmt.Fprintf(&buf, "Genre: %s\n", state.Genre)
	}
	buf.WriteString("\n")

	if len(state.Playlist) == 0 {
		buf.WriteString(NoSongsMessage + "\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("Playlist:\n")
	for i, v := range state.Playlist {
		fmt.Fprintf(&buf, "%d. %s\n   %s\n", i+1, v.Title, v.URL)
	}

	return buf.Bytes(), nil
}

// StateToMarkdown renders a finished pipeline run as Markdown.
func StateToMarkdown(state *models.PipelineState) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", state.Song)

	if state.Failed() {
		fmt.Fprintf(&buf, "**Error**: %s\n", state.Error)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "**Artist**: %s\n", state.Artist)
	fmt.Fprintf(&buf, "**Mood**: %s (Confidence: %.2f)\n", state.Mood, state.MoodConfidence)
	if state.Genre != "" {
		fmt.Fprintf(&buf, "**Genre**: %s\n", state.Genre)
	}
	buf.WriteString("\n## Playlist\n\n")

	if len(state.Playlist) == 0 {
		buf.WriteString("_" + NoSongsMessage + "_\n")
		return buf.Bytes(), nil
	}

	for i, v := range state.Playlist {
		fmt.Fprintf(&buf, "%d. [%s](%s)\n", i+1, escapeMarkdownLink(v.Title), v.URL)
	}

	return buf.Bytes(), nil
}

// StateToJSON renders a finished pipeline run as indented JSON. Lyrics are omitted.
func StateToJSON(state *models.PipelineState) ([]byte, error) {
	out := *state
	if out.Playlist == nil {
		out.Playlist = []models.Video{}
	}
	return marshalIndent(out)
}

// SongsToCSV converts stored entries to CSV with columns: ID, Query, Title, Artist, Mood, Genre, Mood Score, YouTube URL, Created At
func SongsToCSV(entries []*models.PlaylistEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Query", "Title", "Artist", "Mood", "Genre", "Mood Score", "YouTube URL", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.ID,
			e.Query,
			e.Title,
			e.Artist,
			e.Mood,
			e.GenreOr(""),
			strconv.FormatFloat(e.MoodScore, 'f', 2, 64),
			e.YouTubeURL,
			formatTime(e.CreatedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SongsToMarkdown converts stored entries to a Markdown list.
func SongsToMarkdown(entries []*models.PlaylistEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Stored Songs\n\n")
	if len(entries) == 0 {
		buf.WriteString("_" + NoStoredSongsMessage + "_\n")
		return buf.Bytes(), nil
	}

	for _, e := range entries {
		fmt.Fprintf(&buf, "- **%s** by *%s*\n", e.Title, e.Artist)
		fmt.Fprintf(&buf, "    - Mood: `%s`\n", e.Mood)
		fmt.Fprintf(&buf, "    - Genre: `%s`\n", e.GenreOr("N/A"))
		fmt.Fprintf(&buf, "    - [YouTube](%s)\n", e.YouTubeURL)
	}

	return buf.Bytes(), nil
}

// SongsToText converts stored entries to plain text.
func SongsToText(entries []*models.PlaylistEntry) ([]byte, error) {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString(NoStoredSongsMessage + "\n")
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Stored songs: %d\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s by %s\n", i+1, e.Title, e.Artist)
		fmt.Fprintf(&buf, "   Mood: %s (%.2f)  Genre: %s\n", e.Mood, e.MoodScore, e.GenreOr("N/A"))
		fmt.Fprintf(&buf, "   %s\n", e.YouTubeURL)
	}

	return buf.Bytes(), nil
}

// SongsToJSON converts stored entries to an indented JSON array.
func SongsToJSON(entries []*models.PlaylistEntry) ([]byte, error) {
	if entries == nil {
		entries = []*models.PlaylistEntry{}
	}
	return marshalIndent(entries)
}

// RenderState dispatches to the state renderer for f.
func RenderState(state *models.PipelineState, f Format) ([]byte, error) {
	switch f {
	case Text:
		return StateToText(state)
	case Markdown:
		return StateToMarkdown(state)
	case JSON:
		return StateToJSON(state)
	default:
		return nil, fmt.Errorf("%w: cannot render a playlist as %q", shared.ErrInvalidFlag, f)
	}
}

// RenderSongs dispatches to the stored songs renderer for f.
func RenderSongs(entries []*models.PlaylistEntry, f Format) ([]byte, error) {
	switch f {
	case Text:
		return SongsToText(entries)
	case Markdown:
		return SongsToMarkdown(entries)
	case CSV:
		return SongsToCSV(entries)
	case JSON:
		return SongsToJSON(entries)
	default:
		return nil, fmt.Errorf("%w: cannot render songs as %q", shared.ErrInvalidFlag, f)
	}
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: empty output path", shared.ErrInvalidArgument)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func escapeMarkdownLink(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
