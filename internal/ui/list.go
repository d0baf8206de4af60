package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/tasks"
)

var (
	_ list.Item = videoItem{}
	_ list.Item = songItem{}
)

// videoItem wraps a playlist [models.Video] and its storage outcome to implement [list.Item].
type videoItem struct {
	video   models.Video
	outcome *tasks.StoreOutcome
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	if i.outcome == nil {
		return i.video.URL
	}
	switch i.outcome.Status {
	case tasks.Stored:
		return fmt.Sprintf("%s • %s", i.video.URL, styles.ok.Render("stored"))
	case tasks.Rejected:
		return fmt.Sprintf("%s • %s", i.video.URL, styles.warn.Render(fmt.Sprintf("error storing: %v", i.outcome.Err)))
	default:
		return fmt.Sprintf("%s • %s", i.video.URL, styles.err.Render(fmt.Sprintf("exception: %v", i.outcome.Err)))
	}
}

// songItem wraps a stored [models.PlaylistEntry] to implement [list.Item].
type songItem struct {
	entry *models.PlaylistEntry
}

func (i songItem) FilterValue() string { return i.entry.Title }
func (i songItem) Title() string       { return fmt.Sprintf("%s by %s", i.entry.Title, i.entry.Artist) }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • %s • %s", i.entry.Mood, i.entry.GenreOr("N/A"), i.entry.YouTubeURL)
}

func videoItems(state *models.PipelineState, outcomes []tasks.StoreOutcome) []list.Item {
	items := make([]list.Item, len(state.Playlist))
	for i, v := range state.Playlist {
		item := videoItem{video: v}
		if i < len(outcomes) {
			item.outcome = &outcomes[i]
		}
		items[i] = item
	}
	return items
}

func songItems(entries []*models.PlaylistEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = songItem{entry: e}
	}
	return items
}
