package tasks

import (
	"fmt"

	"github.com/desertthunder/moodmix/internal/models"
)

// pipelineSteps is the number of provider-backed stages.
const pipelineSteps = 3

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMetadata Phase = iota
	ClassifyMood
	BuildPlaylist
	Completed
	Failed
)

func (p Phase) String() string {
	switch p {
	case FetchMetadata:
		return "fetch_metadata"
	case ClassifyMood:
		return "classify_mood"
	case BuildPlaylist:
		return "build_playlist"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func fetchingMetadataUpdate(song string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    1,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Looking up lyrics for %q...", song),
	}
}

func classifyingMoodUpdate(meta *models.SongMetadata) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyMood,
		Step:    2,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Classifying mood of %s by %s...", meta.Title, meta.Artist),
		Data:    meta,
	}
}

func buildingPlaylistUpdate(mood *models.MoodResult) ProgressUpdate {
	msg := fmt.Sprintf("Searching videos for %s (%.2f)...", mood.Mood, mood.Confidence)
	if mood.Genre != "" {
		msg = fmt.Sprintf("Searching videos for %s %s (%.2f)...", mood.Mood, mood.Genre, mood.Confidence)
	}
	return ProgressUpdate{
		Phase:   BuildPlaylist,
		Step:    3,
		Total:   pipelineSteps,
		Message: msg,
		Data:    mood,
	}
}

func completedUpdate(state *models.PipelineState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Completed,
		Step:    pipelineSteps,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Playlist ready: %d videos", len(state.Playlist)),
		Data:    state,
	}
}

func failedUpdate(step int, state *models.PipelineState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    step,
		Total:   pipelineSteps,
		Message: "✗ " + state.Error,
		Data:    state,
	}
}
