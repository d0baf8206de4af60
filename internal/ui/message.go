package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgPipelineComplete
	MsgEntriesStored
	MsgSongsFetched
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// pipelineCompleteMsg is the constructor for [MsgPipelineComplete]
func pipelineCompleteMsg(state *models.PipelineState) Msg {
	return Msg{kind: MsgPipelineComplete, data: state}
}

// entriesStoredMsg is the constructor for [MsgEntriesStored]
func entriesStoredMsg(outcomes []tasks.StoreOutcome) Msg {
	return Msg{kind: MsgEntriesStored, data: outcomes}
}

type songsFetched struct {
	songs []*models.PlaylistEntry
	err   error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []*models.PlaylistEntry, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{songs, err}}
}
