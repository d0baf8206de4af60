// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a small workflow around the mood pipeline:
//  1. [InputView] : Enter a song title
//  2. [RunningView] : Spinner and step progress while the pipeline runs
//  3. [StoringView] : Each playlist entry is sent to the storage resource
//  4. [ResultView] : Mood, genre and the playlist with a per-entry storage outcome
//  5. [SongsView] : Browse entries already in storage
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the MoodEngine, providing non-blocking status reporting during a run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
