package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	RunningView
	StoringView
	ResultView
	SongsView
)

// Storage is the storage resource as seen by the TUI. A nil Storage disables storing and browsing.
type Storage interface {
	tasks.EntryStore
	ListSongs(ctx context.Context) ([]*models.PlaylistEntry, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	prevView ViewState
	engine   tasks.Engine
	storage  Storage
	logger   *log.Logger
	width    int
	height   int

	input   textinput.Model
	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap

	song         string
	progressChan chan tasks.ProgressUpdate
	doneChan     chan *models.PipelineState
	progress     tasks.ProgressUpdate
	state        *models.PipelineState
	outcomes     []tasks.StoreOutcome
	results      list.Model
	songs        list.Model
	songsErr     error
	warning      string
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine, storage Storage, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = "e.g., Happier Than Ever"
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	m := &Model{
		ctx:     ctx,
		view:    InputView,
		engine:  engine,
		storage: storage,
		logger:  logger,
		input:   input,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.results = m.newList("Playlist", nil)
	m.songs = m.newList("Stored Songs", nil)
	return m
}

// ViewState returns the current view state.
func (m *Model) ViewState() ViewState {
	return m.view
}

// State returns the last pipeline result, nil before the first run completes.
func (m *Model) State() *models.PipelineState {
	return m.state
}

// Init starts the cursor blinking in the song input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-10)
		m.songs.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case RunningView, StoringView:
			if key.Matches(msg, m.keys.abort) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		case SongsView:
			return m.handleSongsKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != RunningView && m.view != StoringView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgPipelineComplete:
		m.progressChan, m.doneChan = nil, nil
		m.state = msg.data.(*models.PipelineState)
		if m.state.Failed() {
			m.logger.Warn("pipeline failed", "song", m.song, "error", m.state.Error)
		}
		if m.state.Failed() || m.state.NoSongsFound() || m.storage == nil {
			m.showResults()
			return m, nil
		}
		m.view = StoringView
		return m, tea.Batch(m.spinner.Tick, m.storeEntries(m.state.Entries()))

	case MsgEntriesStored:
		m.outcomes = msg.data.([]tasks.StoreOutcome)
		m.logger.Info("entries stored", "song", m.song, "stored", tasks.CountStored(m.outcomes), "total", len(m.outcomes))
		m.showResults()
		return m, nil

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		m.songsErr = data.err
		m.songs = m.newList("Stored Songs", songItems(data.songs))
		m.view = SongsView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case RunningView:
		return m.renderRunning()
	case StoringView:
		return m.renderStoring()
	case ResultView:
		return m.renderResult()
	case SongsView:
		return m.renderSongs()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.abort), key.Matches(msg, m.keys.back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		song := strings.TrimSpace(m.input.Value())
		if song == "" {
			m.warning = "Please enter a song title."
			return m, nil
		}
		m.warning = ""
		m.song = song
		m.view = RunningView
		return m, m.startPipeline(song)
	case msg.Type == tea.KeyTab && m.storage != nil:
		m.prevView = InputView
		return m, m.fetchSongs()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.reset()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.songs) && m.storage != nil:
		m.prevView = ResultView
		return m, m.fetchSongs()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleSongsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.prevView
		return m, nil
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.input, cmd = m.input.Update(msg)
	case ResultView:
		m.results, cmd = m.results.Update(msg)
	case SongsView:
		m.songs, cmd = m.songs.Update(msg)
	}
	return m, cmd
}

// reset returns to an empty input view.
func (m *Model) reset() {
	m.view = InputView
	m.song = ""
	m.state = nil
	m.outcomes = nil
	m.progress = tasks.ProgressUpdate{}
	m.warning = ""
	m.input.Reset()
	m.input.Focus()
}

func (m *Model) showResults() {
	m.view = ResultView
	if m.state != nil {
		m.results = m.newList("Playlist", videoItems(m.state, m.outcomes))
	}
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(len(items) > 0)
	width, height := m.width-4, m.height-10
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 20
	}
	l.SetSize(width, height)
	return l
}

func (m *Model) startPipeline(song string) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan *models.PipelineState, 1)
	m.progressChan, m.doneChan = progress, done
	m.state, m.outcomes = nil, nil

	go func() {
		done <- m.engine.Run(m.ctx, song, progress)
		close(progress)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return pipelineCompleteMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) storeEntries(entries []*models.PlaylistEntry) tea.Cmd {
	return func() tea.Msg {
		return entriesStoredMsg(tasks.StoreEntries(m.ctx, m.storage, entries))
	}
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.storage.ListSongs(m.ctx)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) renderInput() string {
	title := styles.title.Render("🎵 Song Mood Playlist Generator")

	var warning string
	if m.warning != "" {
		warning = "\n" + styles.warn.Render(m.warning) + "\n"
	}

	helpKeys := []key.Binding{m.keys.submit, m.keys.back}
	if m.storage != nil {
		helpKeys = append(helpKeys, key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "stored songs")))
	}

	return fmt.Sprintf("%s\nEnter a song title:\n\n%s\n%s\n%s", title, m.input.View(), warning, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderRunning() string {
	title := styles.title.Render(fmt.Sprintf("Generating playlist for %q", m.song))

	var percent float64
	if m.progress.Total > 0 {
		percent = float64(m.progress.Step-1) / float64(m.progress.Total)
	}

	message := m.progress.Message
	if message == "" {
		message = "Processing..."
	}

	return fmt.Sprintf("%s\n%s %s\n\n%s", title, m.spinner.View(), message, m.bar.ViewAs(percent))
}

func (m *Model) renderStoring() string {
	title := styles.title.Render(fmt.Sprintf("Generating playlist for %q", m.song))
	return fmt.Sprintf("%s\n%s Storing %d songs...\n\n%s", title, m.spinner.View(), len(m.state.Playlist), m.bar.ViewAs(1))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	if m.storage != nil {
		helpKeys = append(helpKeys, m.keys.songs)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.state == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	if m.state.Failed() {
		return fmt.Sprintf("%s\n%s\n\n%s",
			styles.err.Render("✗ "+m.state.Error),
			styles.help.Render("Please check your API keys in the .env file"),
			helpView,
		)
	}

	title := styles.ok.Render("✓ Playlist generated successfully!")
	info := fmt.Sprintf("Artist: %s\nMood: %s (Confidence: %.2f)", m.state.Artist, styles.Mood(m.state.Mood), m.state.MoodConfidence)
	if m.state.Genre != "" {
		info += fmt.Sprintf("\nGenre: %s", m.state.Genre)
	}

	if m.state.NoSongsFound() {
		return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, info, styles.warn.Render("No songs found for this playlist."), helpView)
	}

	var summary string
	if len(m.outcomes) > 0 {
		stored := tasks.CountStored(m.outcomes)
		style := styles.ok
		if stored < len(m.outcomes) {
			style = styles.warn
		}
		summary = "\n" + style.Render(fmt.Sprintf("Stored %d/%d songs", stored, len(m.outcomes)))
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s\n%s", title, info, summary, m.results.View(), helpView)
}

func (m *Model) renderSongs() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.songsErr != nil {
		msg := fmt.Sprintf("Failed to fetch songs: %v", m.songsErr)
		if errors.Is(m.songsErr, shared.ErrServiceUnavailable) {
			msg = "❌ Backend server not running. Please start it with: moodmix api"
		}
		return styles.err.Render(msg) + "\n\n" + helpView
	}

	if len(m.songs.Items()) == 0 {
		return styles.help.Render("No songs stored yet.") + "\n\n" + helpView
	}

	return fmt.Sprintf("%s\n%s", m.songs.View(), helpView)
}
