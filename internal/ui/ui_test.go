package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	tu "github.com/desertthunder/moodmix/internal/testing"
)

func newTestModel(store Storage) (*Model, *tu.MockFetcher, *tu.MockBuilder) {
	fetcher := &tu.MockFetcher{Song: tu.SampleSong()}
	classifier := &tu.MockClassifier{Result: &models.MoodResult{Mood: "melancholic", Confidence: 0.87, Genre: "pop"}}
	builder := &tu.MockBuilder{Videos: tu.SampleVideos(2)}
	engine := tasks.NewMoodEngine(fetcher, classifier, builder, nil)
	return NewModel(context.Background(), engine, store, nil), fetcher, builder
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

// runToCompletion drains pipeline progress and storage commands until a terminal view is reached.
func runToCompletion(t *testing.T, m *Model) {
	t.Helper()
	for range 20 {
		switch m.ViewState() {
		case RunningView:
			m.Update(m.waitForProgress()())
		case StoringView:
			m.Update(m.storeEntries(m.state.Entries())())
		default:
			return
		}
	}
	t.Fatalf("pipeline did not finish, view %d", m.ViewState())
}

func TestModel(t *testing.T) {
	t.Run("empty title shows warning", func(t *testing.T) {
		m, fetcher, _ := newTestModel(nil)

		press(m, tea.KeyEnter)

		if m.ViewState() != InputView {
			t.Errorf("expected input view, got %d", m.ViewState())
		}
		if !strings.Contains(m.View(), "Please enter a song title.") {
			t.Errorf("expected warning, got:\n%s", m.View())
		}
		if fetcher.Calls != 0 {
			t.Error("fetcher should not be called")
		}
	})

	t.Run("letters are typed into the input", func(t *testing.T) {
		m, _, _ := newTestModel(&tu.MockStore{})

		typeText(m, "qrs")

		if m.input.Value() != "qrs" {
			t.Errorf("expected input qrs, got %q", m.input.Value())
		}
		if m.ViewState() != InputView {
			t.Errorf("expected input view, got %d", m.ViewState())
		}
	})

	t.Run("run and store", func(t *testing.T) {
		store := &tu.MockStore{Errs: map[string]error{"Video b": shared.ErrStorageFailure}}
		m, _, _ := newTestModel(store)

		typeText(m, "Happier Than Ever")
		if cmd := press(m, tea.KeyEnter); cmd == nil {
			t.Fatal("expected a command to start the pipeline")
		}
		if m.ViewState() != RunningView {
			t.Fatalf("expected running view, got %d", m.ViewState())
		}

		runToCompletion(t, m)

		if m.ViewState() != ResultView {
			t.Fatalf("expected result view, got %d", m.ViewState())
		}
		if len(store.Stored) != 1 {
			t.Errorf("expected 1 stored entry, got %d", len(store.Stored))
		}

		view := m.View()
		for _, want := range []string{"Playlist generated successfully!", "Mood: melancholic (Confidence: 0.87)", "Stored 1/2 songs"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view:\n%s", want, view)
			}
		}
	})

	t.Run("without storage results are shown directly", func(t *testing.T) {
		m, _, _ := newTestModel(nil)
		typeText(m, "Happier Than Ever")
		press(m, tea.KeyEnter)

		runToCompletion(t, m)

		if m.ViewState() != ResultView {
			t.Fatalf("expected result view, got %d", m.ViewState())
		}
		if len(m.results.Items()) != 2 {
			t.Errorf("expected 2 result items, got %d", len(m.results.Items()))
		}
	})

	t.Run("pipeline failure", func(t *testing.T) {
		store := &tu.MockStore{}
		m, fetcher, _ := newTestModel(store)
		fetcher.Err = shared.ErrTrackNotFound

		typeText(m, "zzzz")
		press(m, tea.KeyEnter)
		runToCompletion(t, m)

		if !m.State().Failed() {
			t.Fatal("expected failed state")
		}
		if !strings.Contains(m.View(), shared.ErrFetchFailure.Error()) {
			t.Errorf("expected error in view:\n%s", m.View())
		}
		if len(store.Stored) != 0 {
			t.Error("nothing should be stored after a failure")
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		m, _, builder := newTestModel(&tu.MockStore{})
		builder.Videos = nil

		typeText(m, "Happier Than Ever")
		press(m, tea.KeyEnter)
		runToCompletion(t, m)

		if !strings.Contains(m.View(), "No songs found for this playlist.") {
			t.Errorf("expected empty playlist message:\n%s", m.View())
		}
	})

	t.Run("restart", func(t *testing.T) {
		m, _, _ := newTestModel(nil)
		typeText(m, "Happier Than Ever")
		press(m, tea.KeyEnter)
		runToCompletion(t, m)

		pressRune(m, 'r')

		if m.ViewState() != InputView {
			t.Errorf("expected input view, got %d", m.ViewState())
		}
		if m.input.Value() != "" || m.State() != nil {
			t.Error("expected state to be cleared")
		}
	})

	t.Run("quit from results", func(t *testing.T) {
		m, _, _ := newTestModel(nil)
		typeText(m, "Happier Than Ever")
		press(m, tea.KeyEnter)
		runToCompletion(t, m)

		cmd := pressRune(m, 'q')
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("stored songs", func(t *testing.T) {
		store := &tu.MockStore{Entries: []*models.PlaylistEntry{
			{Title: "Stored One", Artist: "A", Mood: "happy", YouTubeURL: "u1"},
		}}
		m, _, _ := newTestModel(store)

		cmd := press(m, tea.KeyTab)
		if cmd == nil {
			t.Fatal("expected fetch command")
		}
		m.Update(cmd())

		if m.ViewState() != SongsView {
			t.Fatalf("expected songs view, got %d", m.ViewState())
		}
		if len(m.songs.Items()) != 1 {
			t.Errorf("expected 1 song, got %d", len(m.songs.Items()))
		}

		press(m, tea.KeyEsc)
		if m.ViewState() != InputView {
			t.Errorf("expected input view after esc, got %d", m.ViewState())
		}
	})

	t.Run("stored songs backend down", func(t *testing.T) {
		m, _, _ := newTestModel(&tu.MockStore{ListErr: shared.ErrServiceUnavailable})

		m.Update(press(m, tea.KeyTab)())

		if !strings.Contains(m.View(), "Backend server not running") {
			t.Errorf("expected backend message:\n%s", m.View())
		}
	})
}

func TestItems(t *testing.T) {
	state := &models.PipelineState{Playlist: tu.SampleVideos(2)}
	outcomes := []tasks.StoreOutcome{{Status: tasks.Stored}, {Status: tasks.Rejected, Err: shared.ErrStorageFailure}}

	items := videoItems(state, outcomes)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !strings.Contains(items[0].(videoItem).Description(), "stored") {
		t.Errorf("unexpected description %q", items[0].(videoItem).Description())
	}
	if !strings.Contains(items[1].(videoItem).Description(), "error storing") {
		t.Errorf("unexpected description %q", items[1].(videoItem).Description())
	}

	genre := ""
	song := songItem{entry: &models.PlaylistEntry{Title: "T", Artist: "A", Mood: "m", Genre: &genre, YouTubeURL: "u"}}
	if song.Title() != "T by A" || !strings.Contains(song.Description(), "N/A") {
		t.Errorf("unexpected song item %q / %q", song.Title(), song.Description())
	}
}

func TestPaletteMood(t *testing.T) {
	for _, mood := range []string{"melancholic", "Happy, upbeat", "bittersweet"} {
		if got := styles.Mood(mood); !strings.Contains(got, mood) {
			t.Errorf("expected rendered mood to contain %q, got %q", mood, got)
		}
	}
}
