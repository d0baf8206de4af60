// Package web serves the browser form for the mood playlist pipeline.
//
// # Routes
//
//	GET  /          form, stored songs and the API status sidebar
//	POST /generate  run the pipeline for the "song" form field and store each playlist entry
//
// # Storage
//
// After a successful run each entry is sent to the storage resource on its own through
// [tasks.StoreEntries]. A failed entry is reported next to the others and never blocks them.
// A failed run is reported verbatim and nothing is stored.
//
// # Sidebar
//
// Credential status is presence only: empty values and the template placeholders count as missing.
// The backend check is a GET against the storage resource bounded by [PingTimeout].
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

// PingTimeout bounds the sidebar backend check.
const PingTimeout = 2 * time.Second

const (
	emptySongWarning = "Please enter a song title."
	backendDownMsg   = "❌ Backend server not running. Please start it with: moodmix api"
)

// Storage is the storage resource as seen by the web form.
type Storage interface {
	tasks.EntryStore
	ListSongs(ctx context.Context) ([]*models.PlaylistEntry, error)
	Ping(ctx context.Context) error
}

type pageData struct {
	Song           string
	Warning        string
	State          *models.PipelineState
	Outcomes       []tasks.StoreOutcome
	Songs          []*models.PlaylistEntry
	SongsError     string
	ShowSongs      bool
	Credentials    []shared.CredentialStatus
	BackendRunning bool
}

// Handler renders the form and runs the pipeline. It implements [server.Handler].
type Handler struct {
	engine      tasks.Engine
	storage     Storage
	credentials []shared.CredentialStatus
	logger      *log.Logger
	tmpl        *template.Template
}

// NewHandler creates a web handler. credentials is shown as-is in the sidebar.
func NewHandler(engine tasks.Engine, storage Storage, credentials []shared.CredentialStatus, logger *log.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Handler{
		engine:      engine,
		storage:     storage,
		credentials: credentials,
		logger:      logger,
		tmpl:        tmpl,
	}, nil
}

// Routes returns the HTTP routes this handler serves.
func (h *Handler) Routes() []string {
	return []string{"/", "/generate"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		h.index(w, r)
	case r.URL.Path == "/generate" && r.Method == http.MethodPost:
		h.generate(w, r)
	case r.URL.Path == "/generate" && r.Method == http.MethodGet:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case r.URL.Path == "/" || r.URL.Path == "/generate":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, &pageData{})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	song := strings.TrimSpace(r.PostFormValue("song"))
	data := &pageData{Song: song}
	if song == "" {
		data.Warning = emptySongWarning
		h.render(w, r, data)
		return
	}

	state := h.engine.Run(r.Context(), song, nil)
	data.State = state
	if !state.Failed() {
		data.Outcomes = tasks.StoreEntries(r.Context(), h.storage, state.Entries())
		h.logger.Info("playlist generated", "song", song, "mood", state.Mood,
			"videos", len(state.Playlist), "stored", tasks.CountStored(data.Outcomes))
	} else {
		h.logger.Warn("playlist generation failed", "song", song, "error", state.Error)
	}
	data.ShowSongs = len(data.Outcomes) > 0

	h.render(w, r, data)
}

// render fills the sidebar and stored songs sections, then writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, data *pageData) {
	data.Credentials = h.credentials
	data.BackendRunning = h.backendRunning(r.Context())

	songs, err := h.storage.ListSongs(r.Context())
	switch {
	case errors.Is(err, shared.ErrServiceUnavailable):
		data.SongsError = backendDownMsg
	case err != nil:
		data.SongsError = fmt.Sprintf("Failed to fetch songs: %v", err)
	default:
		data.Songs = songs
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "index", data); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

func (h *Handler) backendRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	return h.storage.Ping(ctx) == nil
}

// NewServer creates an [http.Server] for h on addr with request logging.
func NewServer(addr string, h *Handler, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := server.NewBasicRouter()
	r.Use(server.RecoverMiddleware(logger), server.LoggingMiddleware(logger))
	r.Handler(h)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
