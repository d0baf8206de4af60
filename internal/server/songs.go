package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// maxBodyBytes caps the size of a POST /songs/ body.
const maxBodyBytes = 1 << 20

// songRequest is the accepted body of POST /songs/.
type songRequest struct {
	Query      string   `json:"query"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Mood       string   `json:"mood"`
	YouTubeURL string   `json:"youtube_url"`
	MoodScore  *float64 `json:"mood_score"`
	Genre      *string  `json:"genre"`
}

func (s songRequest) entry() (*models.PlaylistEntry, error) {
	if s.MoodScore == nil {
		return nil, fmt.Errorf("mood_score is required")
	}
	e := &models.PlaylistEntry{
		Query:      s.Query,
		Title:      s.Title,
		Artist:     s.Artist,
		Mood:       s.Mood,
		YouTubeURL: s.YouTubeURL,
		MoodScore:  *s.MoodScore,
		Genre:      s.Genre,
	}
	return e, e.Validate()
}

// SongsHandler serves the append-only songs resource.
type SongsHandler struct {
	repo   models.Repository
	logger *log.Logger
}

// NewSongsHandler creates a handler backed by repo.
func NewSongsHandler(repo models.Repository, logger *log.Logger) *SongsHandler {
	return &SongsHandler{repo: repo, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SongsHandler) Routes() []string {
	return []string{"/songs", "/songs/"}
}

// ServeHTTP dispatches on method. Only the collection path is served.
func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := strings.TrimSuffix(r.URL.Path, "/"); p != "/songs" {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *SongsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("malformed JSON: %v", err))
		return
	}

	entry, err := req.entry()
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.repo.Create(r.Context(), entry); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("failed to store song", "title", entry.Title, "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to store song")
		return
	}

	h.logger.Debug("stored song", "id", entry.ID, "title", entry.Title, "mood", entry.Mood)
	writeJSON(w, http.StatusOK, entry)
}

func (h *SongsHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list songs", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to list songs")
		return
	}
	if entries == nil {
		entries = []*models.PlaylistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HealthHandler reports that the service is up.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
