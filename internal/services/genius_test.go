package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/moodmix/internal/shared"
)

const lyricsPage = `<html><body>
<div data-lyrics-container="true"><span data-exclude-from-selection="true">Lyrics header</span>[Verse 1]<br>When I'm away from you<br>I'm happier than ever</div>
<div class="other">not lyrics</div>
<div data-lyrics-container="true">Wish I could explain it better<br/>I wish it wasn't true</div>
</body></html>`

func newGeniusTestServer(t *testing.T, hits []map[string]any, page string, pageStatus int) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token, got %q", got)
			}
			for _, h := range hits {
				if res, ok := h["result"].(map[string]any); ok {
					res["url"] = server.URL + "/lyrics-page"
				}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"meta":     map[string]any{"status": 200},
				"response": map[string]any{"hits": hits},
			})
		case "/lyrics-page":
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("song page request should not carry credentials, got %q", got)
			}
			w.WriteHeader(pageStatus)
			w.Write([]byte(page))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func songHit(title, artist string) map[string]any {
	return map[string]any{
		"type": "song",
		"result": map[string]any{
			"id":             1,
			"title":          title,
			"primary_artist": map[string]any{"name": artist},
		},
	}
}

func TestGeniusService(t *testing.T) {
	t.Run("NewGeniusService", func(t *testing.T) {
		t.Run("requires access token", func(t *testing.T) {
			_, err := NewGeniusService(shared.GeniusConfig{}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("rejects placeholder token", func(t *testing.T) {
			_, err := NewGeniusService(shared.GeniusConfig{AccessToken: "your_actual_genius_token_here"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("uses default URL", func(t *testing.T) {
			svc, err := NewGeniusService(shared.GeniusConfig{AccessToken: "t"}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.baseURL != defaultGeniusBaseURL {
				t.Errorf("expected %s, got %s", defaultGeniusBaseURL, svc.baseURL)
			}
			if svc.Name() != "Genius" {
				t.Errorf("unexpected name %s", svc.Name())
			}
		})
	})

	t.Run("FetchSong", func(t *testing.T) {
		hits := []map[string]any{
			{"type": "article", "result": map[string]any{"title": "news"}},
			songHit("Happier Than Ever", "Billie Eilish"),
		}
		server := newGeniusTestServer(t, hits, lyricsPage, http.StatusOK)

		svc, err := NewGeniusService(shared.GeniusConfig{AccessToken: "test-token", APIURL: server.URL}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		meta, err := svc.FetchSong(context.Background(), "Happier Than Ever")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if meta.Artist != "Billie Eilish" {
			t.Errorf("expected artist Billie Eilish, got %s", meta.Artist)
		}
		if meta.Title != "Happier Than Ever" {
			t.Errorf("expected title Happier Than Ever, got %s", meta.Title)
		}

		want := "[Verse 1]\nWhen I'm away from you\nI'm happier than ever\nWish I could explain it better\nI wish it wasn't true"
		if meta.Lyrics != want {
			t.Errorf("unexpected lyrics:\n%q\nwant\n%q", meta.Lyrics, want)
		}
		if strings.Contains(meta.Lyrics, "Lyrics header") || strings.Contains(meta.Lyrics, "not lyrics") {
			t.Error("lyrics should not include excluded or unrelated elements")
		}
	})

	t.Run("FetchSong no hits", func(t *testing.T) {
		server := newGeniusTestServer(t, []map[string]any{}, lyricsPage, http.StatusOK)
		svc, _ := NewGeniusService(shared.GeniusConfig{AccessToken: "test-token", APIURL: server.URL}, nil)

		_, err := svc.FetchSong(context.Background(), "zzzz no such song")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("FetchSong page without lyrics", func(t *testing.T) {
		server := newGeniusTestServer(t, []map[string]any{songHit("Instrumental", "Band")}, "<html><body></body></html>", http.StatusOK)
		svc, _ := NewGeniusService(shared.GeniusConfig{AccessToken: "test-token", APIURL: server.URL}, nil)

		_, err := svc.FetchSong(context.Background(), "Instrumental")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("FetchSong missing page", func(t *testing.T) {
		server := newGeniusTestServer(t, []map[string]any{songHit("Gone", "Band")}, "", http.StatusNotFound)
		svc, _ := NewGeniusService(shared.GeniusConfig{AccessToken: "test-token", APIURL: server.URL}, nil)

		_, err := svc.FetchSong(context.Background(), "Gone")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("FetchSong empty title", func(t *testing.T) {
		svc, _ := NewGeniusService(shared.GeniusConfig{AccessToken: "test-token", APIURL: "http://127.0.0.1:1"}, nil)

		_, err := svc.FetchSong(context.Background(), "   ")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"meta": map[string]any{"status": 401, "message": "invalid token"}})
		}))
		defer server.Close()

		svc, _ := NewGeniusService(shared.GeniusConfig{AccessToken: "bad", APIURL: server.URL}, nil)
		_, err := svc.Search(context.Background(), "anything")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "invalid token") {
			t.Errorf("expected error detail, got %v", err)
		}
	})
}
