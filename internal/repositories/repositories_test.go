package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func newEntry(title string) *models.PlaylistEntry {
	return &models.PlaylistEntry{
		Query:      "Happier Than Ever",
		Title:      title,
		Artist:     "Billie Eilish",
		Mood:       "melancholic",
		YouTubeURL: "https://www.youtube.com/watch?v=" + title,
		MoodScore:  0.8,
	}
}

func TestSongRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		entry := newEntry("first")

		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if entry.ID == "" {
			t.Error("entry ID should be set after creation")
		}
		if entry.CreatedAt.IsZero() {
			t.Error("entry CreatedAt should be set after creation")
		}
	})

	t.Run("Create rejects invalid entries", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		entry := newEntry("bad")
		entry.MoodScore = 2

		err := repo.Create(ctx, entry)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		entries, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no stored entries, got %d", len(entries))
		}
	})

	t.Run("List empty", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		entries, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", entries)
		}
	})

	t.Run("List keeps insertion order", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return fixed }

		const n = 7
		for i := range n {
			if err := repo.Create(ctx, newEntry(fmt.Sprintf("song-%d", i))); err != nil {
				t.Fatalf("failed to create song %d: %v", i, err)
			}
		}

		entries, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(entries) != n {
			t.Fatalf("expected %d entries, got %d", n, len(entries))
		}
		for i, e := range entries {
			if want := fmt.Sprintf("song-%d", i); e.Title != want {
				t.Errorf("entry %d: expected %s, got %s", i, want, e.Title)
			}
		}
	})

	t.Run("Genre round trip", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		withGenre := newEntry("with")
		g := "pop"
		withGenre.Genre = &g
		if err := repo.Create(ctx, withGenre); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		without := newEntry("without")
		if err := repo.Create(ctx, without); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		got, err := repo.Get(ctx, withGenre.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Genre == nil || *got.Genre != "pop" {
			t.Errorf("expected genre pop, got %v", got.Genre)
		}
		if got.MoodScore != 0.8 || got.Artist != "Billie Eilish" || got.Query != "Happier Than Ever" {
			t.Errorf("unexpected stored entry: %+v", got)
		}

		got, err = repo.Get(ctx, without.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Genre != nil {
			t.Errorf("expected nil genre, got %v", *got.Genre)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))

		if _, err := repo.Get(ctx, "missing"); !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSongRepository(db)
		db.Close()

		if err := repo.Create(ctx, newEntry("x")); err == nil {
			t.Error("expected error creating with closed database")
		}
		if _, err := repo.List(ctx); err == nil {
			t.Error("expected error listing with closed database")
		}
	})
}

func TestNextSequence(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		got, err := NextSequence(ctx, tx, "songs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("failed to commit: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer tx.Rollback()
	if _, err := NextSequence(ctx, tx, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}
