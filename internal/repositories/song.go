package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

var _ models.Repository = (*SongRepository)(nil)

// SongRepository stores playlist entries in the songs table.
//
// Entries are never updated or deleted once created.
type SongRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db, now: time.Now}
}

// Create validates entry, assigns its ID and creation time and appends it.
func (r *SongRepository) Create(ctx context.Context, entry *models.PlaylistEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	createdAt := r.now().UTC()

	var genre sql.NullString
	if entry.Genre != nil {
		genre = sql.NullString{String: *entry.Genre, Valid: true}
	}

	query := `
		INSERT INTO songs (id, sequence, query, title, artist, mood, genre, youtube_url, mood_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, query,
		id,
		sequence,
		entry.Query,
		entry.Title,
		entry.Artist,
		entry.Mood,
		genre,
		entry.YouTubeURL,
		entry.MoodScore,
		createdAt,
	); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit song: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return nil
}

// List returns all stored entries in insertion order.
func (r *SongRepository) List(ctx context.Context) ([]*models.PlaylistEntry, error) {
	query := `
		SELECT id, query, title, artist, mood, genre, youtube_url, mood_score, created_at
		FROM songs
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	entries := []*models.PlaylistEntry{}
	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Get retrieves a single entry by ID.
func (r *SongRepository) Get(ctx context.Context, id string) (*models.PlaylistEntry, error) {
	query := `
		SELECT id, query, title, artist, mood, genre, youtube_url, mood_score, created_at
		FROM songs
		WHERE id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query song: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("row iteration error: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	return r.scanRow(rows)
}

// scanRow scans a row from [sql.Rows] into a [models.PlaylistEntry]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.PlaylistEntry, error) {
	var (
		entry models.PlaylistEntry
		genre sql.NullString
	)

	err := rows.Scan(
		&entry.ID,
		&entry.Query,
		&entry.Title,
		&entry.Artist,
		&entry.Mood,
		&genre,
		&entry.YouTubeURL,
		&entry.MoodScore,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	if genre.Valid {
		g := genre.String
		entry.Genre = &g
	}

	return &entry, nil
}
