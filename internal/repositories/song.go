package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
)

// SongRepository persists deduplicated song rows keyed by (title, artist).
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Upsert returns the ID of the song row for (title, artist), inserting it
// first if absent. On conflict the existing row wins; its stored duration
// and genre are kept rather than overwritten.
func (r *SongRepository) Upsert(song *models.Song) (string, error) {
	if err := song.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	now := time.Now().UTC()

	query := `
		INSERT INTO songs (id, title, artist_id, duration_ms, genre, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(title, artist_id) DO UPDATE SET title = excluded.title
		RETURNING id
	`

	var resolvedID string
	err := r.db.QueryRow(query,
		id,
		song.Title(),
		song.ArtistID(),
		song.DurationMS(),
		song.Genre(),
		now,
	).Scan(&resolvedID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert song: %w", err)
	}

	song.SetID(resolvedID)
	return resolvedID, nil
}

// GetByTitleAndArtist retrieves a song by its dedup key.
func (r *SongRepository) GetByTitleAndArtist(title, artistID string) (*models.Song, error) {
	query := `SELECT id, title, artist_id, duration_ms, genre, created_at FROM songs WHERE title = ? AND artist_id = ?`

	var id, gotTitle, gotArtistID, genre string
	var durationMS int
	var createdAt time.Time
	err := r.db.QueryRow(query, title, artistID).Scan(&id, &gotTitle, &gotArtistID, &durationMS, &genre, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: song %q", shared.ErrNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}

	song := models.NewSong(gotTitle, gotArtistID, durationMS, genre)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	return song, nil
}

// Count returns the number of song rows.
func (r *SongRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}
