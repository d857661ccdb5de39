package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
)

// ArtistRepository persists deduplicated artist rows keyed by name.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Upsert returns the ID of the artist row for name, inserting it first if
// absent. Concurrent callers racing on the same name resolve to one row; the
// conflict clause makes the insert a no-op update so RETURNING always yields
// the surviving row's ID.
func (r *ArtistRepository) Upsert(artist *models.Artist) (string, error) {
	if err := artist.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	now := time.Now().UTC()

	query := `
		INSERT INTO artists (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING id
	`

	var resolvedID string
	if err := r.db.QueryRow(query, id, artist.Name(), now).Scan(&resolvedID); err != nil {
		return "", fmt.Errorf("failed to upsert artist: %w", err)
	}

	artist.SetID(resolvedID)
	return resolvedID, nil
}

// GetByName retrieves an artist by exact name.
func (r *ArtistRepository) GetByName(name string) (*models.Artist, error) {
	query := `SELECT id, name, created_at FROM artists WHERE name = ?`

	var id, gotName string
	var createdAt time.Time
	err := r.db.QueryRow(query, name).Scan(&id, &gotName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: artist %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}

	artist := models.NewArtist(gotName)
	artist.SetID(id)
	artist.SetCreatedAt(createdAt)
	return artist, nil
}

// Count returns the number of artist rows.
func (r *ArtistRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM artists`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return count, nil
}
