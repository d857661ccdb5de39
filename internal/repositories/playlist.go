package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
)

// PlaylistRepository persists immutable records of published playlists and
// their track memberships.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist record with a generated ID.
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)
	playlist.SetCreatedAt(time.Now().UTC())

	query := `
		INSERT INTO playlists (id, user_id, spotify_user_id, title, spotify_playlist_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		playlist.UserID(),
		playlist.SpotifyUserID(),
		playlist.Title(),
		playlist.SpotifyPlaylistID(),
		playlist.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// AddSong inserts one playlist membership row at its 1-based position.
func (r *PlaylistRepository) AddSong(membership *models.PlaylistSong) error {
	if err := membership.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)`

	_, err := r.db.Exec(query, membership.PlaylistID(), membership.SongID(), membership.Position())
	if err != nil {
		return fmt.Errorf("failed to insert playlist song: %w", err)
	}

	return nil
}

// Get retrieves a playlist record by ID.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `SELECT id, user_id, spotify_user_id, title, spotify_playlist_id, created_at FROM playlists WHERE id = ?`

	var gotID, userID, spotifyUserID, title, spotifyPlaylistID string
	var createdAt time.Time
	err := r.db.QueryRow(query, id).Scan(&gotID, &userID, &spotifyUserID, &title, &spotifyPlaylistID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	playlist := models.NewPlaylist(userID, spotifyUserID, title, spotifyPlaylistID)
	playlist.SetID(gotID)
	playlist.SetCreatedAt(createdAt)
	return playlist, nil
}

// SongCount returns the number of membership rows for a playlist.
func (r *PlaylistRepository) SongCount(playlistID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?`, playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playlist songs: %w", err)
	}
	return count, nil
}

// ListByOwner returns every playlist published by a user, newest first,
// each with its songs in playlist order joined to artist names.
func (r *PlaylistRepository) ListByOwner(userID string) ([]models.HistoryRecord, error) {
	query := `
		SELECT id, title, spotify_playlist_id, created_at
		FROM playlists
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var record models.HistoryRecord
		if err := rows.Scan(&record.ID, &record.Title, &record.SpotifyPlaylistID, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlists: %w", err)
	}

	for i := range records {
		songs, err := r.listSongs(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Songs = songs
	}

	return records, nil
}

// listSongs returns a playlist's songs in position order with artist names.
func (r *PlaylistRepository) listSongs(playlistID string) ([]models.HistorySong, error) {
	query := `
		SELECT ps.position, s.title, a.name, s.duration_ms
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		JOIN artists a ON a.id = s.artist_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist songs: %w", err)
	}
	defer rows.Close()

	var songs []models.HistorySong
	for rows.Next() {
		var song models.HistorySong
		if err := rows.Scan(&song.Position, &song.Title, &song.Artist, &song.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist songs: %w", err)
	}

	return songs, nil
}
