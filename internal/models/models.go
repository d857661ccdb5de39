// package models defines the data model for the Mixify playlist publisher
package models

import (
	"time"
)

// Model defines the base interface for all persistent mirror entities.
// Implementations include Artist, Song, Playlist, and PlaylistSong.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Track represents a catalog track selected for publishing.
type Track struct {
	ID         string // Catalog track id
	URI        string // Catalog URI used for playlist writes
	Title      string
	Artist     string // Primary artist name
	ArtistID   string // Catalog id of the primary artist
	Album      string
	DurationMS int    // Duration in milliseconds
	Genre      string // Optional; defaults to "Unknown" when persisted
}

// ArtistResult represents a catalog artist search result.
type ArtistResult struct {
	ID     string
	Name   string
	Genres []string
}

// RemotePlaylist represents a playlist shell created on the catalog service.
type RemotePlaylist struct {
	ID     string
	Name   string
	Public bool
}

// PlaylistDetail represents a remote playlist with its full track listing.
type PlaylistDetail struct {
	ID     string
	Name   string
	Tracks []Track
}

// Profile represents the authenticated catalog user.
type Profile struct {
	ID          string
	DisplayName string
}

// HistoryRecord is the denormalized read model for a published playlist,
// as returned by the history listing.
type HistoryRecord struct {
	ID                string
	Title             string
	SpotifyPlaylistID string
	CreatedAt         time.Time
	Songs             []HistorySong
}

// HistorySong is one ordered song entry within a HistoryRecord.
type HistorySong struct {
	Position   int
	Title      string
	Artist     string
	DurationMS int
}
