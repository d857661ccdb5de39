package models

import (
	"fmt"
	"strings"
	"time"
)

// Playlist is the mirror record of a successfully published playlist.
//
// Immutable after creation; there is no update or delete path.
type Playlist struct {
	id                string
	userID            string // Local account id
	spotifyUserID     string // External catalog account id
	title             string
	spotifyPlaylistID string
	createdAt         time.Time
}

// NewPlaylist creates a Playlist mirror record. The id is assigned by the repository.
func NewPlaylist(userID, spotifyUserID, title, spotifyPlaylistID string) *Playlist {
	return &Playlist{
		userID:            userID,
		spotifyUserID:     spotifyUserID,
		title:             strings.TrimSpace(title),
		spotifyPlaylistID: spotifyPlaylistID,
		createdAt:         time.Now(),
	}
}

func (p *Playlist) ID() string                { return p.id }
func (p *Playlist) UserID() string            { return p.userID }
func (p *Playlist) SpotifyUserID() string     { return p.spotifyUserID }
func (p *Playlist) Title() string             { return p.title }
func (p *Playlist) SpotifyPlaylistID() string { return p.spotifyPlaylistID }
func (p *Playlist) CreatedAt() time.Time      { return p.createdAt }

func (p *Playlist) SetID(id string)           { p.id = id }
func (p *Playlist) SetCreatedAt(ts time.Time) { p.createdAt = ts }

// Validate checks that the record references both owners and the remote playlist.
func (p *Playlist) Validate() error {
	if p.title == "" {
		return fmt.Errorf("playlist title is required")
	}
	if p.userID == "" {
		return fmt.Errorf("playlist owner user id is required")
	}
	if p.spotifyUserID == "" {
		return fmt.Errorf("playlist spotify user id is required")
	}
	if p.spotifyPlaylistID == "" {
		return fmt.Errorf("playlist spotify playlist id is required")
	}
	return nil
}

// PlaylistSong records ordered membership of a song in a playlist.
type PlaylistSong struct {
	playlistID string
	songID     string
	position   int
}

// NewPlaylistSong creates a membership row. Position is the 1-based rank in selection order.
func NewPlaylistSong(playlistID, songID string, position int) *PlaylistSong {
	return &PlaylistSong{
		playlistID: playlistID,
		songID:     songID,
		position:   position,
	}
}

func (ps *PlaylistSong) PlaylistID() string { return ps.playlistID }
func (ps *PlaylistSong) SongID() string     { return ps.songID }
func (ps *PlaylistSong) Position() int      { return ps.position }

// Validate checks that the membership references both sides and has a valid rank.
func (ps *PlaylistSong) Validate() error {
	if ps.playlistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if ps.songID == "" {
		return fmt.Errorf("song id is required")
	}
	if ps.position < 1 {
		return fmt.Errorf("position must be 1-based, got %d", ps.position)
	}
	return nil
}
