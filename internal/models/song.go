package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultGenre is persisted for songs whose catalog payload carried no genre.
const DefaultGenre = "Unknown"

// Song is a deduplicated song row, unique by (title, artist id).
type Song struct {
	id         string
	title      string
	artistID   string
	durationMS int
	genre      string
	createdAt  time.Time
}

// NewSong creates a Song for the given artist. The id is assigned by the repository.
//
// Duration is integer milliseconds. An empty genre becomes [DefaultGenre].
func NewSong(title, artistID string, durationMS int, genre string) *Song {
	if genre == "" {
		genre = DefaultGenre
	}
	return &Song{
		title:      strings.TrimSpace(title),
		artistID:   artistID,
		durationMS: durationMS,
		genre:      genre,
		createdAt:  time.Now(),
	}
}

func (s *Song) ID() string           { return s.id }
func (s *Song) Title() string        { return s.title }
func (s *Song) ArtistID() string     { return s.artistID }
func (s *Song) DurationMS() int      { return s.durationMS }
func (s *Song) Genre() string        { return s.genre }
func (s *Song) CreatedAt() time.Time { return s.createdAt }

func (s *Song) SetID(id string)           { s.id = id }
func (s *Song) SetCreatedAt(ts time.Time) { s.createdAt = ts }

// Validate checks that the song has a title and a parent artist.
func (s *Song) Validate() error {
	if s.title == "" {
		return fmt.Errorf("song title is required")
	}
	if s.artistID == "" {
		return fmt.Errorf("song artist id is required")
	}
	if s.durationMS < 0 {
		return fmt.Errorf("song duration cannot be negative")
	}
	return nil
}
