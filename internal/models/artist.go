package models

import (
	"fmt"
	"strings"
	"time"
)

// Artist is a deduplicated artist row, unique by name.
type Artist struct {
	id        string
	name      string
	createdAt time.Time
}

// NewArtist creates an Artist with the given name. The id is assigned by the repository.
func NewArtist(name string) *Artist {
	return &Artist{
		name:      strings.TrimSpace(name),
		createdAt: time.Now(),
	}
}

func (a *Artist) ID() string           { return a.id }
func (a *Artist) Name() string         { return a.name }
func (a *Artist) CreatedAt() time.Time { return a.createdAt }

func (a *Artist) SetID(id string)           { a.id = id }
func (a *Artist) SetCreatedAt(ts time.Time) { a.createdAt = ts }

// Validate checks that the artist has a non-empty name.
func (a *Artist) Validate() error {
	if a.name == "" {
		return fmt.Errorf("artist name is required")
	}
	return nil
}
