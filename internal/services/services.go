package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixify/internal/models"
	"golang.org/x/oauth2"
)

// SearchKind selects which entity type a catalog search should return.
type SearchKind string

const (
	KindTrack  SearchKind = "track"
	KindArtist SearchKind = "artist"
)

// SearchResults holds the decoded results of a catalog search. Only the
// slice matching the requested [SearchKind] is populated.
type SearchResults struct {
	Tracks  []models.Track
	Artists []models.ArtistResult
}

// Catalog is the abstraction over a streaming provider's web API.
// All blocking operations take a context for cancellation.
type Catalog interface {
	// Authenticate establishes credentials with the provider. Expects
	// either an "access_token" or "auth_code" entry.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Search queries the catalog with free text.
	Search(ctx context.Context, query string, kind SearchKind, limit int) (*SearchResults, error)

	// SearchByGenre queries the catalog with a genre-scoped query.
	SearchByGenre(ctx context.Context, genre string, kind SearchKind) (*SearchResults, error)

	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*models.Profile, error)

	// TopTracks retrieves an artist's most popular tracks for a market.
	TopTracks(ctx context.Context, artistID, market string) ([]models.Track, error)

	// PlaylistDetails retrieves a playlist with its tracks.
	PlaylistDetails(ctx context.Context, playlistID string) (*models.PlaylistDetail, error)

	// CreatePlaylist creates a new private playlist owned by ownerID.
	CreatePlaylist(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error)

	// AppendTracks adds track URIs to an existing playlist, in order.
	AppendTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the provider's display name.
	Name() string
}

// OAuthService extends [Catalog] for providers using server-side OAuth flows.
type OAuthService interface {
	Catalog
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
}

// APIError is a non-2xx response from a provider API. The message is the
// provider's own error text when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
