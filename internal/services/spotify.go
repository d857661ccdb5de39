// Spotify implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

type pagedTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type pagedArtists struct {
	Items []SpotifyArtist `json:"items"`
	Total int            `json:"total"`
}

// SpotifySearchResponse represents a /search response. Spotify keys each
// section by the requested type; absent sections are nil.
type SpotifySearchResponse struct {
	Tracks  *pagedTracks  `json:"tracks"`
	Artists *pagedArtists `json:"artists"`
}

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTrackItem struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

type playlistTracks struct {
	Total int                 `json:"total"`
	Items []playlistTrackItem `json:"items"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       spotifyOwner   `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
	URI         string         `json:"uri"`
}

type spotifyAPIError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [Catalog] against the Spotify Web API.
// Uses [oauth2] for authentication and a [rate.Limiter] to stay under
// Spotify's request quota.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"user-top-read",
			"user-library-read",
			"playlist-read-private",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    spotifyBaseURL,
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an
// "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for callback servers.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Token returns the current OAuth2 token, nil before authentication.
func (s *SpotifyService) Token() *oauth2.Token {
	return s.token
}

// doRequest performs an authenticated HTTP request to the Spotify API.
// A non-nil body is JSON-encoded. Non-2xx responses decode into [APIError].
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrSessionMissing)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	apiURL := s.baseURL + endpoint

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var decoded spotifyAPIError
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil {
			apiErr.Message = decoded.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", shared.ErrTokenExpired, apiErr)
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search queries the Spotify catalog with free text.
func (s *SpotifyService) Search(ctx context.Context, query string, kind SearchKind, limit int) (*SearchResults, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", string(kind))
	params.Set("limit", fmt.Sprintf("%d", limit))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "GET", "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	return mapSearchResponse(&response, ""), nil
}

// SearchByGenre queries the Spotify catalog scoped to a genre.
func (s *SpotifyService) SearchByGenre(ctx context.Context, genre string, kind SearchKind) (*SearchResults, error) {
	if genre == "" {
		return nil, fmt.Errorf("%w: empty genre", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("genre:%q", genre))
	params.Set("type", string(kind))
	params.Set("limit", fmt.Sprintf("%d", defaultSearchLimit))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "GET", "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	return mapSearchResponse(&response, genre), nil
}

// Profile retrieves the authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context) (*models.Profile, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}

	return &models.Profile{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// TopTracks retrieves an artist's most popular tracks for a market.
func (s *SpotifyService) TopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: empty artist ID", shared.ErrInvalidInput)
	}
	if market == "" {
		market = "US"
	}

	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", artistID, url.QueryEscape(market))

	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks))
	for _, st := range response.Tracks {
		tracks = append(tracks, mapTrack(st, ""))
	}
	return tracks, nil
}

// PlaylistDetails retrieves a playlist with its tracks.
func (s *SpotifyService) PlaylistDetails(ctx context.Context, playlistID string) (*models.PlaylistDetail, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist ID", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s", playlistID)

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "GET", endpoint, nil, &playlist); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}

	detail := &models.PlaylistDetail{
		ID:     playlist.ID,
		Name:   playlist.Name,
		Tracks: make([]models.Track, 0, len(playlist.Tracks.Items)),
	}
	for _, item := range playlist.Tracks.Items {
		detail.Tracks = append(detail.Tracks, mapTrack(item.Track, ""))
	}
	return detail, nil
}

// CreatePlaylist creates a new private playlist owned by ownerID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error) {
	if ownerID == "" || name == "" {
		return nil, fmt.Errorf("%w: owner ID and name required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	body := map[string]any{
		"name":   name,
		"public": false,
	}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "POST", endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.RemotePlaylist{
		ID:     playlist.ID,
		Name:   playlist.Name,
		Public: playlist.Public,
	}, nil
}

// AppendTracks adds track URIs to an existing playlist, preserving order.
func (s *SpotifyService) AppendTracks(ctx context.Context, playlistID string, uris []string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: empty playlist ID", shared.ErrInvalidInput)
	}
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	body := map[string]any{"uris": uris}

	return s.doRequest(ctx, "POST", endpoint, body, nil)
}

func mapTrack(st SpotifyTrack, genre string) models.Track {
	track := models.Track{
		ID:         st.ID,
		URI:        st.URI,
		Title:      st.Name,
		Album:      st.Album.Name,
		DurationMS: st.DurationMS,
		Genre:      genre,
	}
	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
		track.ArtistID = st.Artists[0].ID
	}
	return track
}

func mapSearchResponse(response *SpotifySearchResponse, genre string) *SearchResults {
	results := &SearchResults{}

	if response.Tracks != nil {
		results.Tracks = make([]models.Track, 0, len(response.Tracks.Items))
		for _, st := range response.Tracks.Items {
			results.Tracks = append(results.Tracks, mapTrack(st, genre))
		}
	}

	if response.Artists != nil {
		results.Artists = make([]models.ArtistResult, 0, len(response.Artists.Items))
		for _, sa := range response.Artists.Items {
			results.Artists = append(results.Artists, models.ArtistResult{
				ID:     sa.ID,
				Name:   sa.Name,
				Genres: sa.Genres,
			})
		}
	}

	return results
}
