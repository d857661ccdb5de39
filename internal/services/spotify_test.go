package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/mixify/internal/shared"
)

func newTestSpotifyService(t *testing.T, ts *httptest.Server) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if err := srv.Authenticate(context.Background(), map[string]string{"access_token": "test_access_token"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	if ts != nil {
		srv.baseURL = ts.URL
		srv.httpClient = ts.Client()
	}

	return srv
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("creates service with valid credentials", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
			"redirect_uri":  "http://localhost:9999/cb",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if srv.config.RedirectURL != "http://localhost:9999/cb" {
			t.Errorf("expected redirect URI to be preserved, got %s", srv.config.RedirectURL)
		}

		var _ Catalog = srv
		var _ OAuthService = srv
	})

	t.Run("defaults redirect URI", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(srv.config.RedirectURL, "/callback") {
			t.Errorf("expected default callback redirect, got %s", srv.config.RedirectURL)
		}
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		for _, creds := range []map[string]string{
			{},
			{"client_id": "id"},
			{"client_secret": "secret"},
		} {
			if _, err := NewSpotifyService(creds); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		}
	})
}

func TestSpotifyAuthenticate(t *testing.T) {
	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "id",
		"client_secret": "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	t.Run("accepts access token", func(t *testing.T) {
		err := srv.Authenticate(context.Background(), map[string]string{"access_token": "tok"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if srv.Token() == nil || srv.Token().AccessToken != "tok" {
			t.Error("expected token to be set")
		}
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		err := srv.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestSpotifySearch(t *testing.T) {
	var gotQuery, gotType, gotLimit string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotType = r.URL.Query().Get("type")
		gotLimit = r.URL.Query().Get("limit")

		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{
					{
						"id":          "t1",
						"name":        "Breathe",
						"uri":         "spotify:track:t1",
						"duration_ms": 163000,
						"artists":     []map[string]any{{"id": "a1", "name": "Pink Floyd"}},
						"album":       map[string]any{"name": "The Dark Side of the Moon"},
					},
				},
				"total": 1,
			},
		})
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	t.Run("maps track results", func(t *testing.T) {
		results, err := srv.Search(context.Background(), "breathe", KindTrack, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotQuery != "breathe" || gotType != "track" || gotLimit != "10" {
			t.Errorf("unexpected query params q=%s type=%s limit=%s", gotQuery, gotType, gotLimit)
		}

		if len(results.Tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(results.Tracks))
		}

		track := results.Tracks[0]
		if track.Title != "Breathe" || track.Artist != "Pink Floyd" || track.ArtistID != "a1" {
			t.Errorf("unexpected track mapping: %+v", track)
		}
		if track.DurationMS != 163000 {
			t.Errorf("expected duration 163000, got %d", track.DurationMS)
		}
		if track.URI != "spotify:track:t1" {
			t.Errorf("unexpected URI %s", track.URI)
		}
	})

	t.Run("genre search scopes the query and tags results", func(t *testing.T) {
		results, err := srv.SearchByGenre(context.Background(), "progressive rock", KindTrack)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotQuery != `genre:"progressive rock"` {
			t.Errorf("unexpected genre query %q", gotQuery)
		}

		if len(results.Tracks) != 1 || results.Tracks[0].Genre != "progressive rock" {
			t.Errorf("expected genre tag on results, got %+v", results.Tracks)
		}
	})

	t.Run("rejects empty query", func(t *testing.T) {
		if _, err := srv.Search(context.Background(), "", KindTrack, 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSpotifyProfile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "user_1", "display_name": "Mara"})
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	profile, err := srv.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "user_1" || profile.DisplayName != "Mara" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestSpotifyTopTracks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/a1/top-tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("market") != "US" {
			t.Errorf("expected default market US, got %s", r.URL.Query().Get("market"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": []map[string]any{
				{"id": "t1", "name": "One", "artists": []map[string]any{{"id": "a1", "name": "A"}}},
				{"id": "t2", "name": "Two", "artists": []map[string]any{{"id": "a1", "name": "A"}}},
			},
		})
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	tracks, err := srv.TopTracks(context.Background(), "a1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tracks) != 2 || tracks[0].Title != "One" || tracks[1].Title != "Two" {
		t.Errorf("unexpected tracks %+v", tracks)
	}
}

func TestSpotifyPlaylistDetails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists/p1":
			json.NewEncoder(w).Encode(map[string]any{
				"id":   "p1",
				"name": "Roadtrip",
				"tracks": map[string]any{
					"total": 1,
					"items": []map[string]any{
						{"track": map[string]any{"id": "t1", "name": "Song", "artists": []map[string]any{{"id": "a1", "name": "A"}}}},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"status": 404, "message": "Not found."}})
		}
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	t.Run("returns playlist with tracks", func(t *testing.T) {
		detail, err := srv.PlaylistDetails(context.Background(), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if detail.Name != "Roadtrip" || len(detail.Tracks) != 1 {
			t.Errorf("unexpected detail %+v", detail)
		}
	})

	t.Run("maps 404 to ErrPlaylistNotFound", func(t *testing.T) {
		_, err := srv.PlaylistDetails(context.Background(), "missing")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestSpotifyCreatePlaylist(t *testing.T) {
	var gotBody map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/users/user_1/playlists" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "p_new", "name": gotBody["name"], "public": false})
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	playlist, err := srv.CreatePlaylist(context.Background(), "user_1", "Late Night Mix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["name"] != "Late Night Mix" {
		t.Errorf("expected name in body, got %v", gotBody["name"])
	}
	if public, ok := gotBody["public"].(bool); !ok || public {
		t.Errorf("expected public:false in body, got %v", gotBody["public"])
	}
	if playlist.ID != "p_new" || playlist.Public {
		t.Errorf("unexpected playlist %+v", playlist)
	}
}

func TestSpotifyAppendTracks(t *testing.T) {
	var gotBody map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/playlists/p1/tracks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"snapshot_id": "snap"})
	}))
	defer ts.Close()

	srv := newTestSpotifyService(t, ts)

	t.Run("sends URIs in order", func(t *testing.T) {
		uris := []string{"spotify:track:t1", "spotify:track:t2"}
		if err := srv.AppendTracks(context.Background(), "p1", uris); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(gotBody["uris"]) != 2 || gotBody["uris"][0] != "spotify:track:t1" {
			t.Errorf("unexpected body %v", gotBody)
		}
	})

	t.Run("rejects empty URI list", func(t *testing.T) {
		if err := srv.AppendTracks(context.Background(), "p1", nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSpotifyErrorHandling(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		if _, err := srv.Profile(context.Background()); !errors.Is(err, shared.ErrSessionMissing) {
			t.Errorf("expected ErrSessionMissing, got %v", err)
		}
	})

	t.Run("maps 401 to ErrTokenExpired", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"status": 401, "message": "The access token expired"}})
		}))
		defer ts.Close()

		srv := newTestSpotifyService(t, ts)

		_, err := srv.Profile(context.Background())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("carries upstream message in APIError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"status": 429, "message": "rate limit exceeded"}})
		}))
		defer ts.Close()

		srv := newTestSpotifyService(t, ts)

		_, err := srv.Profile(context.Background())

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != 429 || apiErr.Message != "rate limit exceeded" {
			t.Errorf("unexpected APIError %+v", apiErr)
		}
	})
}
