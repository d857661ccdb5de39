package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/repositories"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/shared"
	mock "github.com/desertthunder/mixify/internal/testing"
)

type testEnv struct {
	db        *sql.DB
	catalog   *mock.MockCatalog
	engine    *PublishEngine
	playlists *repositories.PlaylistRepository
	artists   *repositories.ArtistRepository
	songs     *repositories.SongRepository
}

func setupEngine(t *testing.T) *testEnv {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	catalog := &mock.MockCatalog{}
	artists := repositories.NewArtistRepository(db)
	songs := repositories.NewSongRepository(db)
	playlists := repositories.NewPlaylistRepository(db)

	return &testEnv{
		db:        db,
		catalog:   catalog,
		engine:    NewPublishEngine(catalog, artists, songs, playlists, shared.NewLogger(io.Discard)),
		playlists: playlists,
		artists:   artists,
		songs:     songs,
	}
}

func testRequest() PublishRequest {
	return PublishRequest{
		Name:           "Roadtrip",
		LocalUserID:    "u1",
		ExternalUserID: "spotify_u1",
		Tracks: []models.Track{
			{URI: "spotify:track:t1", Title: "Breathe", Artist: "Pink Floyd", DurationMS: 163000, Genre: "progressive rock"},
			{URI: "spotify:track:t2", Title: "Time", Artist: "Pink Floyd", DurationMS: 413000},
			{URI: "spotify:track:t3", Title: "Mandy", Artist: "Barry Manilow", DurationMS: 199000},
		},
	}
}

func TestPublish(t *testing.T) {
	t.Run("full workflow", func(t *testing.T) {
		env := setupEngine(t)

		var createdOwner, createdName string
		var appendedURIs []string

		env.catalog.CreatePlaylistFunc = func(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error) {
			createdOwner, createdName = ownerID, name
			return &models.RemotePlaylist{ID: "sp_pl_1", Name: name}, nil
		}
		env.catalog.AppendTracksFunc = func(ctx context.Context, playlistID string, uris []string) error {
			if playlistID != "sp_pl_1" {
				t.Errorf("expected append on created playlist, got %s", playlistID)
			}
			appendedURIs = uris
			return nil
		}

		result, err := env.engine.Publish(context.Background(), testRequest(), nil)
		if err != nil {
			t.Fatalf("publish failed: %v", err)
		}

		if createdOwner != "spotify_u1" || createdName != "Roadtrip" {
			t.Errorf("unexpected create call %s/%s", createdOwner, createdName)
		}
		if len(appendedURIs) != 3 || appendedURIs[0] != "spotify:track:t1" {
			t.Errorf("expected URIs in playlist order, got %v", appendedURIs)
		}

		if result.SavedCount != 3 || result.SkippedCount != 0 {
			t.Errorf("expected 3 saved, got %d saved %d skipped", result.SavedCount, result.SkippedCount)
		}
		if result.Record == nil || result.Record.SpotifyPlaylistID() != "sp_pl_1" {
			t.Fatal("expected local record linked to remote playlist")
		}

		// shared artist dedupes to one row
		artistCount, err := env.artists.Count()
		if err != nil {
			t.Fatalf("failed to count artists: %v", err)
		}
		if artistCount != 2 {
			t.Errorf("expected 2 artist rows, got %d", artistCount)
		}

		songCount, err := env.songs.Count()
		if err != nil {
			t.Fatalf("failed to count songs: %v", err)
		}
		if songCount != 3 {
			t.Errorf("expected 3 song rows, got %d", songCount)
		}

		memberships, err := env.playlists.SongCount(result.Record.ID())
		if err != nil {
			t.Fatalf("failed to count memberships: %v", err)
		}
		if memberships != 3 {
			t.Errorf("expected 3 membership rows, got %d", memberships)
		}
	})

	t.Run("create happens before append", func(t *testing.T) {
		env := setupEngine(t)

		if _, err := env.engine.Publish(context.Background(), testRequest(), nil); err != nil {
			t.Fatalf("publish failed: %v", err)
		}

		if len(env.catalog.Calls) < 2 || env.catalog.Calls[0] != "CreatePlaylist" || env.catalog.Calls[1] != "AppendTracks" {
			t.Errorf("unexpected call order %v", env.catalog.Calls)
		}
	})

	t.Run("emits progress updates through a buffered channel", func(t *testing.T) {
		env := setupEngine(t)

		progress := make(chan ProgressUpdate, 32)
		if _, err := env.engine.Publish(context.Background(), testRequest(), progress); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		if len(phases) == 0 || phases[0] != Validate {
			t.Fatalf("expected leading validate update, got %v", phases)
		}
		if phases[len(phases)-1] != Done {
			t.Errorf("expected trailing done update, got %v", phases)
		}
	})

	t.Run("full channel never blocks the workflow", func(t *testing.T) {
		env := setupEngine(t)

		progress := make(chan ProgressUpdate) // unbuffered, nobody reading
		if _, err := env.engine.Publish(context.Background(), testRequest(), progress); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	})
}

func TestPublishValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PublishRequest)
		want   error
	}{
		{"empty name", func(r *PublishRequest) { r.Name = "" }, shared.ErrInvalidInput},
		{"no tracks", func(r *PublishRequest) { r.Tracks = nil }, shared.ErrInvalidInput},
		{"missing local user", func(r *PublishRequest) { r.LocalUserID = "" }, shared.ErrSessionMissing},
		{"missing external user", func(r *PublishRequest) { r.ExternalUserID = "" }, shared.ErrSessionMissing},
		{"track without URI", func(r *PublishRequest) { r.Tracks[1].URI = "" }, shared.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupEngine(t)

			req := testRequest()
			tc.mutate(&req)

			_, err := env.engine.Publish(context.Background(), req, nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}

			if len(env.catalog.Calls) != 0 {
				t.Errorf("expected no provider calls on rejected request, got %v", env.catalog.Calls)
			}
		})
	}
}

func TestPublishRemoteFailures(t *testing.T) {
	t.Run("create failure writes nothing", func(t *testing.T) {
		env := setupEngine(t)

		env.catalog.CreatePlaylistFunc = func(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error) {
			return nil, fmt.Errorf("boom")
		}

		_, err := env.engine.Publish(context.Background(), testRequest(), nil)
		if !errors.Is(err, shared.ErrRemoteCreate) {
			t.Fatalf("expected ErrRemoteCreate, got %v", err)
		}

		assertEmptyStore(t, env)
	})

	t.Run("append failure leaves the orphan and writes nothing", func(t *testing.T) {
		env := setupEngine(t)

		env.catalog.AppendTracksFunc = func(ctx context.Context, playlistID string, uris []string) error {
			return &services.APIError{Status: 502, Message: "bad gateway"}
		}

		_, err := env.engine.Publish(context.Background(), testRequest(), nil)
		if !errors.Is(err, shared.ErrRemoteAppend) {
			t.Fatalf("expected ErrRemoteAppend, got %v", err)
		}

		assertEmptyStore(t, env)
	})
}

func TestPublishMirrorSkips(t *testing.T) {
	env := setupEngine(t)

	req := testRequest()
	req.Tracks[1].Artist = "" // artist validation fails for this track only

	result, err := env.engine.Publish(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if result.SavedCount != 2 || result.SkippedCount != 1 {
		t.Errorf("expected 2 saved 1 skipped, got %d/%d", result.SavedCount, result.SkippedCount)
	}

	if result.Outcomes[1].Err == nil {
		t.Error("expected outcome error for the skipped track")
	}
	if result.Outcomes[0].Err != nil || result.Outcomes[2].Err != nil {
		t.Error("expected surrounding tracks to save")
	}

	// the skipped track keeps its position gap
	memberships, err := env.playlists.SongCount(result.Record.ID())
	if err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if memberships != 2 {
		t.Errorf("expected 2 membership rows, got %d", memberships)
	}
}

func assertEmptyStore(t *testing.T, env *testEnv) {
	t.Helper()

	var count int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&count); err != nil {
		t.Fatalf("failed to count playlists: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no playlist rows, got %d", count)
	}

	artistCount, err := env.artists.Count()
	if err != nil {
		t.Fatalf("failed to count artists: %v", err)
	}
	if artistCount != 0 {
		t.Errorf("expected no artist rows, got %d", artistCount)
	}
}
