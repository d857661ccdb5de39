package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/desertthunder/mixify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Publish assembles tracks from search queries, creates the playlist on
// Spotify, and mirrors the result into the local history.
//
// Each positional argument is a track search query resolved to its first
// match. A query with no matches aborts before anything is published.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	queries := cmd.Args().Slice()
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if len(queries) == 0 {
		return fmt.Errorf("%w: at least one track query is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	if !r.store.SignedIn() {
		return fmt.Errorf("%w: not signed in, run: mixify account login", shared.ErrSessionMissing)
	}

	tracks, err := r.resolveTracks(ctx, cmd, queries)
	if err != nil {
		return err
	}

	externalUserID := r.store.ExternalUserID()
	if externalUserID == "" {
		profile, err := r.catalog.Profile(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		externalUserID = profile.ID
		if err := r.store.SetExternalIdentity(profile.ID, profile.DisplayName); err != nil {
			r.logger.Warn("failed to record spotify identity", "error", err)
		}
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	rp := newRepos(db)
	engine := tasks.NewPublishEngine(r.catalog, rp.artists, rp.songs, rp.playlists, r.logger)

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			switch update.Phase {
			case tasks.MirrorTracks:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			default:
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Publish(ctx, tasks.PublishRequest{
		Name:           name,
		Tracks:         tracks,
		LocalUserID:    r.store.LocalUserID(),
		ExternalUserID: externalUserID,
	}, progress)
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	if err := r.store.SetLastPlaylist(result.Record.ID()); err != nil {
		r.logger.Warn("failed to record last playlist", "error", err)
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"name":                name,
			"spotify_playlist_id": result.Remote.ID,
			"record_id":           result.Record.ID(),
			"saved":               result.SavedCount,
			"skipped":             result.SkippedCount,
		}, pretty)
	}

	r.writePlain("\n✓ Published %q to Spotify\n", name)
	r.writePlain("  Spotify playlist: %s\n", result.Remote.ID)
	r.writePlain("  Saved to history: %d tracks", result.SavedCount)
	if result.SkippedCount > 0 {
		r.writePlain(" (%d skipped)", result.SkippedCount)
	}
	r.writePlain("\n")

	return nil
}

// resolveTracks maps each query to the first track the catalog returns for it.
func (r *Runner) resolveTracks(ctx context.Context, cmd *cli.Command, queries []string) ([]models.Track, error) {
	tracks := make([]models.Track, 0, len(queries))
	for _, query := range queries {
		results, err := r.catalog.Search(ctx, query, services.KindTrack, 1)
		if err != nil {
			if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
				if authErr != nil {
					return nil, authErr
				}
				if results, err = r.catalog.Search(ctx, query, services.KindTrack, 1); err != nil {
					return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
				}
			} else {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		}
		if len(results.Tracks) == 0 {
			return nil, fmt.Errorf("%w: no match for %q", shared.ErrTrackNotFound, query)
		}

		track := results.Tracks[0]
		r.writePlain("✓ %q → %s - %s\n", query, track.Artist, track.Title)
		tracks = append(tracks, track)
	}
	return tracks, nil
}
