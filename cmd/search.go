package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchTracks searches the catalog for tracks matching a query.
func (r *Runner) SearchTracks(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("searching tracks for %q", query)

	results, err := r.catalog.Search(ctx, query, services.KindTrack, int(limit))
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if results, err = r.catalog.Search(ctx, query, services.KindTrack, int(limit)); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if useJSON {
		return r.writeJSON(results.Tracks, pretty)
	}

	r.printTracks(results.Tracks)
	return nil
}

// SearchArtists searches the catalog for artists matching a query.
func (r *Runner) SearchArtists(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("searching artists for %q", query)

	results, err := r.catalog.Search(ctx, query, services.KindArtist, int(limit))
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if results, err = r.catalog.Search(ctx, query, services.KindArtist, int(limit)); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if useJSON {
		return r.writeJSON(results.Artists, pretty)
	}

	r.writePlain("Found %d artists:\n\n", len(results.Artists))
	for i, artist := range results.Artists {
		r.writePlain("%d. %s\n", i+1, artist.Name)
		r.writePlain("   ID: %s\n", artist.ID)
		if len(artist.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(artist.Genres, ", "))
		}
		r.writePlain("\n")
	}

	return nil
}

// SearchGenre searches the catalog for tracks tagged with a genre.
func (r *Runner) SearchGenre(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.StringArg("genre")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if genre == "" {
		return fmt.Errorf("%w: genre is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("searching tracks with genre %q", genre)

	results, err := r.catalog.SearchByGenre(ctx, genre, services.KindTrack)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if results, err = r.catalog.SearchByGenre(ctx, genre, services.KindTrack); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	tracks := results.Tracks
	if limit > 0 && int(limit) < len(tracks) {
		tracks = tracks[:limit]
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.printTracks(tracks)
	return nil
}

// TopTracks shows an artist's most popular tracks.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.StringArg("artist-id")
	market := cmd.String("market")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if artistID == "" {
		return fmt.Errorf("%w: artist id is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("fetching top tracks for artist %v", artistID)

	tracks, err := r.catalog.TopTracks(ctx, artistID, market)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if tracks, err = r.catalog.TopTracks(ctx, artistID, market); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.printTracks(tracks)
	return nil
}

// printTracks writes a numbered track listing to the runner's output.
func (r *Runner) printTracks(tracks []models.Track) {
	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.DurationMS))
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		r.writePlain("   ID: %s\n", track.ID)
		r.writePlain("\n")
	}
}
