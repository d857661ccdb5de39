package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixify/internal/formatter"
	"github.com/desertthunder/mixify/internal/history"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList lists published playlists with optional filtering, sorting, and export.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	filterText := cmd.String("filter")
	fromStr := cmd.String("from")
	toStr := cmd.String("to")
	sortDir := cmd.String("sort")
	exportFormat := cmd.String("export")
	outputPath := cmd.String("output")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if !r.store.SignedIn() {
		return fmt.Errorf("%w: not signed in, run: mixify account login", shared.ErrSessionMissing)
	}

	filter := history.Filter{Text: filterText}

	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fmt.Errorf("%w: --from must be YYYY-MM-DD", shared.ErrInvalidFlag)
		}
		filter.From = from
	}

	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fmt.Errorf("%w: --to must be YYYY-MM-DD", shared.ErrInvalidFlag)
		}
		// Whole-day bound
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	var direction history.Direction
	switch sortDir {
	case "", "desc":
		direction = history.Desc
	case "asc":
		direction = history.Asc
	default:
		return fmt.Errorf("%w: --sort must be asc or desc", shared.ErrInvalidFlag)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := newRepos(db).playlists.ListByOwner(r.store.LocalUserID())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	records = history.Sort(history.Apply(records, filter), direction)

	if exportFormat != "" {
		path, err := formatter.WriteExport(records, exportFormat, outputPath)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.writePlain("✓ Exported %d playlists to %s\n", len(records), path)
		return nil
	}

	if useJSON {
		return r.writeJSON(records, pretty)
	}

	if len(records) == 0 {
		r.writePlainln("No published playlists found.")
		return nil
	}

	r.writePlain("Found %d playlists:\n\n", len(records))
	for _, record := range records {
		r.writePlain("%s\n", record.Title)
		r.writePlain("  Published: %s\n", record.CreatedAt.Format("2006-01-02 15:04"))
		r.writePlain("  Spotify ID: %s\n", record.SpotifyPlaylistID)
		for _, song := range record.Songs {
			r.writePlain("  %d. %s - %s [%s]\n", song.Position, song.Artist, song.Title, shared.FormatDuration(song.DurationMS))
		}
		r.writePlain("\n")
	}

	return nil
}
