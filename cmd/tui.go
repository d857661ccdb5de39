package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/desertthunder/mixify/internal/tasks"
	"github.com/desertthunder/mixify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for building and publishing playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if !r.store.SignedIn() {
		return fmt.Errorf("%w: not signed in, run: mixify account login", shared.ErrSessionMissing)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mixify-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	rp := newRepos(db)
	engine := tasks.NewPublishEngine(r.catalog, rp.artists, rp.songs, rp.playlists, r.logger)

	model := ui.NewModel(ctx, r.catalog, engine, r.store, rp.playlists)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
