package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/session"
	"github.com/desertthunder/mixify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := session.NewStore(config.Session.Path)
	if err := store.Load(); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}

	var catalog services.Catalog
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if config.Credentials.Spotify.AccessToken != "" {
				if err := svc.Authenticate(ctx, map[string]string{
					"access_token":  config.Credentials.Spotify.AccessToken,
					"refresh_token": config.Credentials.Spotify.RefreshToken,
				}); err != nil {
					logger.Warn("stored Spotify token rejected", "error", err)
				}
			}
			catalog = svc
		}
	}

	var identity *services.IdentityService
	if config.Credentials.Identity.URL != "" && config.Credentials.Identity.AnonKey != "" {
		if svc, err := services.NewIdentityService(config.Credentials.Identity.URL, config.Credentials.Identity.AnonKey); err == nil {
			identity = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Catalog:  catalog,
		Identity: identity,
		Store:    store,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "mixify",
		Usage:    "Assemble playlists from the Spotify catalog and keep a history of what you publish",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
