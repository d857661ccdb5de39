// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// accountCommand handles identity provider operations.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"acct"},
		Usage:   "Manage your account session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccountLogin,
			},
			{
				Name:  "signup",
				Usage: "Create a new account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccountSignup,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the local session",
				Action: r.AccountLogout,
			},
			{
				Name:  "reset",
				Usage: "Request a password reset email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Action: r.AccountReset,
			},
			{
				Name:  "passwd",
				Usage: "Change the signed-in account's password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccountPasswd,
			},
			{
				Name:  "status",
				Usage: "Show the current session state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AccountStatus,
			},
		},
	}
}

// spotifyCommand handles Spotify operations.
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SpotifyConnect,
			},
			{
				Name:  "profile",
				Usage: "Show the connected Spotify profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyProfile,
			},
		},
	}
}

// searchCommand handles catalog search operations.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the Spotify catalog",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "Search for tracks by title or keywords",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SearchTracks,
			},
			{
				Name:  "artists",
				Usage: "Search for artists by name",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SearchArtists,
			},
			{
				Name:  "genre",
				Usage: "Search for tracks tagged with a genre",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "genre",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SearchGenre,
			},
			{
				Name:    "top-tracks",
				Aliases: []string{"top"},
				Usage:   "Show an artist's top tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "artist-id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "market",
						Usage: "Market code for top track rankings",
						Value: "US",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TopTracks,
			},
		},
	}
}

// publishCommand handles playlist assembly and publication.
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Publish a playlist to Spotify and record it locally",
		ArgsUsage: "[track queries...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Playlist name",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Publish,
	}
}

// historyCommand handles the published playlist history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Browse playlists you have published",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List published playlists with their tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Case-insensitive text filter over titles and artists",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Only include playlists published on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Only include playlists published on or before this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort direction by publish date (asc or desc)",
						Value: "desc",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Export format (csv, markdown, text, json)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path for exports",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist building.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for building and publishing playlists",
		Action:  r.TUI,
	}
}
