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
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using the implicit grant flow",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand handles Spotify playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List editable Spotify playlists",
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
				Action: r.PlaylistsList,
			},
			{
				Name:  "create",
				Usage: "Create a private Spotify playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistsCreate,
			},
		},
	}
}

// matchCommand runs the matching engine over a playlist file and prints candidates.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Match a playlist file against the Spotify catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "requery",
				Usage: "Re-search one track with a custom query (INPUT_ID=QUERY, repeatable)",
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
		Action: r.MatchRun,
	}
}

// importCommand matches a playlist file and adds the matched tracks to a playlist.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import matched tracks into a Spotify playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Target playlist ID",
			},
			&cli.StringFlag{
				Name:  "create",
				Usage: "Create a new private playlist with this name and import into it",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Write unmatched tracks to this XSPF file after the import",
			},
		},
		Action: r.ImportRun,
	}
}

// exportCommand writes the unmatched remainder of a playlist file to XSPF.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export unmatched tracks as an XSPF playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
				Value:   "spotify-playlist-importer.xspf",
			},
		},
		Action: r.ExportRun,
	}
}

// mappingCommand inspects and edits the persisted track id mapping.
func mappingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mapping",
		Usage: "Inspect and edit stored track mappings",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored mappings",
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
				Action: r.MappingList,
			},
			{
				Name:  "set",
				Usage: "Map an input track id to a Spotify track id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
					&cli.StringArg{Name: "output"},
				},
				Action: r.MappingSet,
			},
			{
				Name:    "rm",
				Aliases: []string{"remove"},
				Usage:   "Remove a stored mapping",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Action: r.MappingRemove,
			},
		},
	}
}
