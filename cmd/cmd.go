// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func musicFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "music",
		Usage: "Path to music_data.json (default: paths.music_data)",
	}
}

func graphFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "graph",
		Usage: "Path to graph_data.json (default: paths.graph_data)",
	}
}

// globalFlags are accepted by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (default: config.toml when present)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Append logs to a file instead of stderr (useful with --interactive)",
		},
	}
}

// startCommand bootstraps and runs the Python backend
func startCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Set up the backend virtualenv and run the mapper server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Backend directory (default: backend/ next to the ytmap binary)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the planned steps without running them",
			},
		},
		Action: r.Start,
	}
}

// setupCommand handles one-time initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database and YouTube Music authentication",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "init-config",
						Usage: "Write config.toml from the built-in template when it does not exist",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "auth",
				Usage: "Create browser.json from YouTube Music request headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from browser DevTools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:  "cookie",
						Usage: "Cookie header value",
					},
					&cli.StringFlag{
						Name:  "authorization",
						Usage: "Authorization header value (optional)",
					},
					&cli.StringFlag{
						Name:  "auth-user",
						Usage: "X-Goog-AuthUser header value",
						Value: "0",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Enter the headers in a terminal wizard",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for browser.json (default: paths.auth_file)",
					},
				},
				Action: r.SetupAuth,
			},
		},
	}
}

// importCommand reads exported listening data
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import listening data",
		Commands: []*cli.Command{
			{
				Name:      "takeout",
				Usage:     "Import a Google Takeout export into music_data.json",
				ArgsUsage: "<takeout-dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: paths.music_data)",
					},
				},
				Action: r.ImportTakeout,
			},
		},
	}
}

// genresCommand classifies artists in an existing graph
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Genre classification",
		Commands: []*cli.Command{
			{
				Name:  "assign",
				Usage: "Assign genres to graph artists and infer the rest from their neighbours",
				Flags: []cli.Flag{
					graphFlag(),
					&cli.BoolFlag{
						Name:  "save-map",
						Usage: "Write the assigned genres to paths.genre_map",
					},
				},
				Action: r.AssignGenres,
			},
		},
	}
}

// graphCommand builds and exports artist graphs
func graphCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Artist graph operations",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build graph_data.json from music_data.json",
				Flags: []cli.Flag{
					musicFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: paths.graph_data)",
					},
					&cli.BoolFlag{
						Name:  "enrich",
						Usage: "Look up missing genres on Last.fm",
						Value: true,
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Show live progress",
					},
				},
				Action: r.BuildGraph,
			},
			{
				Name:   "rebuild",
				Usage:  "Refill artist song lists from music_data.json",
				Flags:  []cli.Flag{musicFlag(), graphFlag()},
				Action: r.RebuildGraph,
			},
			{
				Name:  "export",
				Usage: "Export graph artists as CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					graphFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: graph.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "genres",
						Usage: "Print the genre distribution",
					},
				},
				Action: r.ExportGraph,
			},
		},
	}
}

// serveCommand runs the native API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the mapper HTTP API and frontend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the frontend in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// apiCommand makes raw requests against a running backend
func apiCommand(r *Runner) *cli.Command {
	urlFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "url",
			Usage: "Backend URL (default: http://localhost:<launcher.server_port>)",
		}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct requests to a running mapper backend",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the backend's data and authentication mode",
				Flags:  []cli.Flag{urlFlag()},
				Action: r.APIStatus,
			},
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					urlFlag(),
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print JSON on one line",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with a JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					urlFlag(),
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON request body",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify library operations",
		Commands: []*cli.Command{
			{
				Name:  "library",
				Usage: "Authorize with Spotify and build a graph from your saved tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-tracks",
						Usage: "Maximum number of saved tracks to read (default: credentials.spotify.max_tracks)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: paths.graph_data)",
					},
				},
				Action: r.SpotifyLibrary,
			},
		},
	}
}
