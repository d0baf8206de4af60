// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// generateCommand runs the mood pipeline for one song.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen", "g"},
		Usage:   "Build a mood playlist for a song title",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "song",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "store",
				Aliases: []string{"s"},
				Usage:   "Send each playlist entry to the storage API",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file instead of stdout",
			},
		},
		Action: r.Generate,
	}
}

// songsCommand handles stored playlist entries.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Songs stored by the storage API",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List every stored playlist entry",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, markdown, csv, json)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the list to a file instead of stdout",
					},
				},
				Action: r.Songs,
			},
		},
	}
}

// statusCommand reports credential and backend state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which API keys are configured and whether the storage API is running",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// apiCommand serves the storage resource.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "api",
		Aliases: []string{"serve"},
		Usage:   "Run the song storage API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to server.port from config)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (defaults to database.path from config)",
			},
		},
		Action: r.ServeAPI,
	}
}

// webCommand serves the browser form.
func webCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Run the browser form",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to web.host from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to web.port from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the form in the default browser",
			},
		},
		Action: r.ServeWeb,
	}
}

// setupCommand handles setup operations for configuration and the database.
//
// Every subcommand reads the root --config flag.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.RollbackDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-store",
				Usage: "Do not send results to the storage API",
			},
		},
		Action: r.TUI,
	}
}
