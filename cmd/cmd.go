// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/formatter"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new config file (default: the --config path)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// usersCommand handles user profile operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"user"},
		Usage:   "Manage user profiles",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all users",
				Flags:  jsonFlags(),
				Action: r.UsersList,
			},
			{
				Name:      "create",
				Usage:     "Create a user with a unique name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.UsersCreate,
			},
			{
				Name:      "show",
				Usage:     "Show a user and their movie count",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user_id"}},
				Flags:     jsonFlags(),
				Action:    r.UsersShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a user who has no movies",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user_id"}},
				Action:    r.UsersDelete,
			},
		},
	}
}

// moviesCommand handles a user's favorite movies
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"movie"},
		Usage:   "Manage a user's favorite movies",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List a user's movies",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user_id"}},
				Flags:     jsonFlags(),
				Action:    r.MoviesList,
			},
			{
				Name:  "add",
				Usage: "Add a movie by hand, without a lookup",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user_id"},
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "director", Usage: "Director"},
					&cli.StringFlag{Name: "year", Usage: "Release year"},
					&cli.StringFlag{Name: "poster", Usage: "Poster image URL"},
				},
				Action: r.MoviesAdd,
			},
			{
				Name:  "lookup",
				Usage: "Look up a title and add the match to a user's movies",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user_id"},
					&cli.StringArg{Name: "title"},
				},
				Action: r.MoviesLookup,
			},
			{
				Name:  "update",
				Usage: "Change selected fields of a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user_id"},
					&cli.StringArg{Name: "movie_id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "director", Usage: "New director"},
					&cli.StringFlag{Name: "year", Usage: "New release year"},
					&cli.StringFlag{Name: "poster", Usage: "New poster image URL"},
					&cli.StringSliceFlag{
						Name:  "clear",
						Usage: "Clear a field (director, year or poster)",
					},
				},
				Action: r.MoviesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete one of a user's movies",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user_id"},
					&cli.StringArg{Name: "movie_id"},
				},
				Action: r.MoviesDelete,
			},
			{
				Name:      "export",
				Usage:     "Export a user's movies to a file",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user_id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatCSV,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: user_<id>_movies.<ext>)",
					},
				},
				Action: r.MoviesExport,
			},
			{
				Name:  "import",
				Usage: "Look up every title in a file, one per line, and add the matches",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user_id"},
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Lookups per second (default: import.rate_limit)",
					},
				},
				Action: r.MoviesImport,
			},
		},
	}
}

// lookupCommand queries the metadata provider without storing anything.
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Look up a movie title with the metadata provider",
		Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
		Flags:     jsonFlags(),
		Action:    r.LookupTitle,
	}
}

// serveCommand runs the web app.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web app",
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
				Usage: "Open the app in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for browsing users and movies.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing users and movies",
		Action:  r.TUI,
	}
}
