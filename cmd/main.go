package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := newApp(runner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()

	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command. Configuration is loaded before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "moviweb",
		Usage:   "Keep lists of favorite movies per user, filled in from OMDb",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}
