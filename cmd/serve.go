package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/metrics"
	"github.com/desertthunder/moviweb/internal/server"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/web"
)

// serverDeps wires the engine, templates and metrics into [server.Deps].
func (r *Runner) serverDeps() (*server.Deps, error) {
	engine, err := r.Engine()
	if err != nil {
		return nil, err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	if !engine.HasLookup() {
		r.logger.Warn("no lookup API key configured, adding movies is disabled", "env", shared.EnvAPIKey)
	}

	return &server.Deps{
		Engine:    engine,
		Renderer:  renderer,
		DB:        r.store.DB(),
		Recorder:  r.collector,
		Metrics:   metrics.Handler(r.registry),
		CanLookup: engine.HasLookup(),
		Logger:    shared.WithLogger(r.logger, "component", "http"),
	}, nil
}

// Serve runs the web app until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	deps, err := r.serverDeps()
	if err != nil {
		return err
	}

	handler, err := server.NewRouter(*deps)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}
	addr := cfg.Addr()

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/", addr)
		time.AfterFunc(500*time.Millisecond, func() {
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("could not open browser", "url", url, "error", err)
			}
		})
	}

	return server.Serve(ctx, addr, handler, r.logger)
}
