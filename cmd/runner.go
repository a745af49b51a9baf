package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/metrics"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/repositories"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store and engine are opened lazily so that commands such as `setup config` never touch the database.
type Runner struct {
	config     *shared.Config
	configPath string
	store      *repositories.Store
	lookup     services.Lookup
	engine     *tasks.MovieEngine
	registry   *prometheus.Registry
	collector  *metrics.Collector
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      *repositories.Store // Opened from Config when nil
	Lookup     services.Lookup     // Built from Config when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Lookup.Timeout()}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		lookup:     opts.Lookup,
		registry:   registry,
		collector:  metrics.NewCollector(registry),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Configure loads the configuration file named by the --config flag, applies environment overrides and validates the result.
//
// A missing file is not an error: the embedded defaults are used instead.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	r.config.ApplyEnv()
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}
	r.httpClient.Timeout = r.config.Lookup.Timeout()
	return ctx, nil
}

// SetLogger replaces the logger used by the runner and everything it has built.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.engine != nil {
		r.engine.SetLogger(logger)
	}
	if svc, ok := r.lookup.(*services.OMDbService); ok {
		svc.SetLogger(logger)
	}
}

// Close releases the store if one was opened.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// Engine opens the store on first use and returns the movie engine.
func (r *Runner) Engine() (*tasks.MovieEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if r.store == nil {
		store, err := repositories.OpenStore(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
		}
		if r.config.Database.Path != ":memory:" {
			shared.ConfigureDatabase(store.DB(), r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		}
		r.store = store
	}

	lookup, err := r.Lookup()
	if err != nil && !errors.Is(err, shared.ErrMissingCredentials) {
		return nil, err
	}

	engine := tasks.NewMovieEngine(r.store, lookup)
	engine.SetRecorder(r.collector)
	engine.SetLogger(r.logger)
	r.engine = engine
	return engine, nil
}

// Lookup returns the configured metadata provider.
//
// Without an API key it returns (nil, [shared.ErrMissingCredentials]).
func (r *Runner) Lookup() (services.Lookup, error) {
	if r.lookup != nil {
		return r.lookup, nil
	}

	svc, err := services.NewOMDbService(r.config.Lookup.APIKey, r.config.Lookup.ProviderURL, r.httpClient)
	if err != nil {
		return nil, err
	}
	svc.SetLogger(r.logger)
	r.lookup = svc
	return svc, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, usersCommand, moviesCommand, lookupCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// idArg parses the named positional argument as a storage id.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// requireUser loads a user, turning a missing one into [shared.ErrNotFound].
func requireUser(ctx context.Context, engine tasks.Engine, id int64) (*models.User, error) {
	user, err := engine.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return user, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
