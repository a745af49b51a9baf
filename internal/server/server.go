package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/moviweb/internal/tasks"
	"github.com/desertthunder/moviweb/internal/web"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// StatusRecorder receives one observation per HTTP response.
type StatusRecorder interface {
	RecordHTTPStatus(method string, statusCode int)
}

// Deps contains what [NewRouter] needs to build the app.
type Deps struct {
	Engine    tasks.Engine
	Renderer  *web.Renderer
	DB        *sql.DB        // Pinged by /healthz when set
	Recorder  StatusRecorder // Optional
	Metrics   http.Handler   // Served at /metrics when set
	CanLookup bool           // Whether a lookup provider is configured
	Logger    *log.Logger
}

// app holds the handler dependencies.
type app struct {
	engine    tasks.Engine
	renderer  *web.Renderer
	db        *sql.DB
	canLookup bool
	logger    *log.Logger
}

// NewRouter builds the chi router with all routes and the middleware stack.
//
// Middleware order: RequestID → Logging → Recovery → Metrics.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("server: engine is required")
	}
	if deps.Renderer == nil {
		r, err := web.NewRenderer()
		if err != nil {
			return nil, err
		}
		deps.Renderer = r
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	a := &app{
		engine:    deps.Engine,
		renderer:  deps.Renderer,
		db:        deps.DB,
		canLookup: deps.CanLookup,
		logger:    deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(stack(deps.Logger, deps.Recorder)...)

	r.Get("/", a.home)
	r.Get("/healthz", a.healthz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Post("/users", a.createUser)
	r.Route("/users/{user_id}/movies", func(r chi.Router) {
		r.Get("/", a.listMovies)
		r.Post("/", a.addMovie)
		r.Post("/{movie_id}/update", a.updateMovie)
		r.Post("/{movie_id}/delete", a.deleteMovie)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		a.renderError(w, req, fmt.Errorf("no page at %s", req.URL.Path), http.StatusNotFound, "/")
	})

	return r, nil
}

// stack returns the router middleware, outermost first.
// Metrics sits outside Recovery so recovered panics are counted as 500s.
func stack(logger *log.Logger, recorder StatusRecorder) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{RequestID, Logging(logger)}
	if recorder != nil {
		mws = append(mws, Metrics(recorder))
	}
	return append(mws, Recovery(logger))
}

// Serve runs an HTTP server on addr until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}
