package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/repositories"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Lookup outcomes reported to a [LookupRecorder].
const (
	OutcomeSuccess     = "success"
	OutcomeMiss        = "miss"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// LookupRecorder receives one observation per provider call.
type LookupRecorder interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}

// Engine defines the operations exposed to the CLI, web server and TUI.
type Engine interface {
	CreateUser(ctx context.Context, name string) (*models.User, error)
	Users(ctx context.Context) ([]*models.User, error)
	User(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	Movies(ctx context.Context, userID int64) ([]*models.Movie, error)
	Movie(ctx context.Context, id int64) (*models.Movie, error)
	AddMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	LookupMovie(ctx context.Context, title string) (*services.Candidate, error)
	AddFromLookup(ctx context.Context, userID int64, title string) (*models.Movie, error)
	UpdateForUser(ctx context.Context, userID, movieID int64, patch models.MoviePatch) (*models.Movie, error)
	DeleteForUser(ctx context.Context, userID, movieID int64) (bool, error)

	BulkImport(ctx context.Context, progress chan<- ProgressUpdate, userID int64, titles []string, opts ImportOpts) (*ImportResult, error)
}

// MovieEngine implements [Engine] over a [repositories.Store] and a [services.Lookup].
//
// The lookup may be nil when no provider is configured; lookup-backed operations then fail with [shared.ErrMissingCredentials].
type MovieEngine struct {
	store    *repositories.Store
	lookup   services.Lookup
	recorder LookupRecorder
	logger   *log.Logger
}

var _ Engine = (*MovieEngine)(nil)

// NewMovieEngine creates a new [MovieEngine].
func NewMovieEngine(store *repositories.Store, lookup services.Lookup) *MovieEngine {
	return &MovieEngine{
		store:  store,
		lookup: lookup,
		logger: log.New(io.Discard),
	}
}

// SetRecorder sets the recorder that receives lookup observations.
func (e *MovieEngine) SetRecorder(r LookupRecorder) { e.recorder = r }

// SetLogger sets the engine logger.
func (e *MovieEngine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// HasLookup reports whether a metadata provider is configured.
func (e *MovieEngine) HasLookup() bool { return e.lookup != nil }

// CreateUser creates a user profile. A taken name fails with [shared.ErrUniqueViolation].
func (e *MovieEngine) CreateUser(ctx context.Context, name string) (*models.User, error) {
	user := models.NewUser(name)
	if err := e.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	e.logger.Info("user created", "id", user.ID(), "name", user.Name())
	return user, nil
}

// Users returns every user in storage order.
func (e *MovieEngine) Users(ctx context.Context) ([]*models.User, error) {
	return e.store.Users.List(ctx, nil)
}

// User returns the user with id, or nil when there is none.
func (e *MovieEngine) User(ctx context.Context, id int64) (*models.User, error) {
	return e.store.Users.Get(ctx, id)
}

// DeleteUser removes a user who owns no movies.
func (e *MovieEngine) DeleteUser(ctx context.Context, id int64) (bool, error) {
	deleted, err := e.store.Users.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		e.logger.Info("user deleted", "id", id)
	}
	return deleted, nil
}

// Movies returns the movies owned by userID.
func (e *MovieEngine) Movies(ctx context.Context, userID int64) ([]*models.Movie, error) {
	return e.store.Movies.ListByUser(ctx, userID)
}

// Movie returns the movie with id, or nil when there is none.
func (e *MovieEngine) Movie(ctx context.Context, id int64) (*models.Movie, error) {
	return e.store.Movies.Get(ctx, id)
}

// AddMovie stores a movie built by the caller.
func (e *MovieEngine) AddMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	if err := e.store.Movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	e.logger.Info("movie added", "id", movie.ID(), "name", movie.Name(), "user_id", movie.UserID())
	return movie, nil
}

// LookupMovie queries the provider once for title and records the outcome.
func (e *MovieEngine) LookupMovie(ctx context.Context, title string) (*services.Candidate, error) {
	if e.lookup == nil {
		return nil, fmt.Errorf("%w: no lookup provider configured", shared.ErrMissingCredentials)
	}

	start := time.Now()
	candidate, err := e.lookup.Lookup(ctx, title)
	outcome := ClassifyLookup(err)

	if e.recorder != nil {
		e.recorder.ObserveLookup(outcome, time.Since(start))
	}
	e.logger.Debug("lookup", "provider", e.lookup.Name(), "title", title, "outcome", outcome)

	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// AddFromLookup looks up title and, on a hit, adds the result to userID's movies.
//
// Nothing is written on a miss or when the provider is unavailable.
func (e *MovieEngine) AddFromLookup(ctx context.Context, userID int64, title string) (*models.Movie, error) {
	candidate, err := e.LookupMovie(ctx, title)
	if err != nil {
		return nil, err
	}
	return e.AddMovie(ctx, candidate.Movie(userID))
}

// UpdateForUser merge-patches a movie owned by userID.
//
// A missing movie returns (nil, nil); a movie owned by someone else fails with [shared.ErrNotOwner].
func (e *MovieEngine) UpdateForUser(ctx context.Context, userID, movieID int64, patch models.MoviePatch) (*models.Movie, error) {
	owned, err := e.ownedMovie(ctx, userID, movieID)
	if err != nil || owned == nil {
		return nil, err
	}

	movie, err := e.store.Movies.Update(ctx, movieID, patch)
	if err != nil {
		return nil, err
	}
	if movie != nil {
		e.logger.Info("movie updated", "id", movie.ID(), "user_id", userID)
	}
	return movie, nil
}

// DeleteForUser deletes a movie owned by userID.
//
// A missing movie returns (false, nil); a movie owned by someone else fails with [shared.ErrNotOwner].
func (e *MovieEngine) DeleteForUser(ctx context.Context, userID, movieID int64) (bool, error) {
	movie, err := e.ownedMovie(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	if movie == nil {
		return false, nil
	}

	deleted, err := e.store.Movies.Delete(ctx, movieID)
	if err != nil {
		return false, err
	}
	if deleted {
		e.logger.Info("movie deleted", "id", movieID, "user_id", userID)
	}
	return deleted, nil
}

// ownedMovie loads a movie and checks it belongs to userID. A missing movie returns (nil, nil).
func (e *MovieEngine) ownedMovie(ctx context.Context, userID, movieID int64) (*models.Movie, error) {
	movie, err := e.store.Movies.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}
	if !movie.BelongsTo(userID) {
		return nil, fmt.Errorf("%w: movie %d, user %d", shared.ErrNotOwner, movieID, userID)
	}
	return movie, nil
}

// ClassifyLookup maps a lookup error to one of the Outcome constants.
func ClassifyLookup(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrLookupMiss):
		return OutcomeMiss
	case errors.Is(err, shared.ErrLookupUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
