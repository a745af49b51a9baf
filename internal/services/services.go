package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Lookup defines the interface for movie metadata providers.
type Lookup interface {
	// Lookup fetches metadata for a single title.
	// Returns a [LookupMissError] when the provider has no match.
	Lookup(ctx context.Context, title string) (*Candidate, error)

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}

// Candidate is the field set extracted from a positive lookup.
type Candidate struct {
	Name      string
	Director  models.Optional[string]
	Year      models.Optional[int]
	PosterURL models.Optional[string]
}

// Movie builds an unsaved [models.Movie] owned by userID from the candidate.
func (c *Candidate) Movie(userID int64) *models.Movie {
	movie := models.NewMovie(userID, c.Name)
	movie.SetDirector(c.Director)
	movie.SetYear(c.Year)
	movie.SetPosterURL(c.PosterURL)
	return movie
}

// LookupMissError reports a provider-level "no match", carrying the provider's message.
type LookupMissError struct {
	Title   string
	Message string
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("%v for %q: %s", shared.ErrLookupMiss, e.Title, e.Message)
}

// Is matches [shared.ErrLookupMiss].
func (e *LookupMissError) Is(target error) bool {
	return target == shared.ErrLookupMiss
}
