package tasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/time/rate"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// ImportOpts contains configuration for bulk title imports.
type ImportOpts struct {
	RateLimit float64 // Lookups per second (default: 2)
}

// TitleStatus is the outcome of importing one title.
type TitleStatus string

const (
	TitleAdded   TitleStatus = "added"
	TitleSkipped TitleStatus = "skipped"
	TitleMissed  TitleStatus = "missed"
	TitleFailed  TitleStatus = "failed"
)

// TitleResult records what happened to a single title.
type TitleResult struct {
	Title  string
	Status TitleStatus
	Movie  *models.Movie // Set when Status is TitleAdded
	Error  error         // Set when Status is TitleMissed or TitleFailed
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	UserID  int64
	Total   int
	Added   int
	Skipped int
	Missed  int
	Failed  int
	Results []TitleResult
}

// BulkImport looks up each title in order and adds every hit to userID's movies.
//
// Lookups run one at a time behind a rate limiter. Titles whose normalized form
// matches a movie the user already has, or an earlier title in the batch, are
// skipped without a lookup. A missing user fails before any lookup. Cancelling
// ctx stops the import and returns the partial result with the context error.
func (e *MovieEngine) BulkImport(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	userID int64,
	titles []string,
	opts ImportOpts,
) (*ImportResult, error) {
	if e.lookup == nil {
		return nil, fmt.Errorf("%w: no lookup provider configured", shared.ErrMissingCredentials)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	user, err := e.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
	}

	existing, err := e.store.Movies.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing)+len(titles))
	for _, m := range existing {
		seen[shared.NormalizeTitle(m.Name())] = true
	}
	sendProgress(progress, loadExistingUpdate(len(existing)))

	result := &ImportResult{
		UserID:  userID,
		Total:   len(titles),
		Results: make([]TitleResult, 0, len(titles)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, title := range titles {
		step := i + 1
		key := shared.NormalizeTitle(title)

		if key == "" || seen[key] {
			result.Skipped++
			result.Results = append(result.Results, TitleResult{Title: title, Status: TitleSkipped})
			sendProgress(progress, skippedUpdate(step, len(titles), title))
			continue
		}
		seen[key] = true

		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("import interrupted: %w", err)
		}

		sendProgress(progress, lookupTitleUpdate(step, len(titles), title))

		movie, err := e.AddFromLookup(ctx, userID, title)
		switch {
		case err == nil:
			result.Added++
			result.Results = append(result.Results, TitleResult{Title: title, Status: TitleAdded, Movie: movie})
			sendProgress(progress, importedUpdate(step, len(titles), movie))
			if canonical := shared.NormalizeTitle(movie.Name()); canonical != "" {
				seen[canonical] = true
			}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return result, fmt.Errorf("import interrupted: %w", err)
		case errors.Is(err, shared.ErrLookupMiss):
			result.Missed++
			result.Results = append(result.Results, TitleResult{Title: title, Status: TitleMissed, Error: err})
			sendProgress(progress, failedUpdate(step, len(titles), title, err))
		default:
			result.Failed++
			result.Results = append(result.Results, TitleResult{Title: title, Status: TitleFailed, Error: err})
			sendProgress(progress, failedUpdate(step, len(titles), title, err))
			e.logger.Warn("import failed", "title", title, "error", err)
		}
	}

	sendProgress(progress, importDoneUpdate(result))
	return result, nil
}

// ReadTitles reads one title per line, skipping blank lines and lines starting with '#'.
func ReadTitles(r io.Reader) ([]string, error) {
	var titles []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}
	return titles, nil
}
