package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/formatter"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/tasks"
)

// Fields accepted by `movies update --clear`.
var clearableFields = []string{"director", "year", "poster"}

// MoviesList prints a user's movies.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	user, err := requireUser(ctx, engine, userID)
	if err != nil {
		return err
	}

	movies, err := engine.Movies(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's favorite movies (%d)", user.Name(), len(movies)))
	for _, movie := range movies {
		r.writeMovie(movie)
	}
	return nil
}

// MoviesAdd adds a movie from flag values without contacting the provider.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: <name>", shared.ErrMissingArgument)
	}

	movie := models.NewMovie(userID, name)
	if director := strings.TrimSpace(cmd.String("director")); director != "" {
		movie.SetDirector(models.Some(director))
	}
	if raw := cmd.String("year"); raw != "" {
		year, err := parseYearFlag(raw)
		if err != nil {
			return err
		}
		movie.SetYear(models.Some(year))
	}
	if poster := strings.TrimSpace(cmd.String("poster")); poster != "" {
		movie.SetPosterURL(models.Some(poster))
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	if _, err := requireUser(ctx, engine, userID); err != nil {
		return err
	}

	added, err := engine.AddMovie(ctx, movie)
	if err != nil {
		return fmt.Errorf("failed to add movie: %w", err)
	}

	r.writePlain("✓ Added movie %d\n", added.ID())
	r.writeMovie(added)
	return nil
}

// MoviesLookup looks up a title and adds the match to the user's movies.
func (r *Runner) MoviesLookup(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: <title>", shared.ErrMissingArgument)
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	if _, err := requireUser(ctx, engine, userID); err != nil {
		return err
	}

	movie, err := engine.AddFromLookup(ctx, userID, title)
	if err != nil {
		return fmt.Errorf("failed to add %q: %w", title, err)
	}

	r.writePlain("✓ Added movie %d\n", movie.ID())
	r.writeMovie(movie)
	return nil
}

// MoviesUpdate merge-patches a movie. Only flags that were given are written.
func (r *Runner) MoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}
	movieID, err := idArg(cmd, "movie_id")
	if err != nil {
		return err
	}

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update (use --name, --director, --year, --poster or --clear)", shared.ErrMissingArgument)
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	movie, err := engine.UpdateForUser(ctx, userID, movieID, patch)
	if err != nil {
		return fmt.Errorf("failed to update movie %d: %w", movieID, err)
	}
	if movie == nil {
		return fmt.Errorf("%w: movie %d", shared.ErrNotFound, movieID)
	}

	r.writePlain("✓ Updated movie %d\n", movie.ID())
	r.writeMovie(movie)
	return nil
}

// MoviesDelete deletes a movie owned by the given user.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}
	movieID, err := idArg(cmd, "movie_id")
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	deleted, err := engine.DeleteForUser(ctx, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", movieID, err)
	}
	if !deleted {
		return fmt.Errorf("%w: movie %d", shared.ErrNotFound, movieID)
	}

	return r.writePlain("✓ Deleted movie %d\n", movieID)
}

// MoviesExport writes a user's movies to a file.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	user, err := requireUser(ctx, engine, userID)
	if err != nil {
		return err
	}

	movies, err := engine.Movies(ctx, userID)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(&formatter.MovieExport{User: user, Movies: movies}, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export written", "user_id", userID, "movies", len(movies), "path", path)
	return r.writePlain("✓ Exported %d movies to %s\n", len(movies), path)
}

// MoviesImport looks up every title in a file and adds the matches, printing progress as it goes.
func (r *Runner) MoviesImport(ctx context.Context, cmd *cli.Command) error {
	userID, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: <file>", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	titles, err := tasks.ReadTitles(f)
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	rate := cmd.Float("rate")
	if rate <= 0 {
		rate = r.config.Import.RateLimit
	}

	r.writePlain("Importing %d titles...\n\n", len(titles))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LookupTitle:
				r.logger.Debug(update.Message)
			case tasks.ImportDone:
				r.writePlain("\n%s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := engine.BulkImport(ctx, progressCh, userID, titles, tasks.ImportOpts{RateLimit: rate})
	close(progressCh)
	<-done

	if result != nil && result.Missed+result.Failed > 0 {
		r.writePlain("\nNot imported:\n")
		for _, res := range result.Results {
			if res.Status == tasks.TitleMissed || res.Status == tasks.TitleFailed {
				r.writePlain("  - %s: %v\n", res.Title, res.Error)
			}
		}
	}
	return err
}

// LookupTitle queries the provider and prints the match without storing it.
func (r *Runner) LookupTitle(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: <title>", shared.ErrMissingArgument)
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	candidate, err := engine.LookupMovie(ctx, title)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", title, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"name":       candidate.Name,
			"director":   candidate.Director,
			"year":       candidate.Year,
			"poster_url": candidate.PosterURL,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("Title:    %s\n", candidate.Name)
	r.writePlain("Director: %s\n", candidate.Director.OrElse("-"))
	if year, ok := candidate.Year.Get(); ok {
		r.writePlain("Year:     %d\n", year)
	} else {
		r.writePlain("Year:     -\n")
	}
	return r.writePlain("Poster:   %s\n", candidate.PosterURL.OrElse("-"))
}

func (r *Runner) writeMovie(movie *models.Movie) {
	year := "----"
	if y, ok := movie.Year().Get(); ok {
		year = fmt.Sprintf("%d", y)
	}
	r.writePlain("%4d  %s  %s", movie.ID(), year, movie.Name())
	if director, ok := movie.Director().Get(); ok {
		r.writePlain(" (%s)", director)
	}
	r.writePlain("\n")
}

// patchFromFlags builds a merge-patch from the flags that were explicitly set.
func patchFromFlags(cmd *cli.Command) (models.MoviePatch, error) {
	var patch models.MoviePatch

	cleared := cmd.StringSlice("clear")
	for _, field := range cleared {
		if !slices.Contains(clearableFields, field) {
			return patch, fmt.Errorf("%w: cannot clear %q (want one of %s)", shared.ErrInvalidArgument, field, strings.Join(clearableFields, ", "))
		}
	}

	if cmd.IsSet("name") {
		patch.Name = models.Set(strings.TrimSpace(cmd.String("name")))
	}

	switch {
	case slices.Contains(cleared, "director"):
		patch.Director = models.SetNull[string]()
	case cmd.IsSet("director"):
		patch.Director = models.Set(strings.TrimSpace(cmd.String("director")))
	}

	switch {
	case slices.Contains(cleared, "year"):
		patch.Year = models.SetNull[int]()
	case cmd.IsSet("year"):
		year, err := parseYearFlag(cmd.String("year"))
		if err != nil {
			return patch, err
		}
		patch.Year = models.Set(year)
	}

	switch {
	case slices.Contains(cleared, "poster"):
		patch.PosterURL = models.SetNull[string]()
	case cmd.IsSet("poster"):
		patch.PosterURL = models.Set(strings.TrimSpace(cmd.String("poster")))
	}

	return patch, nil
}

func parseYearFlag(raw string) (int, error) {
	year, ok := services.ParseYear(strings.TrimSpace(raw)).Get()
	if !ok {
		return 0, fmt.Errorf("%w: year must be a whole number, got %q", shared.ErrInvalidArgument, raw)
	}
	return year, nil
}
