package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/moviweb/internal/models"
)

const movieColumns = `id, name, director, year, poster_url, user_id`

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// MovieRepository implements [models.Repository] for [models.Movie] persistence.
//
// Operations are scoped by movie ID only; callers that act on behalf of a user
// check [models.Movie.BelongsTo] before mutating.
type MovieRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Movie] = (*MovieRepository)(nil)

// NewMovieRepository creates a new [MovieRepository] with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a movie and assigns the storage-generated ID.
//
// A user_id with no matching user fails with [shared.ErrForeignKeyViolation].
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO movies (name, director, year, poster_url, user_id) VALUES (?, ?, ?, ?, ?)`,
			movie.Name(),
			movie.Director().Ptr(),
			movie.Year().Ptr(),
			movie.PosterURL().Ptr(),
			movie.UserID(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert movie: %w", classify(err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read movie id: %w", err)
		}

		movie.SetID(id)
		return nil
	})
}

// Get retrieves a movie by ID. A missing movie returns (nil, nil).
func (r *MovieRepository) Get(ctx context.Context, id int64) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// List retrieves movies matching the given criteria in storage order.
// Supported criteria: "user_id" (int64).
func (r *MovieRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	args := []any{}

	if userID, ok := criteria["user_id"].(int64); ok {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []*models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// ListByUser returns the movies owned by userID. A nonexistent user yields an empty slice.
func (r *MovieRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Movie, error) {
	return r.List(ctx, map[string]any{"user_id": userID})
}

// Update applies patch to the movie with the given ID and returns the stored result.
//
// Read, merge and write happen in one transaction. A missing movie returns
// (nil, nil) and nothing is written; an empty patch returns the movie unchanged.
func (r *MovieRepository) Update(ctx context.Context, id int64, patch models.MoviePatch) (*models.Movie, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated *models.Movie
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
		movie, err := scanMovie(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if patch.Empty() {
			updated = movie
			return nil
		}

		movie.Apply(patch)
		if err := movie.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE movies SET name = ?, director = ?, year = ?, poster_url = ? WHERE id = ?`,
			movie.Name(),
			movie.Director().Ptr(),
			movie.Year().Ptr(),
			movie.PosterURL().Ptr(),
			movie.ID(),
		)
		if err != nil {
			return fmt.Errorf("failed to update movie: %w", classify(err))
		}

		updated = movie
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a movie by ID and reports whether a row was removed.
// A missing movie returns (false, nil).
func (r *MovieRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete movie: %w", classify(err))
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}

		deleted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// scanMovie scans one row selected with movieColumns. [sql.ErrNoRows] is returned unwrapped.
func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		id        int64
		name      string
		director  sql.NullString
		year      sql.NullInt64
		posterURL sql.NullString
		userID    int64
	)

	err := row.Scan(&id, &name, &director, &year, &posterURL, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	movie := models.NewMovie(userID, name)
	movie.SetID(id)
	movie.SetDirector(nullString(director))
	movie.SetYear(nullInt(year))
	movie.SetPosterURL(nullString(posterURL))
	return movie, nil
}
