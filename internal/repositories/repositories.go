package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Store groups the repositories that share a connection pool.
type Store struct {
	db     *sql.DB
	Users  *UserRepository
	Movies *MovieRepository
}

// NewStore creates a [Store] over db. The caller owns db and closes it through [Store.Close].
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		Users:  NewUserRepository(db),
		Movies: NewMovieRepository(db),
	}
}

// OpenStore opens the SQLite database at path, applies pending migrations and returns a [Store].
func OpenStore(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewStore(db), nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// classify joins constraint failures from the driver with the matching sentinel error.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %w", shared.ErrUniqueViolation, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", shared.ErrForeignKeyViolation, err)
	case sqlite3.ErrConstraintTrigger:
		// ON DELETE RESTRICT is reported as a trigger constraint.
		if strings.Contains(sqliteErr.Error(), "FOREIGN KEY") {
			return fmt.Errorf("%w: %w", shared.ErrForeignKeyViolation, err)
		}
		return err
	default:
		return err
	}
}

// nullString converts a nullable column into an [models.Optional].
func nullString(ns sql.NullString) models.Optional[string] {
	if !ns.Valid {
		return models.None[string]()
	}
	return models.Some(ns.String)
}

func nullInt(ni sql.NullInt64) models.Optional[int] {
	if !ni.Valid {
		return models.None[int]()
	}
	return models.Some(int(ni.Int64))
}
