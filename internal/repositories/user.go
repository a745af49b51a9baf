package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/moviweb/internal/models"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.User] = (*UserRepository)(nil)

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and assigns the storage-generated ID.
//
// Name uniqueness is left to the UNIQUE constraint, so a duplicate fails with [shared.ErrUniqueViolation].
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, user.Name())
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", classify(err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}

		user.SetID(id)
		return nil
	})
}

// Get retrieves a user by ID. A missing user returns (nil, nil).
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var (
		userID int64
		name   string
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE id = ?`, id).Scan(&userID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user := models.NewUser(name)
	user.SetID(userID)
	return user, nil
}

// List retrieves all users in storage order. Supported criteria: "name" (exact match).
func (r *UserRepository) List(ctx context.Context, criteria map[string]any) ([]*models.User, error) {
	query := `SELECT id, name FROM users`
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(name)
		user.SetID(id)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// GetByName retrieves a user by exact name. A missing user returns (nil, nil).
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	users, err := r.List(ctx, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// Delete removes a user by ID and reports whether a row was removed.
//
// Movies reference users with ON DELETE RESTRICT, so deleting a user who still
// owns movies fails with [shared.ErrForeignKeyViolation] and nothing changes.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", classify(err))
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
