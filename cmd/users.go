package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/shared"
)

// UsersList prints every user.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.Engine()
	if err != nil {
		return err
	}

	users, err := engine.Users(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}

	if len(users) == 0 {
		return r.writePlain("No users yet. Create one with 'moviweb users create <name>'\n")
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, user := range users {
		r.writePlain("%4d  %s\n", user.ID(), user.Name())
	}
	return nil
}

// UsersCreate creates a user.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: <name>", shared.ErrMissingArgument)
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	user, err := engine.CreateUser(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", name, err)
	}

	return r.writePlain("✓ Created user %s (id %d)\n", user.Name(), user.ID())
}

// UsersShow prints one user and how many movies they have.
func (r *Runner) UsersShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	user, err := requireUser(ctx, engine, id)
	if err != nil {
		return err
	}

	movies, err := engine.Movies(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"user": user, "movies": len(movies)}, cmd.Bool("pretty"))
	}

	r.writePlain("ID:     %d\n", user.ID())
	r.writePlain("Name:   %s\n", user.Name())
	return r.writePlain("Movies: %d\n", len(movies))
}

// UsersDelete deletes a user. Users who still own movies cannot be deleted.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "user_id")
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	deleted, err := engine.DeleteUser(ctx, id)
	if errors.Is(err, shared.ErrForeignKeyViolation) {
		return fmt.Errorf("failed to delete user %d (delete their movies first): %w", id, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}

	return r.writePlain("✓ Deleted user %d\n", id)
}
