package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviweb/internal/shared"
)

// SetupDatabase initializes the database and runs migrations, or rolls back the latest one with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("✓ Rolled back the latest migration\n")
		return nil
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	versions, err := shared.AppliedVersions(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("✓ Database ready at %s\n", path)
	r.writePlain("Applied %d new migration(s), schema at version %d\n", len(applied), latest(versions))
	return nil
}

// SetupConfig writes the embedded example config to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: --output", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set %s in the environment or a .env file to enable lookups\n", shared.EnvAPIKey)
	return nil
}

func latest(versions []int) int {
	if len(versions) == 0 {
		return 0
	}
	return versions[len(versions)-1]
}
