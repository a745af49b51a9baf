package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}

		if migrations[0].Name != "create_tables" {
			t.Errorf("expected first migration name create_tables, got %q", migrations[0].Name)
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		ran, err := RunMigrations(db)
		if err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if len(ran) == 0 {
			t.Error("expected at least one migration to be applied")
		}

		for _, table := range []string{"users", "movies"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		applied, err := AppliedVersions(db)
		if err != nil {
			t.Fatalf("failed to read applied versions after rollback: %v", err)
		}
		if len(applied) >= len(ran) {
			t.Errorf("expected migration count to decrease after rollback, got %d (was %d)", len(applied), len(ran))
		}
	})

	t.Run("Rollback With Nothing Applied", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when no migrations are applied")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		ran, err := RunMigrations(db)
		if err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}
		if len(ran) != 0 {
			t.Errorf("expected no migrations on second run, got %v", ran)
		}

		applied, err := AppliedVersions(db)
		if err != nil {
			t.Fatalf("failed to read applied versions: %v", err)
		}

		migrations, _ := loadMigrations()
		if len(applied) != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), len(applied))
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- header\nCREATE TABLE t (id INTEGER) -- trailing\n\n")
	if got != "CREATE TABLE t (id INTEGER)" {
		t.Errorf("removeComments() = %q", got)
	}
}

func TestExecStatements(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	script := "-- widgets; one per row\nCREATE TABLE widgets (id INTEGER); -- trailing; note\n\n-- another; comment\nCREATE TABLE gadgets (id INTEGER);\n"
	if err := execStatements(tx, script); err != nil {
		t.Fatalf("execStatements() error = %v", err)
	}

	for _, table := range []string{"widgets", "gadgets"} {
		var name string
		row := tx.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}
