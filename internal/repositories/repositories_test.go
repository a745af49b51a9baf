package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// setupTestStore creates an in-memory SQLite store with migrations applied
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *Store, name string) *models.User {
	t.Helper()

	user := models.NewUser(name)
	if err := store.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %q: %v", name, err)
	}
	return user
}

func mustCreateMovie(t *testing.T, store *Store, userID int64, name string) *models.Movie {
	t.Helper()

	movie := models.NewMovie(userID, name)
	if err := store.Movies.Create(context.Background(), movie); err != nil {
		t.Fatalf("failed to create movie %q: %v", name, err)
	}
	return movie
}

func TestClassify(t *testing.T) {
	t.Run("UniqueConstraint", func(t *testing.T) {
		err := classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})
		if !errors.Is(err, shared.ErrUniqueViolation) {
			t.Errorf("expected ErrUniqueViolation, got %v", err)
		}
	})

	t.Run("ForeignKeyConstraint", func(t *testing.T) {
		err := classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})
		if !errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Errorf("expected ErrForeignKeyViolation, got %v", err)
		}
	})

	t.Run("TriggerConstraintWithoutForeignKey", func(t *testing.T) {
		err := classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger})
		if errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Errorf("expected trigger failure without FOREIGN KEY text to pass through, got %v", err)
		}
	})

	t.Run("OtherErrorsPassThrough", func(t *testing.T) {
		plain := errors.New("boom")
		if got := classify(plain); got != plain {
			t.Errorf("expected error to pass through unchanged, got %v", got)
		}
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Get", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		if user.ID() == 0 {
			t.Fatal("user ID should be set after creation")
		}

		retrieved, err := store.Users.Get(ctx, user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved == nil {
			t.Fatal("expected user, got nil")
		}
		if retrieved.ID() != user.ID() || retrieved.Name() != "Alice" {
			t.Errorf("expected %v, got %v", user, retrieved)
		}
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		store := setupTestStore(t)
		mustCreateUser(t, store, "Alice")

		err := store.Users.Create(ctx, models.NewUser("Alice"))
		if !errors.Is(err, shared.ErrUniqueViolation) {
			t.Fatalf("expected ErrUniqueViolation, got %v", err)
		}

		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) {
			t.Error("expected driver error to remain reachable")
		}

		users, err := store.Users.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 1 {
			t.Errorf("expected 1 user after failed insert, got %d", len(users))
		}
	})

	t.Run("Validation", func(t *testing.T) {
		store := setupTestStore(t)

		err := store.Users.Create(ctx, models.NewUser("   "))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		store := setupTestStore(t)

		user, err := store.Users.Get(ctx, 999)
		if err != nil {
			t.Fatalf("missing user should not be an error: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %v", user)
		}
	})

	t.Run("List", func(t *testing.T) {
		store := setupTestStore(t)

		empty, err := store.Users.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected no users, got %d", len(empty))
		}

		for _, name := range []string{"Alice", "Bob", "Carol"} {
			mustCreateUser(t, store, name)
		}

		first, err := store.Users.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		second, err := store.Users.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}

		if len(first) != 3 || len(second) != 3 {
			t.Fatalf("expected 3 users on both reads, got %d and %d", len(first), len(second))
		}

		seen := map[int64]string{}
		for _, u := range first {
			seen[u.ID()] = u.Name()
		}
		for _, u := range second {
			if seen[u.ID()] != u.Name() {
				t.Errorf("user %d differs between reads", u.ID())
			}
		}
	})

	t.Run("GetByName", func(t *testing.T) {
		store := setupTestStore(t)
		alice := mustCreateUser(t, store, "Alice")

		found, err := store.Users.GetByName(ctx, "Alice")
		if err != nil {
			t.Fatalf("failed to get user by name: %v", err)
		}
		if found == nil || found.ID() != alice.ID() {
			t.Errorf("expected %v, got %v", alice, found)
		}

		missing, err := store.Users.GetByName(ctx, "Nobody")
		if err != nil || missing != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", missing, err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		deleted, err := store.Users.Delete(ctx, user.ID())
		if err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if !deleted {
			t.Error("expected delete to report true")
		}

		deleted, err = store.Users.Delete(ctx, user.ID())
		if err != nil {
			t.Fatalf("deleting missing user should not error: %v", err)
		}
		if deleted {
			t.Error("expected delete of missing user to report false")
		}
	})

	t.Run("Delete With Movies Is Restricted", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")
		mustCreateMovie(t, store, user.ID(), "Inception")

		deleted, err := store.Users.Delete(ctx, user.ID())
		if !errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
		}
		if deleted {
			t.Error("expected delete to report false")
		}

		var driverErr sqlite3.Error
		if !errors.As(err, &driverErr) || driverErr.Code != sqlite3.ErrConstraint {
			t.Errorf("expected driver constraint error to stay reachable, got %v", err)
		}

		still, err := store.Users.Get(ctx, user.ID())
		if err != nil || still == nil {
			t.Errorf("user should still exist, got (%v, %v)", still, err)
		}
	})
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Get", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		movie := models.NewMovie(user.ID(), "Inception")
		movie.SetDirector(models.Some("Christopher Nolan"))
		movie.SetYear(models.Some(2010))

		if err := store.Movies.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}
		if movie.ID() == 0 {
			t.Fatal("movie ID should be set after creation")
		}

		got, err := store.Movies.Get(ctx, movie.ID())
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if got == nil {
			t.Fatal("expected movie, got nil")
		}
		if got.Name() != "Inception" || got.UserID() != user.ID() {
			t.Errorf("unexpected movie %v", got)
		}
		if d, _ := got.Director().Get(); d != "Christopher Nolan" {
			t.Errorf("expected director Christopher Nolan, got %q", d)
		}
		if y, _ := got.Year().Get(); y != 2010 {
			t.Errorf("expected year 2010, got %d", y)
		}
		if got.PosterURL().IsSome() {
			t.Error("expected poster url to be absent")
		}
	})

	t.Run("Create With Unknown User", func(t *testing.T) {
		store := setupTestStore(t)

		err := store.Movies.Create(ctx, models.NewMovie(42, "Orphan"))
		if !errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
		}

		all, err := store.Movies.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected no movies after failed insert, got %d", len(all))
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		store := setupTestStore(t)

		movie, err := store.Movies.Get(ctx, 12345)
		if err != nil {
			t.Fatalf("missing movie should not be an error: %v", err)
		}
		if movie != nil {
			t.Errorf("expected nil movie, got %v", movie)
		}
	})

	t.Run("ListByUser", func(t *testing.T) {
		store := setupTestStore(t)
		alice := mustCreateUser(t, store, "Alice")
		bob := mustCreateUser(t, store, "Bob")

		mustCreateMovie(t, store, alice.ID(), "Inception")
		mustCreateMovie(t, store, alice.ID(), "Heat")
		mustCreateMovie(t, store, bob.ID(), "Alien")

		movies, err := store.Movies.ListByUser(ctx, alice.ID())
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(movies) != 2 {
			t.Fatalf("expected 2 movies, got %d", len(movies))
		}
		for _, m := range movies {
			if !m.BelongsTo(alice.ID()) {
				t.Errorf("movie %v does not belong to alice", m)
			}
		}

		none, err := store.Movies.ListByUser(ctx, 999)
		if err != nil {
			t.Fatalf("nonexistent user should not be an error: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("expected empty slice, got %v", none)
		}
	})

	t.Run("Update Name Only", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		movie := models.NewMovie(user.ID(), "Incepshun")
		movie.SetDirector(models.Some("Christopher Nolan"))
		movie.SetYear(models.Some(2010))
		movie.SetPosterURL(models.Some("https://example.com/p.jpg"))
		if err := store.Movies.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		updated, err := store.Movies.Update(ctx, movie.ID(), models.MoviePatch{Name: models.Set("Inception")})
		if err != nil {
			t.Fatalf("failed to update movie: %v", err)
		}
		if updated == nil || updated.Name() != "Inception" {
			t.Fatalf("expected renamed movie, got %v", updated)
		}

		got, err := store.Movies.Get(ctx, movie.ID())
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if got.Name() != "Inception" {
			t.Errorf("expected name Inception, got %q", got.Name())
		}
		if d, _ := got.Director().Get(); d != "Christopher Nolan" {
			t.Errorf("director changed: %q", d)
		}
		if y, _ := got.Year().Get(); y != 2010 {
			t.Errorf("year changed: %d", y)
		}
		if p, _ := got.PosterURL().Get(); p != "https://example.com/p.jpg" {
			t.Errorf("poster url changed: %q", p)
		}
	})

	t.Run("Update Sets Null", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		movie := models.NewMovie(user.ID(), "Heat")
		movie.SetYear(models.Some(1995))
		if err := store.Movies.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		patch := models.MoviePatch{Year: models.SetNull[int](), Director: models.Set("Michael Mann")}
		if _, err := store.Movies.Update(ctx, movie.ID(), patch); err != nil {
			t.Fatalf("failed to update movie: %v", err)
		}

		got, _ := store.Movies.Get(ctx, movie.ID())
		if got.Year().IsSome() {
			t.Error("expected year to be cleared")
		}
		if d, _ := got.Director().Get(); d != "Michael Mann" {
			t.Errorf("expected director Michael Mann, got %q", d)
		}
	})

	t.Run("Update Missing", func(t *testing.T) {
		store := setupTestStore(t)

		updated, err := store.Movies.Update(ctx, 777, models.MoviePatch{Name: models.Set("Ghost")})
		if err != nil {
			t.Fatalf("missing movie should not be an error: %v", err)
		}
		if updated != nil {
			t.Errorf("expected nil movie, got %v", updated)
		}
	})

	t.Run("Update Rejects Cleared Name", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")
		movie := mustCreateMovie(t, store, user.ID(), "Heat")

		_, err := store.Movies.Update(ctx, movie.ID(), models.MoviePatch{Name: models.SetNull[string]()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		got, _ := store.Movies.Get(ctx, movie.ID())
		if got.Name() != "Heat" {
			t.Errorf("name should be unchanged, got %q", got.Name())
		}
	})

	t.Run("Update Empty Patch", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")
		movie := mustCreateMovie(t, store, user.ID(), "Heat")

		got, err := store.Movies.Update(ctx, movie.ID(), models.MoviePatch{})
		if err != nil {
			t.Fatalf("empty patch should not fail: %v", err)
		}
		if got == nil || got.Name() != "Heat" {
			t.Errorf("expected unchanged movie, got %v", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")
		movie := mustCreateMovie(t, store, user.ID(), "Heat")

		deleted, err := store.Movies.Delete(ctx, movie.ID())
		if err != nil {
			t.Fatalf("failed to delete movie: %v", err)
		}
		if !deleted {
			t.Error("expected delete to report true")
		}

		got, err := store.Movies.Get(ctx, movie.ID())
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil) after delete, got (%v, %v)", got, err)
		}

		deleted, err = store.Movies.Delete(ctx, movie.ID())
		if err != nil {
			t.Fatalf("deleting missing movie should not error: %v", err)
		}
		if deleted {
			t.Error("expected delete of missing movie to report false")
		}
	})

	t.Run("Delete Ignores Owner", func(t *testing.T) {
		store := setupTestStore(t)
		alice := mustCreateUser(t, store, "Alice")
		mustCreateUser(t, store, "Bob")
		movie := mustCreateMovie(t, store, alice.ID(), "Heat")

		deleted, err := store.Movies.Delete(ctx, movie.ID())
		if err != nil || !deleted {
			t.Fatalf("expected id-scoped delete to succeed, got (%v, %v)", deleted, err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		store := setupTestStore(t)
		user := mustCreateUser(t, store, "Alice")

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if err := store.Movies.Create(cctx, models.NewMovie(user.ID(), "Heat")); err == nil {
			t.Error("expected error with cancelled context")
		}

		movies, err := store.Movies.ListByUser(ctx, user.ID())
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(movies) != 0 {
			t.Errorf("expected no movies, got %d", len(movies))
		}
	})
}
