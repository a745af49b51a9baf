package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/repositories"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	tu "github.com/desertthunder/moviweb/internal/testing"
)

type mockRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockRecorder) ObserveLookup(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func inception() *services.Candidate {
	return &services.Candidate{
		Name:      "Inception",
		Director:  models.Some("Christopher Nolan"),
		Year:      models.Some(2010),
		PosterURL: models.Some("https://img.example/inception.jpg"),
	}
}

func setupEngine(t *testing.T, lookup services.Lookup) (*MovieEngine, *repositories.Store) {
	t.Helper()

	store, err := repositories.OpenStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewMovieEngine(store, lookup), store
}

func mustUser(t *testing.T, e *MovieEngine, name string) *models.User {
	t.Helper()
	user, err := e.CreateUser(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestMovieEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Users", func(t *testing.T) {
		engine, _ := setupEngine(t, nil)

		alice := mustUser(t, engine, "Alice")
		if _, err := engine.CreateUser(ctx, "Alice"); !errors.Is(err, shared.ErrUniqueViolation) {
			t.Errorf("expected ErrUniqueViolation, got %v", err)
		}

		got, err := engine.User(ctx, alice.ID())
		if err != nil || got == nil || got.Name() != "Alice" {
			t.Errorf("expected Alice, got (%v, %v)", got, err)
		}

		users, err := engine.Users(ctx)
		if err != nil || len(users) != 1 {
			t.Errorf("expected one user, got (%d, %v)", len(users), err)
		}

		deleted, err := engine.DeleteUser(ctx, alice.ID())
		if err != nil || !deleted {
			t.Errorf("expected user to be deleted, got (%v, %v)", deleted, err)
		}
	})

	t.Run("AddFromLookup", func(t *testing.T) {
		lookup := tu.NewMockLookup(map[string]*services.Candidate{"Inception": inception()})
		engine, _ := setupEngine(t, lookup)
		recorder := &mockRecorder{}
		engine.SetRecorder(recorder)

		user := mustUser(t, engine, "Alice")

		movie, err := engine.AddFromLookup(ctx, user.ID(), "Inception")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if movie.ID() == 0 || movie.UserID() != user.ID() {
			t.Errorf("unexpected movie %v", movie)
		}
		if y, _ := movie.Year().Get(); y != 2010 {
			t.Errorf("expected year 2010, got %d", y)
		}

		if len(recorder.outcomes) != 1 || recorder.outcomes[0] != OutcomeSuccess {
			t.Errorf("expected one success observation, got %v", recorder.outcomes)
		}
	})

	t.Run("AddFromLookup Keeps Long Provider Fields", func(t *testing.T) {
		directors := "Olivier Assayas, Frédéric Auburtin, Emmanuel Benbihy, Gurinder Chadha, " +
			"Sylvain Chomet, Ethan Coen, Joel Coen, Isabel Coixet, Wes Craven, Alfonso Cuarón"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"Response": "True",
				"Title":    "Paris, je t'aime",
				"Director": directors,
				"Year":     "2006",
				"Poster":   "https://img.example/" + strings.Repeat("p", 300) + ".jpg",
			})
		}))
		defer server.Close()

		lookup, err := services.NewOMDbService("key", server.URL, server.Client())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		engine, _ := setupEngine(t, lookup)
		user := mustUser(t, engine, "Alice")

		movie, err := engine.AddFromLookup(ctx, user.ID(), "Paris, je t'aime")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stored, err := engine.Movie(ctx, movie.ID())
		if err != nil || stored == nil {
			t.Fatalf("expected stored movie, got (%v, %v)", stored, err)
		}
		if d, _ := stored.Director().Get(); d != directors {
			t.Errorf("expected full director list, got %q", d)
		}
		if p, _ := stored.PosterURL().Get(); len(p) < 300 {
			t.Errorf("expected full poster url, got %q", p)
		}
	})

	t.Run("AddFromLookup Miss Writes Nothing", func(t *testing.T) {
		lookup := tu.NewMockLookup(nil)
		engine, _ := setupEngine(t, lookup)
		recorder := &mockRecorder{}
		engine.SetRecorder(recorder)

		user := mustUser(t, engine, "Alice")

		movie, err := engine.AddFromLookup(ctx, user.ID(), "zzzz")
		if movie != nil {
			t.Errorf("expected no movie, got %v", movie)
		}

		var miss *services.LookupMissError
		if !errors.As(err, &miss) || miss.Message != "Movie not found!" {
			t.Fatalf("expected LookupMissError with provider message, got %v", err)
		}

		movies, _ := engine.Movies(ctx, user.ID())
		if len(movies) != 0 {
			t.Errorf("expected no movies after miss, got %d", len(movies))
		}
		if recorder.outcomes[0] != OutcomeMiss {
			t.Errorf("expected miss observation, got %v", recorder.outcomes)
		}
	})

	t.Run("AddFromLookup Unavailable", func(t *testing.T) {
		lookup := tu.NewMockLookup(nil)
		lookup.Err = shared.ErrLookupUnavailable
		engine, _ := setupEngine(t, lookup)
		user := mustUser(t, engine, "Alice")

		if _, err := engine.AddFromLookup(ctx, user.ID(), "Inception"); !errors.Is(err, shared.ErrLookupUnavailable) {
			t.Errorf("expected ErrLookupUnavailable, got %v", err)
		}
		if lookup.CallCount() != 1 {
			t.Errorf("expected a single lookup attempt, got %d", lookup.CallCount())
		}
	})

	t.Run("AddFromLookup Unknown User", func(t *testing.T) {
		lookup := tu.NewMockLookup(map[string]*services.Candidate{"Inception": inception()})
		engine, _ := setupEngine(t, lookup)

		if _, err := engine.AddFromLookup(ctx, 404, "Inception"); !errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Errorf("expected ErrForeignKeyViolation, got %v", err)
		}
	})

	t.Run("No Lookup Configured", func(t *testing.T) {
		engine, _ := setupEngine(t, nil)

		if engine.HasLookup() {
			t.Error("expected HasLookup to be false")
		}
		if _, err := engine.LookupMovie(ctx, "Inception"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("UpdateForUser", func(t *testing.T) {
		engine, _ := setupEngine(t, nil)
		alice := mustUser(t, engine, "Alice")
		bob := mustUser(t, engine, "Bob")

		movie, err := engine.AddMovie(ctx, models.NewMovie(alice.ID(), "Heat"))
		if err != nil {
			t.Fatalf("failed to add movie: %v", err)
		}

		patch := models.MoviePatch{Director: models.Set("Michael Mann")}

		if _, err := engine.UpdateForUser(ctx, bob.ID(), movie.ID(), patch); !errors.Is(err, shared.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}

		stored, _ := engine.Movie(ctx, movie.ID())
		if stored.Director().IsSome() {
			t.Error("movie should be unchanged after refused update")
		}

		updated, err := engine.UpdateForUser(ctx, alice.ID(), movie.ID(), patch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if d, _ := updated.Director().Get(); d != "Michael Mann" {
			t.Errorf("expected director Michael Mann, got %q", d)
		}

		missing, err := engine.UpdateForUser(ctx, alice.ID(), 999, patch)
		if err != nil || missing != nil {
			t.Errorf("expected (nil, nil) for missing movie, got (%v, %v)", missing, err)
		}
	})

	t.Run("DeleteForUser", func(t *testing.T) {
		engine, store := setupEngine(t, nil)
		alice := mustUser(t, engine, "Alice")
		bob := mustUser(t, engine, "Bob")

		movie, err := engine.AddMovie(ctx, models.NewMovie(alice.ID(), "Heat"))
		if err != nil {
			t.Fatalf("failed to add movie: %v", err)
		}

		deleted, err := engine.DeleteForUser(ctx, bob.ID(), movie.ID())
		if !errors.Is(err, shared.ErrNotOwner) || deleted {
			t.Errorf("expected ErrNotOwner, got (%v, %v)", deleted, err)
		}

		if m, _ := store.Movies.Get(ctx, movie.ID()); m == nil {
			t.Fatal("movie should survive a delete scoped to another user")
		}

		deleted, err = engine.DeleteForUser(ctx, alice.ID(), movie.ID())
		if err != nil || !deleted {
			t.Errorf("expected delete to succeed, got (%v, %v)", deleted, err)
		}

		deleted, err = engine.DeleteForUser(ctx, alice.ID(), movie.ID())
		if err != nil || deleted {
			t.Errorf("expected (false, nil) for missing movie, got (%v, %v)", deleted, err)
		}
	})

	t.Run("DeleteUser With Movies", func(t *testing.T) {
		engine, _ := setupEngine(t, nil)
		alice := mustUser(t, engine, "Alice")

		if _, err := engine.AddMovie(ctx, models.NewMovie(alice.ID(), "Heat")); err != nil {
			t.Fatalf("failed to add movie: %v", err)
		}

		if _, err := engine.DeleteUser(ctx, alice.ID()); !errors.Is(err, shared.ErrForeignKeyViolation) {
			t.Errorf("expected ErrForeignKeyViolation, got %v", err)
		}
	})
}

func TestClassifyLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeSuccess},
		{"miss", &services.LookupMissError{Title: "x", Message: "Movie not found!"}, OutcomeMiss},
		{"unavailable", shared.ErrLookupUnavailable, OutcomeUnavailable},
		{"other", context.Canceled, OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLookup(tt.err); got != tt.want {
				t.Errorf("ClassifyLookup() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSendProgress(t *testing.T) {
	t.Run("Nil Channel", func(t *testing.T) {
		sendProgress(nil, ProgressUpdate{})
	})

	t.Run("Full Channel Does Not Block", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 1)
		sendProgress(ch, ProgressUpdate{Message: "first"})
		sendProgress(ch, ProgressUpdate{Message: "second"})

		if got := <-ch; got.Message != "first" {
			t.Errorf("expected first update, got %q", got.Message)
		}
	})
}
