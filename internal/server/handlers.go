package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/web"
)

func moviesURL(userID int64) string {
	return fmt.Sprintf("/users/%d/movies", userID)
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q", shared.ErrNotFound, name, raw)
	}
	return id, nil
}

// home renders the users list with the create form.
func (a *app) home(w http.ResponseWriter, r *http.Request) {
	users, err := a.engine.Users(r.Context())
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}

	if err := a.renderer.RenderHTTP(w, http.StatusOK, web.PageIndex, web.IndexPage{Users: users}); err != nil {
		a.logger.Error("failed to render index", "error", err)
	}
}

// createUser creates a user from the user_name form value. An empty name is ignored.
func (a *app) createUser(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("user_name"))
	if name != "" {
		if _, err := a.engine.CreateUser(r.Context(), name); err != nil {
			a.fail(w, r, err, "/")
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// listMovies renders a user's movies, redirecting home when the user does not exist.
func (a *app) listMovies(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, err := a.engine.User(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}
	if user == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	movies, err := a.engine.Movies(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}

	page := web.MoviesPage{User: user, Movies: movies, CanLookup: a.canLookup}
	if err := a.renderer.RenderHTTP(w, http.StatusOK, web.PageMovies, page); err != nil {
		a.logger.Error("failed to render movies", "error", err)
	}
}

// addMovie looks up the submitted title and adds the result to the user's movies.
func (a *app) addMovie(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}

	user, err := a.engine.User(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err, "/")
		return
	}
	if user == nil {
		a.fail(w, r, fmt.Errorf("%w: user %d", shared.ErrNotFound, userID), "/")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		a.fail(w, r, fmt.Errorf("%w: title is required", shared.ErrInvalidInput), moviesURL(userID))
		return
	}

	if _, err := a.engine.AddFromLookup(r.Context(), userID, title); err != nil {
		a.fail(w, r, err, moviesURL(userID))
		return
	}
	http.Redirect(w, r, moviesURL(userID), http.StatusSeeOther)
}

// updateMovie merge-patches a movie from the submitted form.
func (a *app) updateMovie(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := a.movieParams(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		a.fail(w, r, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err), moviesURL(userID))
		return
	}

	patch, err := PatchFromForm(r.PostForm)
	if err != nil {
		a.fail(w, r, err, moviesURL(userID))
		return
	}

	movie, err := a.engine.UpdateForUser(r.Context(), userID, movieID, patch)
	if err != nil {
		a.fail(w, r, err, moviesURL(userID))
		return
	}
	if movie == nil {
		a.fail(w, r, fmt.Errorf("%w: movie %d", shared.ErrNotFound, movieID), moviesURL(userID))
		return
	}
	http.Redirect(w, r, moviesURL(userID), http.StatusSeeOther)
}

// deleteMovie deletes a movie after checking it belongs to the user in the path.
func (a *app) deleteMovie(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := a.movieParams(w, r)
	if !ok {
		return
	}

	deleted, err := a.engine.DeleteForUser(r.Context(), userID, movieID)
	if err != nil {
		a.fail(w, r, err, moviesURL(userID))
		return
	}
	if !deleted {
		a.fail(w, r, fmt.Errorf("%w: movie %d", shared.ErrNotFound, movieID), moviesURL(userID))
		return
	}
	http.Redirect(w, r, moviesURL(userID), http.StatusSeeOther)
}

// healthz reports liveness and, when a database is configured, that it answers a ping.
func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		if err := a.db.PingContext(r.Context()); err != nil {
			a.logger.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (a *app) movieParams(w http.ResponseWriter, r *http.Request) (userID, movieID int64, ok bool) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		a.fail(w, r, err, "/")
		return 0, 0, false
	}
	movieID, err = pathID(r, "movie_id")
	if err != nil {
		a.fail(w, r, err, moviesURL(userID))
		return 0, 0, false
	}
	return userID, movieID, true
}

// PatchFromForm builds a [models.MoviePatch] from update form values.
//
// Empty fields are omitted. A non-empty clear_<field> value sets that field to NULL
// and wins over a value in the same submission. The year must be decimal digits.
func PatchFromForm(form map[string][]string) (models.MoviePatch, error) {
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	cleared := func(field string) bool { return get("clear_"+field) != "" }

	var patch models.MoviePatch

	if name := get("name"); name != "" {
		patch.Name = models.Set(name)
	}

	switch {
	case cleared("director"):
		patch.Director = models.SetNull[string]()
	case get("director") != "":
		patch.Director = models.Set(get("director"))
	}

	switch {
	case cleared("year"):
		patch.Year = models.SetNull[int]()
	case get("year") != "":
		year, ok := services.ParseYear(get("year")).Get()
		if !ok {
			return models.MoviePatch{}, fmt.Errorf("%w: year must be a whole number, got %q", shared.ErrInvalidInput, get("year"))
		}
		patch.Year = models.Set(year)
	}

	switch {
	case cleared("poster_url"):
		patch.PosterURL = models.SetNull[string]()
	case get("poster_url") != "":
		patch.PosterURL = models.Set(get("poster_url"))
	}

	return patch, nil
}
