// Package web renders the HTML pages of the movie favorites app.
//
// Templates are embedded and parsed once. Each page is rendered inside layout.html:
//
//	index.html  : users list with a create form       (GET /)
//	movies.html : one user's movies with add, update and delete forms (GET /users/{user_id}/movies)
//	error.html  : status page for failed requests
//
// Optional movie fields are rendered through the optional/year helpers so an
// absent value prints as an empty string instead of a zero value.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/services"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Page names accepted by [Renderer.Render].
const (
	PageIndex  = "index.html"
	PageMovies = "movies.html"
	PageError  = "error.html"
)

// IndexPage is the data for [PageIndex].
type IndexPage struct {
	Users []*models.User
}

// MoviesPage is the data for [PageMovies].
type MoviesPage struct {
	User      *models.User
	Movies    []*models.Movie
	CanLookup bool
}

// ErrorPage is the data for [PageError].
type ErrorPage struct {
	Status  int
	Title   string
	Message string
	BackURL string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"optional": func(o models.Optional[string]) string { return o.OrElse("") },
		"year": func(o models.Optional[int]) string {
			if y, ok := o.Get(); ok {
				return strconv.Itoa(y)
			}
			return ""
		},
		"poster": func(o models.Optional[string]) string {
			if p, ok := o.Get(); ok && !services.IsPlaceholder(p) {
				return p
			}
			return ""
		},
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageMovies, PageError} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page with data into w.
//
// Output is buffered so a template error never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// RenderHTTP writes page with the given status code and an HTML content type.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, page, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
