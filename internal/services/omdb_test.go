package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	tu "github.com/desertthunder/moviweb/internal/testing"
)

func newOMDbServer(t *testing.T, handler http.HandlerFunc) (*services.OMDbService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := services.NewOMDbService("test-key", server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, server
}

func TestOMDbService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Missing API Key", func(t *testing.T) {
			_, err := services.NewOMDbService("  ", "", nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			svc, err := services.NewOMDbService("key", "", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.Name() != "OMDb" {
				t.Errorf("expected name OMDb, got %s", svc.Name())
			}
		})
	})

	t.Run("Lookup", func(t *testing.T) {
		t.Run("Positive Response", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.URL.Query().Get("apikey"); got != "test-key" {
					t.Errorf("expected apikey test-key, got %q", got)
				}
				if got := r.URL.Query().Get("t"); got != "Inception" {
					t.Errorf("expected t=Inception, got %q", got)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"Response":"True","Title":"Inception","Director":"Christopher Nolan","Year":"2010","Poster":"https://img.example/inception.jpg"}`))
			})

			c, err := svc.Lookup(context.Background(), "Inception")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.Name != "Inception" {
				t.Errorf("expected name Inception, got %q", c.Name)
			}
			if d, _ := c.Director.Get(); d != "Christopher Nolan" {
				t.Errorf("expected director Christopher Nolan, got %q", d)
			}
			if y, ok := c.Year.Get(); !ok || y != 2010 {
				t.Errorf("expected year 2010, got %d (present=%v)", y, ok)
			}
			if p, _ := c.PosterURL.Get(); p != "https://img.example/inception.jpg" {
				t.Errorf("unexpected poster %q", p)
			}

			movie := c.Movie(7)
			if movie.UserID() != 7 || movie.Name() != "Inception" {
				t.Errorf("unexpected movie %v", movie)
			}
		})

		t.Run("Year Not Available", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"True","Title":"Obscure","Director":"N/A","Year":"N/A","Poster":"N/A"}`))
			})

			c, err := svc.Lookup(context.Background(), "Obscure")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.Year.IsSome() {
				t.Error("expected year to be absent")
			}
			if d, _ := c.Director.Get(); d != "N/A" {
				t.Errorf("expected director to pass through, got %q", d)
			}
			if p, _ := c.PosterURL.Get(); !services.IsPlaceholder(p) {
				t.Errorf("expected poster placeholder to pass through, got %q", p)
			}
		})

		t.Run("Missing Fields", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"True"}`))
			})

			c, err := svc.Lookup(context.Background(), "Untitled")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.Name != "Untitled" {
				t.Errorf("expected name to default to the query title, got %q", c.Name)
			}
			if c.Director.IsSome() || c.Year.IsSome() || c.PosterURL.IsSome() {
				t.Errorf("expected all optional fields absent, got %+v", c)
			}
		})

		t.Run("Provider Miss", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			})

			c, err := svc.Lookup(context.Background(), "zzzz")
			if c != nil {
				t.Errorf("expected no candidate, got %+v", c)
			}
			if !errors.Is(err, shared.ErrLookupMiss) {
				t.Fatalf("expected ErrLookupMiss, got %v", err)
			}

			var miss *services.LookupMissError
			if !errors.As(err, &miss) {
				t.Fatalf("expected LookupMissError, got %T", err)
			}
			if miss.Message != "Movie not found!" {
				t.Errorf("expected provider message, got %q", miss.Message)
			}
		})

		t.Run("Non-2xx Status", func(t *testing.T) {
			calls := 0
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(http.StatusServiceUnavailable)
			})

			_, err := svc.Lookup(context.Background(), "Inception")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Fatalf("expected ErrLookupUnavailable, got %v", err)
			}
			if calls != 1 {
				t.Errorf("expected exactly one request, got %d", calls)
			}
		})

		t.Run("Unauthorized Key", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			})

			_, err := svc.Lookup(context.Background(), "Inception")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			svc, err := services.NewOMDbService("key", "http://omdb.invalid/", client)
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			_, err = svc.Lookup(context.Background(), "Inception")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(tu.NewJSONResponse(http.StatusOK, "{not json"), nil)}
			svc, _ := services.NewOMDbService("key", "http://omdb.invalid/", client)

			_, err := svc.Lookup(context.Background(), "Inception")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			svc, _ := services.NewOMDbService("key", "http://omdb.invalid/", client)

			_, err := svc.Lookup(context.Background(), "Inception")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("Empty Title", func(t *testing.T) {
			svc, _ := services.NewOMDbService("key", "", nil)

			_, err := svc.Lookup(context.Background(), "   ")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Client Timeout", func(t *testing.T) {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			svc, _ := services.NewOMDbService("key", server.URL, &http.Client{Timeout: 50 * time.Millisecond})

			_, err := svc.Lookup(context.Background(), "Slow")
			if !errors.Is(err, shared.ErrLookupUnavailable) {
				t.Errorf("expected ErrLookupUnavailable, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			svc, _ := newOMDbServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"True","Title":"Heat"}`))
			})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := svc.Lookup(ctx, "Heat")
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled to be reachable, got %v", err)
			}
		})
	})
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"2010", 2010, true},
		{"1999", 1999, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"2010–2012", 0, false},
		{" 2010", 0, false},
		{"-5", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := services.ParseYear(tt.input).Get()
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseYear(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
