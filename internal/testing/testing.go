// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/moviweb/internal/services"
)

// MockLookup is a test double for [services.Lookup].
//
// Results are keyed by title; a title with no entry returns Err, or a miss when Err is nil.
type MockLookup struct {
	mu         sync.Mutex
	Candidates map[string]*services.Candidate
	Err        error
	Calls      []string
}

func NewMockLookup(candidates map[string]*services.Candidate) *MockLookup {
	return &MockLookup{Candidates: candidates}
}

func (m *MockLookup) Lookup(ctx context.Context, title string) (*services.Candidate, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, title)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c, ok := m.Candidates[title]; ok {
		copied := *c
		return &copied, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, &services.LookupMissError{Title: title, Message: "Movie not found!"}
}

func (m *MockLookup) Name() string { return "mock" }

// CallCount returns the number of lookups performed.
func (m *MockLookup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewJSONResponse builds an [http.Response] with a JSON body for [MockRoundTripper].
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
