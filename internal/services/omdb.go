package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

// DefaultOMDbURL is the public OMDb endpoint.
const DefaultOMDbURL = "https://www.omdbapi.com/"

// notAvailable is the provider's placeholder for a missing field.
const notAvailable = "N/A"

// OMDbResponse is the subset of the OMDb title response that is read.
type OMDbResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Director string `json:"Director"`
	Year     string `json:"Year"`
	Poster   string `json:"Poster"`
}

// OMDbService implements [Lookup] against an OMDb-compatible HTTP API.
type OMDbService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewOMDbService creates a new OMDb lookup client.
//
// An empty baseURL falls back to [DefaultOMDbURL] and a nil client to [http.DefaultClient].
// The client's Timeout bounds each lookup; zero means no timeout.
func NewOMDbService(apiKey, baseURL string, client *http.Client) (*OMDbService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: OMDb API key is required", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = DefaultOMDbURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &OMDbService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
		logger:     log.New(io.Discard),
	}, nil
}

// SetLogger sets the logger used for request diagnostics.
func (s *OMDbService) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Name returns the provider name
func (s *OMDbService) Name() string {
	return "OMDb"
}

// Lookup fetches metadata for title with a single GET request.
func (s *OMDbService) Lookup(ctx context.Context, title string) (*Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}

	var result OMDbResponse
	if err := s.doRequest(ctx, title, &result); err != nil {
		s.logger.Warn("lookup unavailable", "title", title, "error", err)
		return nil, err
	}

	if result.Response != "True" {
		msg := result.Error
		if msg == "" {
			msg = "no match"
		}
		s.logger.Debug("lookup miss", "title", title, "message", msg)
		return nil, &LookupMissError{Title: title, Message: msg}
	}

	candidate := result.Candidate()
	if candidate.Name == "" {
		candidate.Name = title
	}

	s.logger.Debug("lookup hit", "title", title, "name", candidate.Name)
	return candidate, nil
}

// doRequest performs the GET and decodes the body into result.
// Every failure before a decoded body is classified as [shared.ErrLookupUnavailable].
func (s *OMDbService) doRequest(ctx context.Context, title string, result *OMDbResponse) error {
	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid provider url: %w", shared.ErrLookupUnavailable, err)
	}

	q := endpoint.Query()
	q.Set("apikey", s.apiKey)
	q.Set("t", title)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrLookupUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrLookupUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrLookupUnavailable, err)
	}

	return nil
}

// Candidate maps a positive response onto a [Candidate].
func (r OMDbResponse) Candidate() *Candidate {
	return &Candidate{
		Name:      r.Title,
		Director:  presentString(r.Director),
		Year:      ParseYear(r.Year),
		PosterURL: presentString(r.Poster),
	}
}

// ParseYear accepts a year only when s is non-empty and entirely decimal digits.
func ParseYear(s string) models.Optional[int] {
	if s == "" {
		return models.None[int]()
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return models.None[int]()
		}
	}

	year, err := strconv.Atoi(s)
	if err != nil {
		return models.None[int]()
	}
	return models.Some(year)
}

// presentString treats a missing field as absent. Any supplied text, "N/A" included, passes through.
func presentString(s string) models.Optional[string] {
	if s == "" {
		return models.None[string]()
	}
	return models.Some(s)
}

// IsPlaceholder reports whether s is the provider's "N/A" marker.
func IsPlaceholder(s string) bool {
	return s == notAvailable
}
