package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/moviweb/internal/shared"
)

const maxMovieNameLength = 120

// Movie is a favorited film with optional metadata, owned by exactly one [User].
type Movie struct {
	id        int64
	name      string
	director  Optional[string]
	year      Optional[int]
	posterURL Optional[string]
	userID    int64
}

// NewMovie creates an unsaved [Movie] owned by userID with only its required fields set.
func NewMovie(userID int64, name string) *Movie {
	return &Movie{userID: userID, name: name}
}

func (m *Movie) ID() int64                   { return m.id }
func (m *Movie) Name() string                { return m.name }
func (m *Movie) Director() Optional[string]  { return m.director }
func (m *Movie) Year() Optional[int]         { return m.year }
func (m *Movie) PosterURL() Optional[string] { return m.posterURL }
func (m *Movie) UserID() int64               { return m.userID }

func (m *Movie) SetID(id int64)                  { m.id = id }
func (m *Movie) SetName(name string)             { m.name = name }
func (m *Movie) SetDirector(d Optional[string])  { m.director = d }
func (m *Movie) SetYear(y Optional[int])         { m.year = y }
func (m *Movie) SetPosterURL(p Optional[string]) { m.posterURL = p }
func (m *Movie) SetUserID(userID int64)          { m.userID = userID }

// BelongsTo reports whether the movie is owned by the given user.
func (m *Movie) BelongsTo(userID int64) bool {
	return m.userID == userID
}

// Validate checks required fields and the name width.
//
// Director and poster URL are stored as given, whatever their length.
// The user reference is only checked for presence; its existence is enforced by the foreign key.
func (m *Movie) Validate() error {
	if strings.TrimSpace(m.name) == "" {
		return fmt.Errorf("%w: movie name is required", shared.ErrInvalidInput)
	}
	if utf8.RuneCountInString(m.name) > maxMovieNameLength {
		return fmt.Errorf("%w: movie name exceeds %d characters", shared.ErrInvalidInput, maxMovieNameLength)
	}
	if m.userID == 0 {
		return fmt.Errorf("%w: movie must belong to a user", shared.ErrInvalidInput)
	}
	return nil
}

// Apply merges the present fields of p into the movie. Omitted fields are left unchanged.
func (m *Movie) Apply(p MoviePatch) {
	if p.Name.Present() {
		if name, ok := p.Name.Value().Get(); ok {
			m.name = name
		}
	}
	if p.Director.Present() {
		m.director = p.Director.Value()
	}
	if p.Year.Present() {
		m.year = p.Year.Value()
	}
	if p.PosterURL.Present() {
		m.posterURL = p.PosterURL.Value()
	}
}

func (m *Movie) String() string {
	if y, ok := m.year.Get(); ok {
		return fmt.Sprintf("<Movie %s (%d)>", m.name, y)
	}
	return fmt.Sprintf("<Movie %s>", m.name)
}

// MarshalJSON implements [json.Marshaler]
func (m *Movie) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        int64            `json:"id"`
		Name      string           `json:"name"`
		Director  Optional[string] `json:"director"`
		Year      Optional[int]    `json:"year"`
		PosterURL Optional[string] `json:"poster_url"`
		UserID    int64            `json:"user_id"`
	}{m.id, m.name, m.director, m.year, m.posterURL, m.userID})
}

// MoviePatch is a field-level merge-patch for a [Movie].
//
// Omitted fields are never written, so a caller cannot null out a column by leaving it out.
// Name is NOT NULL in storage, so a present Name must carry a value.
type MoviePatch struct {
	Name      Field[string]
	Director  Field[string]
	Year      Field[int]
	PosterURL Field[string]
}

// Empty reports whether no field is present.
func (p MoviePatch) Empty() bool {
	return !p.Name.Present() && !p.Director.Present() && !p.Year.Present() && !p.PosterURL.Present()
}

// Validate rejects a patch that would null or blank the required name.
func (p MoviePatch) Validate() error {
	if !p.Name.Present() {
		return nil
	}
	name, ok := p.Name.Value().Get()
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: movie name cannot be cleared", shared.ErrInvalidInput)
	}
	return nil
}
