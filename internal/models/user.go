package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/moviweb/internal/shared"
)

const maxUserNameLength = 100

// User is a named profile owning a list of favorite movies.
//
// The name is immutable once the user is persisted.
type User struct {
	id   int64
	name string
}

// NewUser creates an unsaved [User] with the given name.
func NewUser(name string) *User {
	return &User{name: name}
}

func (u *User) ID() int64    { return u.id }
func (u *User) Name() string { return u.name }

// SetID assigns the storage-generated identifier.
func (u *User) SetID(id int64) { u.id = id }

// Validate checks that the name is present and fits the column.
func (u *User) Validate() error {
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("%w: user name is required", shared.ErrInvalidInput)
	}
	if utf8.RuneCountInString(u.name) > maxUserNameLength {
		return fmt.Errorf("%w: user name exceeds %d characters", shared.ErrInvalidInput, maxUserNameLength)
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("<User %s>", u.name)
}

// MarshalJSON implements [json.Marshaler]
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}{u.id, u.name})
}
