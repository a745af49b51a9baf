package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/moviweb/internal/models"
)

var (
	_ list.Item = userItem{}
	_ list.Item = movieItem{}
)

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user *models.User
}

func (i userItem) FilterValue() string { return i.user.Name() }
func (i userItem) Title() string       { return i.user.Name() }
func (i userItem) Description() string { return fmt.Sprintf("user #%d", i.user.ID()) }

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie *models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Name() }

func (i movieItem) Title() string {
	if y, ok := i.movie.Year().Get(); ok {
		return fmt.Sprintf("%s (%d)", i.movie.Name(), y)
	}
	return i.movie.Name()
}

func (i movieItem) Description() string {
	parts := []string{}
	if d, ok := i.movie.Director().Get(); ok {
		parts = append(parts, d)
	}
	if p, ok := i.movie.PosterURL().Get(); ok {
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "no details"
	}
	return strings.Join(parts, " • ")
}

func userItems(users []*models.User) []list.Item {
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = userItem{user: u}
	}
	return items
}

func movieItems(movies []*models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}
