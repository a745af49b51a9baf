package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviweb/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgUsersFetched MsgKind = iota
	MsgMoviesFetched
	MsgUserCreated
	MsgMovieAdded
	MsgMovieDeleted
)

type usersFetched struct {
	users []*models.User
	err   error
}

type moviesFetched struct {
	movies []*models.Movie
	err    error
}

type userCreated struct {
	user *models.User
	err  error
}

type movieAdded struct {
	movie *models.Movie
	err   error
}

type movieDeleted struct {
	deleted bool
	err     error
}

// usersFetchedMsg is the constructor for [MsgUsersFetched]
func usersFetchedMsg(users []*models.User, err error) Msg {
	return Msg{kind: MsgUsersFetched, data: usersFetched{users, err}}
}

// moviesFetchedMsg is the constructor for [MsgMoviesFetched]
func moviesFetchedMsg(movies []*models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesFetched, data: moviesFetched{movies, err}}
}

// userCreatedMsg is the constructor for [MsgUserCreated]
func userCreatedMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgUserCreated, data: userCreated{user, err}}
}

// movieAddedMsg is the constructor for [MsgMovieAdded]
func movieAddedMsg(movie *models.Movie, err error) Msg {
	return Msg{kind: MsgMovieAdded, data: movieAdded{movie, err}}
}

// movieDeletedMsg is the constructor for [MsgMovieDeleted]
func movieDeletedMsg(deleted bool, err error) Msg {
	return Msg{kind: MsgMovieDeleted, data: movieDeleted{deleted, err}}
}
