package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UserListView ViewState = iota
	MovieListView
	InputView
	ConfirmView
)

// inputTarget records what the text input is collecting.
type inputTarget int

const (
	inputUserName inputTarget = iota
	inputMovieTitle
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	engine       tasks.Engine
	view         ViewState
	width        int
	height       int
	userList     list.Model
	users        []*models.User
	movieList    list.Model
	movies       []*models.Movie
	selectedUser *models.User
	input        textinput.Model
	target       inputTarget
	status       string
	lookingUp    bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model backed by engine.
func NewModel(ctx context.Context, engine tasks.Engine) *Model {
	input := textinput.New()
	input.CharLimit = 200

	return &Model{
		ctx:       ctx,
		engine:    engine,
		view:      UserListView,
		userList:  newList("Users", nil),
		movieList: newList("Movies", nil),
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, browserTheme.delegate(), 0, 0)
	l.Title = title
	l.Styles.Title = browserTheme.heading
	l.SetShowHelp(false)
	return l
}

// Init initializes the TUI by fetching users.
func (m *Model) Init() tea.Cmd {
	return m.fetchUsers()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.userList.SetSize(msg.Width-4, msg.Height-8)
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case UserListView:
			return m.handleUserListKeys(msg)
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgUsersFetched:
		data := msg.data.(usersFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.users = data.users
		m.userList.SetItems(userItems(data.users))
		return m, nil

	case MsgMoviesFetched:
		data := msg.data.(moviesFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.movies = data.movies
		m.movieList.SetItems(movieItems(data.movies))
		m.movieList.Title = fmt.Sprintf("%s's favorite movies", m.selectedUser.Name())
		m.view = MovieListView
		return m, nil

	case MsgUserCreated:
		data := msg.data.(userCreated)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.status = fmt.Sprintf("Created user %q", data.user.Name())
		return m, m.fetchUsers()

	case MsgMovieAdded:
		data := msg.data.(movieAdded)
		m.lookingUp = false
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.status = fmt.Sprintf("Added %s", movieItem{movie: data.movie}.Title())
		return m, m.fetchMovies()

	case MsgMovieDeleted:
		data := msg.data.(movieDeleted)
		switch {
		case data.err != nil:
			m.err = data.err
			return m, nil
		case !data.deleted:
			m.status = "Movie was already gone"
		default:
			m.status = "Movie deleted"
		}
		return m, m.fetchMovies()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case UserListView:
		body = m.renderList(m.userList, m.keys.enter, m.keys.add, m.keys.refresh, m.keys.quit)
	case MovieListView:
		body = m.renderList(m.movieList, m.keys.add, m.keys.remove, m.keys.back, m.keys.quit)
	case InputView:
		body = m.renderInput()
	case ConfirmView:
		body = m.renderConfirm()
	}
	return body + "\n" + m.renderStatus()
}

func (m *Model) handleUserListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.userList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.userList.SelectedItem().(userItem); ok {
			m.clearStatus()
			m.selectedUser = item.user
			return m, m.fetchMovies()
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.openInput(inputUserName)
	case key.Matches(msg, m.keys.refresh):
		m.clearStatus()
		return m, m.fetchUsers()
	}
	return m.updateLists(msg)
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.clearStatus()
		m.view = UserListView
		m.selectedUser = nil
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.openInput(inputMovieTitle)
	case key.Matches(msg, m.keys.remove):
		if _, ok := m.movieList.SelectedItem().(movieItem); ok {
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.clearStatus()
		return m, m.fetchMovies()
	}
	return m.updateLists(msg)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		target := m.target
		m.closeInput()
		if value == "" {
			return m, nil
		}
		if target == inputUserName {
			return m, m.createUser(value)
		}
		m.status = fmt.Sprintf("Looking up %q...", value)
		m.lookingUp = true
		return m, m.addMovie(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = MovieListView
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			return m, m.deleteMovie(item.movie.ID())
		}
		return m, nil
	case key.Matches(msg, m.keys.no), msg.Type == tea.KeyCtrlC:
		m.view = MovieListView
		return m, nil
	}
	return m, nil
}

func (m *Model) openInput(target inputTarget) tea.Cmd {
	m.clearStatus()
	m.target = target
	m.view = InputView
	m.input.Reset()
	if target == inputUserName {
		m.input.Placeholder = "user name"
	} else {
		m.input.Placeholder = "movie title"
	}
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.Reset()
	if m.target == inputMovieTitle {
		m.view = MovieListView
	} else {
		m.view = UserListView
	}
}

func (m *Model) clearStatus() {
	m.status = ""
	m.lookingUp = false
	m.err = nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	case MovieListView:
		m.movieList, cmd = m.movieList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		return usersFetchedMsg(m.engine.Users(m.ctx))
	}
}

func (m *Model) fetchMovies() tea.Cmd {
	if m.selectedUser == nil {
		return nil
	}
	userID := m.selectedUser.ID()
	return func() tea.Msg {
		return moviesFetchedMsg(m.engine.Movies(m.ctx, userID))
	}
}

func (m *Model) createUser(name string) tea.Cmd {
	return func() tea.Msg {
		return userCreatedMsg(m.engine.CreateUser(m.ctx, name))
	}
}

func (m *Model) addMovie(title string) tea.Cmd {
	userID := m.selectedUser.ID()
	return func() tea.Msg {
		return movieAddedMsg(m.engine.AddFromLookup(m.ctx, userID, title))
	}
}

func (m *Model) deleteMovie(movieID int64) tea.Cmd {
	userID := m.selectedUser.ID()
	return func() tea.Msg {
		return movieDeletedMsg(m.engine.DeleteForUser(m.ctx, userID, movieID))
	}
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(bindings))
}

func (m *Model) renderInput() string {
	title := "New user"
	if m.target == inputMovieTitle {
		title = fmt.Sprintf("Add a movie for %s", m.selectedUser.Name())
	}
	enter := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	return fmt.Sprintf("%s\n%s\n\n%s",
		browserTheme.heading.Render(title),
		m.input.View(),
		m.help.ShortHelpView([]key.Binding{enter, m.keys.back}),
	)
}

func (m *Model) renderConfirm() string {
	item, ok := m.movieList.SelectedItem().(movieItem)
	if !ok {
		return ""
	}
	question := browserTheme.confirm.Render(fmt.Sprintf("Delete %s?", item.Title()))
	return fmt.Sprintf("%s\n\n%s", question, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return browserTheme.failed.Render(fmt.Sprintf("Error: %v", m.err))
	case m.lookingUp:
		return browserTheme.lookup.Render(m.status)
	case m.status != "":
		return browserTheme.added.Render(m.status)
	case m.view == UserListView:
		return browserTheme.tally.Render(fmt.Sprintf("%d users", len(m.users)))
	default:
		return browserTheme.tally.Render(fmt.Sprintf("%d movies", len(m.movies)))
	}
}

// Err returns the last error shown to the user.
func (m *Model) Err() error { return m.err }
