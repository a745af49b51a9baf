// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing favorites:
//  1. [UserListView] : Browse users, add a new one
//  2. [MovieListView] : Browse the selected user's movies, add one by title lookup
//  3. [InputView] : Text entry for a new user name or a movie title
//  4. [ConfirmView] : Confirm deleting the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every storage or lookup call runs as a [tea.Cmd] against [tasks.Engine] so the UI never blocks.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, d, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
