package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#7D56F4"}
	muted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
)

// theme holds one style per state the browser can show.
type theme struct {
	heading lipgloss.Style
	lookup  lipgloss.Style // an OMDb request is in flight
	added   lipgloss.Style
	failed  lipgloss.Style
	confirm lipgloss.Style
	tally   lipgloss.Style
}

var browserTheme = newTheme()

func newTheme() theme {
	return theme{
		heading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(accent).
			Padding(0, 1),
		lookup:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F2C94C")).Italic(true),
		added:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		confirm: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true).Underline(true),
		tally:   lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}

// delegate highlights the selected user or movie in the accent color.
func (t theme) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(accent).BorderLeftForeground(accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(muted).BorderLeftForeground(accent)
	return d
}
