package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nzaccagnino/volon/internal/local"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	text      = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"}
	muted     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}
	danger    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F5F"}

	SearchBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	ActiveSearchBarStyle = SearchBarStyle.
				BorderForeground(highlight)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	ActivePanelStyle = PanelStyle.
				BorderForeground(highlight)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text)

	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(special)

	MutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	CodeStyle = lipgloss.NewStyle().
			Foreground(special)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	ModeStyle = lipgloss.NewStyle().
			Foreground(special).
			Padding(0, 1).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	ToastStyle = lipgloss.NewStyle().
			Foreground(text).
			Background(subtle).
			Padding(0, 1)

	ListItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SelectedListItemStyle = ListItemStyle.
				Background(highlight).
				Foreground(lipgloss.Color("#000000"))

	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)
)

// ApplyTheme forces the adaptive colors to one palette. The system theme
// keeps lipgloss's terminal background detection.
func ApplyTheme(theme string) {
	switch theme {
	case local.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case local.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}
