// Package styles centralizes the lipgloss styles used by the terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor = lipgloss.Color("62")
	AccentColor  = lipgloss.Color("205")
	MutedColor   = lipgloss.Color("241")
	ErrorColor   = lipgloss.Color("196")
	SuccessColor = lipgloss.Color("42")
)

var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(PrimaryColor).
		Padding(0, 1)

	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Accent  = lipgloss.NewStyle().Foreground(AccentColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Text    = lipgloss.NewStyle()

	// Done renders titles of completed tasks.
	Done = lipgloss.NewStyle().Foreground(MutedColor).Strikethrough(true)

	ErrorMsg   = lipgloss.NewStyle().Foreground(ErrorColor)
	SuccessMsg = lipgloss.NewStyle().Foreground(SuccessColor)

	HelpBar = lipgloss.NewStyle().Foreground(MutedColor)
	HelpKey = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)

	FormBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)
)
