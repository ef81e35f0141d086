package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	lockedStyle   = lipgloss.NewStyle().Faint(true)
	averageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	savedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	savingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	saveFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
