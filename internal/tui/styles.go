package tui

import (
	"github.com/charmbracelet/lipgloss"

	"toolpanel/internal/toolstatus"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	confirmStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))

	statusStyles = map[toolstatus.Status]lipgloss.Style{
		// Running
		toolstatus.StatusReady: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		toolstatus.StatusIdled: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Faint(true),

		// In progress
		toolstatus.StatusDeploying: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Error
		toolstatus.StatusFailed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Absent
		toolstatus.StatusNotDeployed: lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for a status label.
func StatusStyle(label string) lipgloss.Style {
	if s, ok := statusStyles[toolstatus.ParseStatus(label)]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
}
