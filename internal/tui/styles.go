package tui

import "github.com/charmbracelet/lipgloss"

const panelWidth = 28

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	expressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(panelWidth).Align(lipgloss.Right)
	displayStyle    = lipgloss.NewStyle().Bold(true).Width(panelWidth).Align(lipgloss.Right).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	errorStyle = displayStyle.Foreground(lipgloss.Color("196")).BorderForeground(lipgloss.Color("196"))

	historyTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	historyItemStyle   = lipgloss.NewStyle().PaddingLeft(2)
	historySelectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)
