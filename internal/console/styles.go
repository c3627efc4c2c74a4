package console

import "github.com/charmbracelet/lipgloss"

var (
	// promptStyle for the input prompt
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// contStyle for the continuation prompt
	contStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// resultStyle for marker-prefixed evaluation results
	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for marker-prefixed runtime errors
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// listStyle for completion candidate lists
	listStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	// recallStyle for history entries re-shown in the transcript
	recallStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)
