// Package cli provides styled terminal output for the lovetype commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	rose   = lipgloss.Color("#E11D48")
	border = lipgloss.Color("#333")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(rose).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(1, 2)

	// SubtleStyle formats less prominent text such as hybrid labels.
	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	// TableHeaderStyle underlines a list heading.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(border)
)

func badge(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess formats a success message.
func FormatSuccess(message string) string { return badge(successStyle, "✓", message) }

// FormatError formats an error message.
func FormatError(message string) string { return badge(errorStyle, "✗", message) }

// FormatWarning formats a warning message.
func FormatWarning(message string) string { return badge(warningStyle, "⚠️", message) }

// FormatInfo formats an informational message.
func FormatInfo(message string) string { return badge(infoStyle, "ℹ️", message) }

// FormatTitle formats a heading for a pair of types.
func FormatTitle(title string) string { return badge(titleStyle, "💞", title) }

// RenderBox draws content under title inside a rounded border.
func RenderBox(title, content string) string {
	heading := titleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
