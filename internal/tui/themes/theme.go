package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI and the CLI result layout.
type Theme struct {
	Selected      lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Hybrid        lipgloss.Style
	Catch         lipgloss.Style
	RoundedBox    lipgloss.Style
	Highlighted   lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:   lipgloss.Color("#e11d48"),
	Secondary: lipgloss.Color("#fb7185"),
	Error:     lipgloss.Color("#ef4444"),
	Border:    lipgloss.Color("#404040"),
	Muted:     lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Hybrid: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Italic(true),
	Catch: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fb7185")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#e11d48")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),

	// Component styles
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
}

// Mono is a theme without colors for plain terminals and piped output.
var Mono = Theme{
	Primary:   lipgloss.Color(""),
	Secondary: lipgloss.Color(""),
	Error:     lipgloss.Color(""),
	Border:    lipgloss.Color(""),
	Muted:     lipgloss.Color(""),

	Title:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Subtitle:    lipgloss.NewStyle(),
	Normal:      lipgloss.NewStyle(),
	Bold:        lipgloss.NewStyle().Bold(true),
	Hybrid:      lipgloss.NewStyle().Italic(true),
	Catch:       lipgloss.NewStyle().Bold(true),
	Selected:    lipgloss.NewStyle().Reverse(true),
	Highlighted: lipgloss.NewStyle().Underline(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2),

	StatusSuccess: lipgloss.NewStyle().Bold(true),
	StatusWarning: lipgloss.NewStyle().Bold(true),
	StatusError:   lipgloss.NewStyle().Bold(true),
	StatusInfo:    lipgloss.NewStyle(),
	StatusPending: lipgloss.NewStyle().Italic(true),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "mono":
		return Mono
	default:
		return Default
	}
}
