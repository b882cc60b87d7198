// Package styles holds the lipgloss styles shared by the terminal renderers
// and the interactive UI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast on black and dark surfaces.
	PrimaryColor = lipgloss.Color("#A78BFA") // violet-400
	SuccessColor = lipgloss.Color("#10B981")
	WarningColor = lipgloss.Color("#F59E0B")
	ErrorColor   = lipgloss.Color("#F87171") // red-400
	MutedColor   = lipgloss.Color("#9CA3AF")
	SurfaceColor = lipgloss.Color("#1F2937")
	TextColor    = lipgloss.Color("#F9FAFB")
	BorderColor  = lipgloss.Color("#6B7280")

	// Priority classes
	PriorityHighColor   = lipgloss.Color("#F87171")
	PriorityMediumColor = lipgloss.Color("#FBBF24")
	PriorityLowColor    = lipgloss.Color("#10B981")

	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Text    = lipgloss.NewStyle().Foreground(TextColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Recommendation card
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	CardRank = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	CardTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	MetricLabel = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(12)

	MetricValue = lipgloss.NewStyle().
			Foreground(TextColor)

	Justification = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	Placeholder = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Padding(1, 2)

	// Queue list
	QueueItem = lipgloss.NewStyle().
			Padding(0, 1)

	QueueItemSelected = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SuccessColor)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ConfirmBanner = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(WarningColor).
			Bold(true).
			Padding(0, 1)
)

// PriorityColor returns the color for a priority class.
func PriorityColor(class string) lipgloss.Color {
	switch class {
	case "high":
		return PriorityHighColor
	case "low":
		return PriorityLowColor
	case "medium":
		return PriorityMediumColor
	default:
		return MutedColor
	}
}

// PriorityBadge returns the badge style for a priority class.
func PriorityBadge(class string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(SurfaceColor).
		Background(PriorityColor(class)).
		Padding(0, 1)
}

// NotificationStyle returns the style for a transient message.
func NotificationStyle(isError bool) lipgloss.Style {
	if isError {
		return ErrorMsg
	}
	return SuccessMsg
}
