package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/daybook-app/daybook/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Text colors
	TextNormal   lipgloss.Color
	TextSelected lipgloss.Color

	// Calendar
	Today    lipgloss.Color
	Pending  lipgloss.Color
	Done     lipgloss.Color
	Weekend  lipgloss.Color
	Overflow lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TextNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TextSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)

	Today:    lipgloss.Color("#74B9FF"), // Light blue
	Pending:  lipgloss.Color("#DFE6E9"),
	Done:     lipgloss.Color("#00B894"),
	Weekend:  lipgloss.Color("#B2BEC3"),
	Overflow: lipgloss.Color("#A29BFE"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Panes
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style

	// Day list
	TaskNormal    lipgloss.Style
	TaskSelected  lipgloss.Style
	TaskDone      lipgloss.Style
	TaskTime      lipgloss.Style
	CursorNormal  lipgloss.Style
	CursorFocused lipgloss.Style
	FilterBadge   lipgloss.Style
	Empty         lipgloss.Style

	// Calendar
	WeekdayHeader lipgloss.Style
	DayNumber     lipgloss.Style
	DayToday      lipgloss.Style
	DaySelected   lipgloss.Style
	PreviewTask   lipgloss.Style
	PreviewDone   lipgloss.Style
	Overflow      lipgloss.Style

	// Assistant
	Assistant      lipgloss.Style
	AssistantTitle lipgloss.Style
	AssistantText  lipgloss.Style
	SourceBadge    lipgloss.Style

	// Help
	Help lipgloss.Style

	// Footer
	Footer lipgloss.Style
	Note   lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style
	DialogLabel  lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Muted).
		Padding(0, 1)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderText: lipgloss.NewStyle().
			Bold(true),

		Pane:        pane,
		PaneFocused: pane.BorderForeground(Colors.Primary),
		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Secondary),

		TaskNormal: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),
		TaskSelected: lipgloss.NewStyle().
			Foreground(Colors.TextSelected).
			Bold(true),
		TaskDone: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Strikethrough(true),
		TaskTime: lipgloss.NewStyle().
			Foreground(Colors.Today),
		CursorNormal: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		CursorFocused: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),
		FilterBadge: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.Secondary).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		WeekdayHeader: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Bold(true),
		DayNumber: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),
		DayToday: lipgloss.NewStyle().
			Foreground(Colors.Today).
			Bold(true).
			Underline(true),
		DaySelected: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.Primary).
			Bold(true),
		PreviewTask: lipgloss.NewStyle().
			Foreground(Colors.Pending),
		PreviewDone: lipgloss.NewStyle().
			Foreground(Colors.Done).
			Strikethrough(true),
		Overflow: lipgloss.NewStyle().
			Foreground(Colors.Overflow).
			Italic(true),

		Assistant: pane.BorderForeground(Colors.Secondary),
		AssistantTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		AssistantText: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),
		SourceBadge: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		Help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(1, 2),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Note: lipgloss.NewStyle().
			Foreground(Colors.Success),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),
		DialogPrompt: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),
		DialogLabel: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Width(6),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// SourceLabel returns the caption shown next to narration text.
func SourceLabel(source domain.NarrationSource) string {
	switch source {
	case domain.SourceAI:
		return "assistant"
	case domain.SourceFallback:
		return "offline summary"
	case domain.SourceEmpty:
		return ""
	default:
		return ""
	}
}
