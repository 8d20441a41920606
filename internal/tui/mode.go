// Package tui provides the terminal user interface for daybook.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal  Mode = iota // Default navigation mode
	ModeAdd                 // Add task dialog
	ModeEdit                // Edit task dialog
	ModeConfirm             // Confirmation dialog mode
	ModeHelp                // Help overlay mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeAdd, ModeEdit:
		return true
	case ModeNormal, ModeConfirm, ModeHelp:
		return false
	}
	return false
}

// ConfirmAction represents the type of action requiring confirmation.
type ConfirmAction int

const (
	ConfirmNone           ConfirmAction = iota
	ConfirmDelete                       // Delete task
	ConfirmClearCompleted               // Delete every completed task
)

// String returns a human-readable description of the action.
func (a ConfirmAction) String() string {
	switch a {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		return "delete"
	case ConfirmClearCompleted:
		return "clear completed"
	}
	return ""
}

// Pane identifies which half of the screen has keyboard focus.
type Pane int

const (
	PaneDay      Pane = iota // Task list of the selected day
	PaneCalendar             // Month grid
)

// Next returns the other pane.
func (p Pane) Next() Pane {
	if p == PaneDay {
		return PaneCalendar
	}
	return PaneDay
}

// inputField identifies the focused field of the add/edit dialog.
type inputField int

const (
	fieldText inputField = iota
	fieldTime
)
