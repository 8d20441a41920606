package tui

import "github.com/daybook-app/daybook/internal/domain"

// Msg is a sealed interface for all TUI messages.
// Only types in this package can implement it.
type Msg interface {
	sealed()
}

// MsgTaskMutated is sent when a store mutation has finished.
type MsgTaskMutated struct {
	Err  error
	Note string // Status line text, empty for none
}

func (MsgTaskMutated) sealed() {}

// MsgNarrationDue is sent when the debounce window of a narration
// request has elapsed.
type MsgNarrationDue struct {
	Tag string
}

func (MsgNarrationDue) sealed() {}

// MsgNarrationReady carries one finished narration. Tag identifies the
// request so results of superseded requests can be dropped.
type MsgNarrationReady struct {
	Kind      domain.NarrationKind
	Tag       string
	Narration domain.Narration
}

func (MsgNarrationReady) sealed() {}

// MsgTick is sent at midnight boundaries so "today" follows the clock.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgClearNote clears the status line note.
type MsgClearNote struct{}

func (MsgClearNote) sealed() {}
