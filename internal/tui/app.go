package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/daybook-app/daybook/internal/app"
	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/usecase"
)

// noteDuration is how long a status note stays visible.
const noteDuration = 3 * time.Second

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	store     *usecase.TaskStore
	narrate   *usecase.Narrate
	clock     domain.Clock
	err       error

	// Narration requests in flight, latest tag per kind
	pending map[domain.NarrationKind]string

	// Snapshots rebuilt by refresh
	day  *usecase.ListDayOutput
	grid domain.MonthGrid

	// Components
	keys    KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model

	// Input state (large structs)
	textInput textinput.Model
	timeInput textinput.Model

	reminder    domain.Narration
	summary     domain.Narration
	debounceTag string
	note        string

	// Calendar state
	selected domain.Date
	month    domain.Month
	today    domain.Date
	filter   domain.Filter

	// Numeric state (smaller types last)
	debounce      time.Duration
	editTaskID    int64
	confirmTaskID int64
	mode          Mode
	confirmAction ConfirmAction
	focus         Pane
	field         inputField
	cursor        int
	width         int
	height        int
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200

	tm := textinput.New()
	tm.Placeholder = "HH:MM (optional)"
	tm.CharLimit = 5

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	today := domain.DateOf(c.Clock.Now())
	filter := c.AppConfig.List.DefaultFilter
	if filter == "" {
		filter = domain.FilterActive
	}

	m := &Model{
		container: c,
		store:     c.Store,
		narrate:   c.NarrateUseCase(),
		clock:     c.Clock,
		pending:   make(map[domain.NarrationKind]string),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		spinner:   sp,
		textInput: ti,
		timeInput: tm,
		selected:  today,
		month:     today.MonthOf(),
		today:     today,
		filter:    filter,
		debounce:  c.NarrationDebounce(),
		mode:      ModeNormal,
		focus:     PaneDay,
	}
	m.refresh()
	return m
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.scheduleNarration(),
		m.tickAtMidnight(),
	)
}

// refresh rebuilds the day list and month grid from the store.
func (m *Model) refresh() {
	ctx := context.Background()

	day, err := m.container.ListDayUseCase().Execute(ctx, usecase.ListDayInput{Date: m.selected, Filter: m.filter})
	if err != nil {
		m.err = err
		return
	}
	m.day = day

	month, err := m.container.ShowMonthUseCase().Execute(ctx, usecase.ShowMonthInput{Month: m.month, Selected: m.selected})
	if err != nil {
		m.err = err
		return
	}
	m.grid = month.Grid

	m.cursor = min(m.cursor, max(len(m.day.Tasks)-1, 0))
}

// SelectedTask returns the task under the cursor, or nil.
func (m *Model) SelectedTask() *domain.Task {
	if m.day == nil || m.cursor < 0 || m.cursor >= len(m.day.Tasks) {
		return nil
	}
	t := m.day.Tasks[m.cursor]
	return &t
}

// Selected returns the selected day.
func (m *Model) Selected() domain.Date {
	return m.selected
}

// selectDay moves the selection and keeps the visible month in step.
// It returns the narration request for the new day.
func (m *Model) selectDay(d domain.Date) tea.Cmd {
	if d == m.selected {
		return nil
	}
	m.selected = d
	m.month = d.MonthOf()
	m.cursor = 0
	m.refresh()
	return m.scheduleNarration()
}

// scheduleNarration starts the debounce window. Only the last request
// made within the window fires.
func (m *Model) scheduleNarration() tea.Cmd {
	tag := uuid.NewString()
	m.debounceTag = tag
	if m.debounce <= 0 {
		return func() tea.Msg { return MsgNarrationDue{Tag: tag} }
	}
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return MsgNarrationDue{Tag: tag}
	})
}

// requestNarration fires both narrations for the selected day.
func (m *Model) requestNarration() tea.Cmd {
	tasks := m.store.Snapshot()
	day := m.selected

	reminderTag := uuid.NewString()
	summaryTag := uuid.NewString()
	m.pending[domain.NarrationReminder] = reminderTag
	m.pending[domain.NarrationSummary] = summaryTag

	return tea.Batch(
		func() tea.Msg {
			n := m.narrate.Reminder(context.Background(), tasks, day)
			return MsgNarrationReady{Kind: domain.NarrationReminder, Tag: reminderTag, Narration: n}
		},
		func() tea.Msg {
			n := m.narrate.Summary(context.Background(), tasks, day)
			return MsgNarrationReady{Kind: domain.NarrationSummary, Tag: summaryTag, Narration: n}
		},
		m.spinner.Tick,
	)
}

// Narrating reports whether a narration request is in flight.
func (m *Model) Narrating() bool {
	return len(m.pending) > 0
}

func (m *Model) tickAtMidnight() tea.Cmd {
	now := m.clock.Now()
	next := m.today.AddDays(1).In(now.Location())
	return tea.Tick(next.Sub(now), func(time.Time) tea.Msg { return MsgTick{} })
}

func (m *Model) showNote(note string) tea.Cmd {
	m.note = note
	return tea.Tick(noteDuration, func(time.Time) tea.Msg { return MsgClearNote{} })
}

// Mutations run as commands and report back with MsgTaskMutated.

func (m *Model) addTask(text, clock string, date domain.Date) tea.Cmd {
	uc := m.container.AddTaskUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.AddTaskInput{Text: text, Time: clock, Date: date})
		if err != nil {
			return MsgTaskMutated{Err: err}
		}
		if out.Task == nil {
			return MsgTaskMutated{}
		}
		return MsgTaskMutated{Note: fmt.Sprintf("Added %q", out.Task.Text)}
	}
}

// editTask applies an edit. nil text or clock keeps the stored value.
func (m *Model) editTask(id int64, text, clock *string) tea.Cmd {
	uc := m.container.EditTaskUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.EditTaskInput{ID: id, Text: text, Time: clock})
		if err != nil {
			return MsgTaskMutated{Err: err}
		}
		if out.Task == nil {
			return MsgTaskMutated{}
		}
		return MsgTaskMutated{Note: fmt.Sprintf("Updated %q", out.Task.Text)}
	}
}

func (m *Model) toggleTask(id int64) tea.Cmd {
	uc := m.container.ToggleTaskUseCase()
	return func() tea.Msg {
		if _, err := uc.Execute(context.Background(), usecase.ToggleTaskInput{ID: id}); err != nil {
			return MsgTaskMutated{Err: err}
		}
		return MsgTaskMutated{}
	}
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	uc := m.container.DeleteTaskUseCase()
	return func() tea.Msg {
		if err := uc.Execute(context.Background(), usecase.DeleteTaskInput{ID: id}); err != nil {
			return MsgTaskMutated{Err: err}
		}
		return MsgTaskMutated{Note: "Task deleted"}
	}
}

func (m *Model) clearCompleted() tea.Cmd {
	uc := m.container.ClearCompletedUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background())
		if err != nil {
			return MsgTaskMutated{Err: err}
		}
		return MsgTaskMutated{Note: fmt.Sprintf("Cleared %d completed tasks", out.Removed)}
	}
}
