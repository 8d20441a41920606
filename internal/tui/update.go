package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daybook-app/daybook/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.Narrating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgTaskMutated:
		if msg.Err != nil {
			m.err = msg.Err
		}
		m.refresh()
		cmds := []tea.Cmd{m.scheduleNarration()}
		if msg.Note != "" {
			cmds = append(cmds, m.showNote(msg.Note))
		}
		return m, tea.Batch(cmds...)

	case MsgNarrationDue:
		// Superseded by a later request within the debounce window
		if msg.Tag != m.debounceTag {
			return m, nil
		}
		return m, m.requestNarration()

	case MsgNarrationReady:
		if m.pending[msg.Kind] != msg.Tag {
			return m, nil
		}
		delete(m.pending, msg.Kind)
		switch msg.Kind {
		case domain.NarrationReminder:
			m.reminder = msg.Narration
		case domain.NarrationSummary:
			m.summary = msg.Narration
		}
		return m, nil

	case MsgTick:
		wasToday := m.selected == m.today
		m.today = domain.DateOf(m.clock.Now())
		cmds := []tea.Cmd{m.tickAtMidnight()}
		if wasToday {
			cmds = append(cmds, m.selectDay(m.today))
		} else {
			m.refresh()
		}
		return m, tea.Batch(cmds...)

	case MsgClearNote:
		m.note = ""
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Clear error on any key press
	if m.err != nil {
		m.err = nil
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeAdd, ModeEdit:
		return m.handleInputMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}

	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.SwitchPane):
		m.focus = m.focus.Next()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focus == PaneCalendar {
			return m, m.selectDay(m.selected.AddDays(-7))
		}
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.focus == PaneCalendar {
			return m, m.selectDay(m.selected.AddDays(7))
		}
		if m.day != nil && m.cursor < len(m.day.Tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		return m, m.selectDay(m.selected.AddDays(-1))

	case key.Matches(msg, m.keys.NextDay):
		return m, m.selectDay(m.selected.AddDays(1))

	case key.Matches(msg, m.keys.PrevMonth):
		return m, m.selectDay(m.month.Prev().Clamp(m.selected.Day))

	case key.Matches(msg, m.keys.NextMonth):
		return m, m.selectDay(m.month.Next().Clamp(m.selected.Day))

	case key.Matches(msg, m.keys.Today):
		return m, m.selectDay(m.today)

	case key.Matches(msg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.requestNarration()

	case key.Matches(msg, m.keys.Add):
		return m, m.openAdd()

	case key.Matches(msg, m.keys.Enter):
		if m.focus == PaneCalendar || m.SelectedTask() == nil {
			return m, m.openAdd()
		}
		return m, m.openEdit()

	case key.Matches(msg, m.keys.Toggle):
		if task := m.SelectedTask(); task != nil {
			return m, m.toggleTask(task.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m, m.openEdit()

	case key.Matches(msg, m.keys.Delete):
		if task := m.SelectedTask(); task != nil {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDelete
			m.confirmTaskID = task.ID
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearCompleted):
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClearCompleted
		return m, nil
	}

	return m, nil
}

// openAdd opens the add dialog for the selected day.
func (m *Model) openAdd() tea.Cmd {
	m.mode = ModeAdd
	m.editTaskID = 0
	m.textInput.Reset()
	m.timeInput.Reset()
	return m.focusField(fieldText)
}

// openEdit opens the edit dialog prefilled with the selected task.
func (m *Model) openEdit() tea.Cmd {
	task := m.SelectedTask()
	if task == nil {
		return nil
	}
	m.mode = ModeEdit
	m.editTaskID = task.ID
	m.textInput.SetValue(task.Text)
	m.timeInput.SetValue(task.Time)
	return m.focusField(fieldText)
}

func (m *Model) focusField(f inputField) tea.Cmd {
	m.field = f
	if f == fieldTime {
		m.textInput.Blur()
		return m.timeInput.Focus()
	}
	m.timeInput.Blur()
	return m.textInput.Focus()
}

func (m *Model) closeDialog() {
	m.mode = ModeNormal
	m.editTaskID = 0
	m.textInput.Blur()
	m.timeInput.Blur()
	m.textInput.Reset()
	m.timeInput.Reset()
}

// handleInputMode handles keys in the add and edit dialogs. In the edit
// dialog, leaving a field commits it, the same as enter does for the whole
// dialog. esc drops only what has not been committed yet.
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDialog()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		next := fieldTime
		if m.field == fieldTime {
			next = fieldText
		}
		if m.mode != ModeEdit {
			return m, m.focusField(next)
		}
		commit, ok := m.commitField()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(commit, m.focusField(next))

	case msg.Type == tea.KeyEnter:
		return m, m.submitDialog()

	case m.mode == ModeEdit && (msg.Type == tea.KeyUp || msg.Type == tea.KeyDown):
		return m, m.submitDialog()
	}

	var cmd tea.Cmd
	if m.field == fieldTime {
		m.timeInput, cmd = m.timeInput.Update(msg)
	} else {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

// commitField saves the focused field of the edit dialog. ok is false when
// the time field does not parse, in which case focus stays put.
func (m *Model) commitField() (tea.Cmd, bool) {
	if m.field == fieldTime {
		clock, err := domain.ParseClock(m.timeInput.Value())
		if err != nil {
			m.err = err
			return nil, false
		}
		return m.editTask(m.editTaskID, nil, &clock), true
	}

	text := m.textInput.Value()
	if strings.TrimSpace(text) == "" {
		return nil, true
	}
	return m.editTask(m.editTaskID, &text, nil), true
}

// submitDialog saves the dialog contents. Blank text closes the dialog
// without changing anything. An unparsable time keeps the dialog open.
func (m *Model) submitDialog() tea.Cmd {
	text := m.textInput.Value()
	clock, err := domain.ParseClock(m.timeInput.Value())
	if err != nil {
		m.err = err
		return m.focusField(fieldTime)
	}
	mode, id := m.mode, m.editTaskID
	m.closeDialog()

	if strings.TrimSpace(text) == "" {
		return nil
	}
	if mode == ModeEdit {
		return m.editTask(id, &text, &clock)
	}
	return m.addTask(text, clock, m.selected)
}

// handleConfirmMode handles keys in confirm mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		action, id := m.confirmAction, m.confirmTaskID
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		switch action {
		case ConfirmNone:
			// Nothing to confirm
		case ConfirmDelete:
			return m, m.deleteTask(id)
		case ConfirmClearCompleted:
			return m, m.clearCompleted()
		}
	}

	return m, nil
}

// handleHelpMode handles keys in help mode.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	}

	return m, nil
}
