package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/daybook-app/daybook/internal/domain"
)

const (
	dayPaneWidth = 36
	minCellWidth = 6
	dateLayout   = "Mon, Jan 2 2006"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeNormal, ModeAdd, ModeEdit, ModeConfirm:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the day list, calendar, and assistant panel.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewDayPane(), " ", m.viewCalendar()))
	b.WriteString("\n")

	// Dialogs replace the assistant panel while open
	switch m.mode {
	case ModeNormal, ModeHelp:
		b.WriteString(m.viewAssistant())
	case ModeAdd, ModeEdit:
		b.WriteString(m.viewTaskDialog())
	case ModeConfirm:
		b.WriteString(m.viewConfirmDialog())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

// viewHeader renders the title and the selected day.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("daybook")
	date := m.selected.In(m.clock.Now().Location()).Format(dateLayout)
	right := lipgloss.NewStyle().Foreground(Colors.Muted).Render(date)

	width := max(m.width-4, 40)
	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + right)
}

func (m *Model) paneStyle(p Pane) lipgloss.Style {
	if m.focus == p {
		return m.styles.PaneFocused
	}
	return m.styles.Pane
}

// viewDayPane renders the task list of the selected day.
func (m *Model) viewDayPane() string {
	inner := dayPaneWidth - 4
	var b strings.Builder

	title := m.styles.PaneTitle.Render(m.dayTitle())
	badge := m.styles.FilterBadge.Render(m.filter.Display())
	b.WriteString(title + strings.Repeat(" ", max(inner-lipgloss.Width(title)-lipgloss.Width(badge), 1)) + badge)
	b.WriteString("\n\n")

	if m.day == nil || len(m.day.Tasks) == 0 {
		b.WriteString(m.styles.Empty.Render("No tasks. Press a to add one."))
	} else {
		for i, t := range m.day.Tasks {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.renderTaskRow(t, i == m.cursor, inner))
		}
	}

	if m.day != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render(fmt.Sprintf("%d active · %d done", m.day.Active, m.day.Completed)))
	}

	return m.paneStyle(PaneDay).Width(dayPaneWidth).Render(b.String())
}

func (m *Model) dayTitle() string {
	switch {
	case m.selected == m.today:
		return "Today"
	case m.selected == m.today.AddDays(1):
		return "Tomorrow"
	case m.selected == m.today.AddDays(-1):
		return "Yesterday"
	}
	return m.selected.In(m.clock.Now().Location()).Format("Jan 2")
}

// renderTaskRow renders one task line: cursor, checkbox, time, text.
func (m *Model) renderTaskRow(t domain.Task, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "› "
	}
	cursorStyle := m.styles.CursorNormal
	if selected && m.focus == PaneDay {
		cursorStyle = m.styles.CursorFocused
	}

	box := "[ ] "
	if t.Completed {
		box = "[x] "
	}

	clock := ""
	if t.HasTime() {
		clock = t.Time + " "
	}

	textWidth := max(width-runewidth.StringWidth(cursor+box+clock), 1)
	text := truncate.StringWithTail(t.Text, uint(textWidth), "…")

	textStyle := m.styles.TaskNormal
	switch {
	case t.Completed:
		textStyle = m.styles.TaskDone
	case selected:
		textStyle = m.styles.TaskSelected
	}

	return cursorStyle.Render(cursor) + box + m.styles.TaskTime.Render(clock) + textStyle.Render(text)
}

// calendarCellWidth fits seven columns into the space beside the day pane.
func (m *Model) calendarCellWidth() int {
	avail := m.width - dayPaneWidth - 10
	return max(avail/7-1, minCellWidth)
}

// viewCalendar renders the month grid.
func (m *Model) viewCalendar() string {
	cellWidth := m.calendarCellWidth()
	var b strings.Builder

	b.WriteString(m.styles.PaneTitle.Render(m.grid.Month.Title()))
	b.WriteString("\n\n")

	headers := make([]string, 0, 7)
	for _, h := range domain.WeekdayHeaders() {
		headers = append(headers, m.styles.WeekdayHeader.Render(runewidth.FillRight(h, cellWidth)))
	}
	b.WriteString(strings.Join(headers, " "))

	lines := m.cellLines()
	for _, week := range m.grid.Weeks() {
		b.WriteString("\n")
		cells := make([]string, 0, 13)
		for i, cell := range week {
			if i > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, m.renderCell(cell, cellWidth, lines))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return m.paneStyle(PaneCalendar).Render(b.String())
}

// cellLines returns the height of every cell: the day number, the
// longest preview, and one line for the overflow label.
func (m *Model) cellLines() int {
	longest := 0
	for _, d := range m.grid.Days {
		longest = max(longest, len(d.Preview))
	}
	return longest + 2
}

// renderCell renders one calendar day. A nil cell is padding outside
// the month.
func (m *Model) renderCell(cell *domain.DayCell, width, lines int) string {
	blank := strings.Repeat(" ", width)
	rows := make([]string, lines)
	for i := range rows {
		rows[i] = blank
	}
	if cell == nil {
		return strings.Join(rows, "\n")
	}

	numStyle := m.styles.DayNumber
	switch {
	case cell.IsSelected:
		numStyle = m.styles.DaySelected
	case cell.IsToday:
		numStyle = m.styles.DayToday
	}
	rows[0] = numStyle.Render(runewidth.FillRight(fmt.Sprintf("%2d", cell.Date.Day), width))

	for i, t := range cell.Preview {
		marker := "• "
		style := m.styles.PreviewTask
		if t.Completed {
			marker = "✓ "
			style = m.styles.PreviewDone
		}
		text := truncate.StringWithTail(marker+t.Text, uint(width), "…")
		rows[i+1] = style.Render(runewidth.FillRight(text, width))
	}

	if label := cell.OverflowLabel(); label != "" {
		text := truncate.StringWithTail(label, uint(width), "…")
		rows[lines-1] = m.styles.Overflow.Render(runewidth.FillRight(text, width))
	}

	return strings.Join(rows, "\n")
}

// viewAssistant renders the reminder and summary for the selected day.
func (m *Model) viewAssistant() string {
	width := max(m.width-8, 20)
	var b strings.Builder

	title := m.styles.AssistantTitle.Render("Assistant")
	if m.Narrating() {
		title += " " + m.spinner.View()
	}
	b.WriteString(title)

	for _, n := range []domain.Narration{m.reminder, m.summary} {
		if n.Text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(m.styles.AssistantText.Render(wordwrap.String(n.Text, width)))
		if label := SourceLabel(n.Source); label != "" {
			b.WriteString(" " + m.styles.SourceBadge.Render("("+label+")"))
		}
	}

	return m.styles.Assistant.Width(width + 4).Render(b.String())
}

// viewTaskDialog renders the add or edit dialog.
func (m *Model) viewTaskDialog() string {
	heading := "◆ New task for " + m.selected.In(m.clock.Now().Location()).Format(dateLayout)
	if m.mode == ModeEdit {
		heading = fmt.Sprintf("◆ Edit task #%d", m.editTaskID)
	}

	hint := m.styles.Footer.Render("enter save · tab switch field · esc cancel")
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.DialogTitle.Render(heading),
		m.styles.DialogLabel.Render("Task")+m.textInput.View(),
		m.styles.DialogLabel.Render("Time")+m.timeInput.View(),
		"",
		hint,
	)
	return m.styles.Dialog.Render(content)
}

// viewConfirmDialog renders the confirmation dialog.
func (m *Model) viewConfirmDialog() string {
	var title string
	switch m.confirmAction {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		title = fmt.Sprintf("Delete task #%d?", m.confirmTaskID)
	case ConfirmClearCompleted:
		title = "Clear all completed tasks?"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.DialogTitle.Foreground(Colors.Error).Render(title),
		m.styles.DialogPrompt.Render("This action cannot be undone."),
		"",
		m.styles.Footer.Render("[ y ] Confirm  [ n ] Cancel"),
	)
	return m.styles.Dialog.BorderForeground(Colors.Error).Render(content)
}

// viewFooter renders the status note or the short key help.
func (m *Model) viewFooter() string {
	if m.note != "" {
		return m.styles.Note.Render(m.note)
	}
	if m.mode != ModeNormal {
		return ""
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// viewHelp renders the full key reference.
func (m *Model) viewHelp() string {
	title := m.styles.HeaderText.Render("KEYBOARD SHORTCUTS")
	body := m.help.FullHelpView(m.keys.FullHelp())
	hint := m.styles.Footer.Render("esc or ? to close")
	return m.styles.Help.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}
