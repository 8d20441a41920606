package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/testutil"
)

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m
}

func TestView_LoadingBeforeResize(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, "Loading...", m.View())
}

func TestView_Main(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Standup", today, "09:00", false),
		task(2, "Dentist", today.AddDays(3), "", false),
	)
	sized(m)

	// Execute
	out := m.View()

	// Assert
	assert.Contains(t, out, "daybook")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "October 2026")
	assert.Contains(t, out, "Assistant")
	assert.Contains(t, out, "1 active · 0 done")
}

func TestView_EmptyDay(t *testing.T) {
	m, _ := newTestModel(t)
	sized(m)

	assert.Contains(t, m.View(), "No tasks. Press a to add one.")
}

func TestView_CalendarOverflow(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "One", today, "08:00", false),
		task(2, "Two", today, "09:00", false),
		task(3, "Three", today, "10:00", false),
		task(4, "Four", today, "11:00", false),
	)
	sized(m)

	assert.Contains(t, m.View(), "+1 more")
}

func TestView_Narration(t *testing.T) {
	m, _ := newTestModel(t)
	sized(m)
	m.reminder = domain.Narration{Text: "Plenty of time today.", Source: domain.SourceFallback}

	out := m.View()

	assert.Contains(t, out, "Plenty of time today.")
	assert.Contains(t, out, "(offline summary)")
}

func TestView_Dialogs(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)

	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"add", keyRunes("a"), "New task for Fri, Oct 16 2026"},
		{"edit", keyRunes("e"), "Edit task #1"},
		{"delete", keyRunes("d"), "Delete task #1?"},
		{"clear", keyRunes("C"), "Clear all completed tasks?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, task(1, "Standup", today, "", false))
			sized(m)

			press(m, tt.key)

			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestView_Help(t *testing.T) {
	m, _ := newTestModel(t)
	sized(m)

	press(m, keyRunes("?"))
	out := m.View()

	assert.Contains(t, out, "KEYBOARD SHORTCUTS")
	assert.Contains(t, out, "clear completed")
}

func TestView_ErrorAndNote(t *testing.T) {
	m, _ := newTestModel(t)
	sized(m)

	m.Update(MsgTaskMutated{Note: "Task deleted"})
	m.err = domain.ErrTaskNotFound

	out := m.View()
	assert.Contains(t, out, "Task deleted")
	assert.Contains(t, out, "Error: "+domain.ErrTaskNotFound.Error())
}

func TestView_DayTitle(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"l", "Tomorrow"},
		{"h", "Yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m, _ := newTestModel(t)
			press(m, keyRunes(tt.key))
			assert.Equal(t, tt.want, m.dayTitle())
		})
	}

	m, _ := newTestModel(t)
	press(m, keyRunes("]"))
	assert.Equal(t, "Nov 16", m.dayTitle())
}

func TestRenderCell_TruncatesPreview(t *testing.T) {
	m, _ := newTestModel(t)
	cell := &domain.DayCell{
		Date:    testutil.Date(2026, time.October, 16),
		Preview: []domain.Task{{Text: "A very long task description"}},
		Total:   1,
	}

	out := m.renderCell(cell, 10, 3)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "description")
}

func TestRenderCell_Padding(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.renderCell(nil, 8, 2)

	assert.Equal(t, "        \n        ", out)
}
