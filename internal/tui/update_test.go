package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/app"
	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/testutil"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, tasks ...domain.Task) (*Model, *testutil.MockClock) {
	t.Helper()
	return newTestModelAt(t, testNow, nil, tasks...)
}

func newTestModelAt(t *testing.T, now time.Time, gen domain.TextGenerator, tasks ...domain.Task) (*Model, *testutil.MockClock) {
	t.Helper()
	cfg := domain.NewDefaultConfig()
	cfg.Narration.Debounce = 0
	clock := &testutil.MockClock{NowTime: now}
	c := app.NewWithDeps(app.Config{WorkDir: t.TempDir()}, cfg, testutil.NewMockTaskRepository(tasks...), clock, gen)
	return New(c), clock
}

func task(id int64, text string, date domain.Date, clock string, completed bool) domain.Task {
	return domain.Task{ID: id, Text: text, Date: date, Time: clock, Completed: completed}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// runCmd executes cmd and flattens batches. Only use it on commands
// that return immediately.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestNew_SelectsToday(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(2, "Lunch", today, "12:00", false),
		task(1, "Standup", today, "09:00", false),
		task(3, "Tomorrow", today.AddDays(1), "", false),
	)

	assert.Equal(t, today, m.Selected())
	assert.Equal(t, today.MonthOf(), m.month)
	assert.Equal(t, domain.FilterActive, m.filter)
	require.NotNil(t, m.day)
	require.Len(t, m.day.Tasks, 2)
	assert.Equal(t, "Standup", m.day.Tasks[0].Text)
	assert.Equal(t, "Standup", m.SelectedTask().Text)
}

func TestNew_UsesConfiguredFilter(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.List.DefaultFilter = domain.FilterAll
	c := app.NewWithDeps(app.Config{WorkDir: t.TempDir()}, cfg, testutil.NewMockTaskRepository(), &testutil.MockClock{NowTime: testNow}, nil)

	m := New(c)

	assert.Equal(t, domain.FilterAll, m.filter)
}

func TestUpdate_DayNavigation(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want domain.Date
	}{
		{"next day", []tea.KeyMsg{keyRunes("l")}, today.AddDays(1)},
		{"prev day", []tea.KeyMsg{{Type: tea.KeyLeft}}, today.AddDays(-1)},
		{"calendar down is next week", []tea.KeyMsg{{Type: tea.KeyTab}, keyRunes("j")}, today.AddDays(7)},
		{"calendar up is prev week", []tea.KeyMsg{{Type: tea.KeyTab}, keyRunes("k")}, today.AddDays(-7)},
		{"next month", []tea.KeyMsg{keyRunes("]")}, testutil.Date(2026, time.November, 16)},
		{"prev month", []tea.KeyMsg{keyRunes("[")}, testutil.Date(2026, time.September, 16)},
		{"back to today", []tea.KeyMsg{keyRunes("l"), keyRunes("l"), keyRunes("t")}, today},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			for _, k := range tt.keys {
				press(m, k)
			}
			assert.Equal(t, tt.want, m.Selected())
			assert.Equal(t, tt.want.MonthOf(), m.month)
		})
	}
}

func TestUpdate_NextMonthClampsDay(t *testing.T) {
	// Setup
	m, _ := newTestModelAt(t, time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC), nil)

	// Execute
	press(m, keyRunes("]"))

	// Assert
	assert.Equal(t, testutil.Date(2026, time.February, 28), m.Selected())
}

func TestUpdate_SelectDaySchedulesNarration(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.debounceTag

	cmd := press(m, keyRunes("l"))

	require.NotNil(t, cmd)
	msgs := runCmd(cmd)
	require.Len(t, msgs, 1)
	due, ok := msgs[0].(MsgNarrationDue)
	require.True(t, ok)
	assert.Equal(t, m.debounceTag, due.Tag)
	assert.NotEqual(t, before, due.Tag)
}

func TestUpdate_StaleNarrationDueIsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	m.debounceTag = "latest"

	_, cmd := m.Update(MsgNarrationDue{Tag: "older"})

	assert.Nil(t, cmd)
	assert.False(t, m.Narrating())
}

func TestUpdate_NarrationUsesFallbackWithoutGenerator(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Standup", today, "09:00", true),
		task(2, "Review", today, "", false),
	)

	// Execute
	_, cmd := m.Update(MsgNarrationDue{Tag: m.debounceTag})
	require.True(t, m.Narrating())
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}

	// Assert
	assert.False(t, m.Narrating())
	assert.Equal(t, domain.SourceFallback, m.reminder.Source)
	assert.Contains(t, m.reminder.Text, "Review")
	assert.Equal(t, domain.SourceFallback, m.summary.Source)
	assert.Contains(t, m.summary.Text, "7-day completion rate")
}

func TestUpdate_NarrationUsesGenerator(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	gen := &testutil.MockGenerator{Text: "Focus on the review."}
	m, _ := newTestModelAt(t, testNow, gen, task(1, "Review", today, "", false))

	for _, msg := range runCmd(m.requestNarration()) {
		m.Update(msg)
	}

	assert.Equal(t, domain.Narration{Text: "Focus on the review.", Source: domain.SourceAI}, m.reminder)
	assert.Equal(t, domain.SourceAI, m.summary.Source)
}

func TestUpdate_EmptyDayNarration(t *testing.T) {
	m, _ := newTestModel(t)

	for _, msg := range runCmd(m.requestNarration()) {
		m.Update(msg)
	}

	assert.Equal(t, domain.Narration{Text: domain.EmptyDayMessage, Source: domain.SourceEmpty}, m.reminder)
}

func TestUpdate_StaleNarrationReadyIsDropped(t *testing.T) {
	// Setup
	m, _ := newTestModel(t)
	m.pending[domain.NarrationReminder] = "current"

	// Execute
	m.Update(MsgNarrationReady{Kind: domain.NarrationReminder, Tag: "stale", Narration: domain.Narration{Text: "old"}})

	// Assert
	assert.Empty(t, m.reminder.Text)
	assert.True(t, m.Narrating())

	m.Update(MsgNarrationReady{Kind: domain.NarrationReminder, Tag: "current", Narration: domain.Narration{Text: "new"}})
	assert.Equal(t, "new", m.reminder.Text)
	assert.False(t, m.Narrating())
}

func TestUpdate_AddTaskDialog(t *testing.T) {
	// Setup
	m, _ := newTestModel(t)
	press(m, keyRunes("l"))

	// Execute
	press(m, keyRunes("a"))
	require.Equal(t, ModeAdd, m.mode)
	press(m, keyRunes("Buy milk"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, keyRunes("07:45"))
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	// Assert
	assert.Equal(t, ModeNormal, m.mode)
	require.NotNil(t, cmd)
	msgs := runCmd(cmd)
	require.Len(t, msgs, 1)
	mutated, ok := msgs[0].(MsgTaskMutated)
	require.True(t, ok)
	require.NoError(t, mutated.Err)
	assert.Equal(t, `Added "Buy milk"`, mutated.Note)

	m.Update(mutated)
	require.Len(t, m.day.Tasks, 1)
	assert.Equal(t, "Buy milk", m.day.Tasks[0].Text)
	assert.Equal(t, "07:45", m.day.Tasks[0].Time)
	assert.Equal(t, testutil.Date(2026, time.October, 17), m.day.Tasks[0].Date)
	assert.Equal(t, `Added "Buy milk"`, m.note)
}

func TestUpdate_AddTaskDialogBlankText(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, keyRunes("a"))
	press(m, keyRunes("   "))
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.store.Snapshot())
}

func TestUpdate_AddTaskDialogEscape(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, keyRunes("a"))
	press(m, keyRunes("Draft"))
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.textInput.Value())
}

func TestUpdate_AddTaskInvalidTimeKeepsDialog(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, keyRunes("a"))
	press(m, keyRunes("Nap"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, keyRunes("7pm"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.ErrorIs(t, m.err, domain.ErrInvalidTime)
	assert.Equal(t, ModeAdd, m.mode)
	assert.Equal(t, fieldTime, m.field)
	assert.Equal(t, "Nap", m.textInput.Value())
	assert.Equal(t, "7pm", m.timeInput.Value())
	assert.Empty(t, m.store.Snapshot())
}

func TestUpdate_EditTask(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Call mom", today, "18:30", false))

	// Execute
	press(m, keyRunes("e"))
	require.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "Call mom", m.textInput.Value())
	assert.Equal(t, "18:30", m.timeInput.Value())
	m.textInput.SetValue("Call dad")
	m.timeInput.SetValue("")
	msgs := runCmd(press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	m.Update(msgs[0])

	// Assert
	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Call dad", got.Text)
	assert.Empty(t, got.Time)
}

// applyMutations runs cmd and feeds the resulting task mutations back into m.
func applyMutations(m *Model, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		if mutated, ok := msg.(MsgTaskMutated); ok {
			m.Update(mutated)
		}
	}
}

func TestUpdate_EditCommitsTextWhenLeavingField(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Old", today, "18:30", false))

	// Execute
	press(m, keyRunes("e"))
	m.textInput.SetValue("New text")
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyTab}))
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	// Assert
	assert.Equal(t, ModeNormal, m.mode)
	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "New text", got.Text)
	assert.Equal(t, "18:30", got.Time)
}

func TestUpdate_EditCommitsTimeWhenLeavingField(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Old", today, "18:30", false))

	// Execute
	press(m, keyRunes("e"))
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyTab}))
	require.Equal(t, fieldTime, m.field)
	m.timeInput.SetValue("7:05")
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyTab}))

	// Assert
	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, fieldText, m.field)
	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Old", got.Text)
	assert.Equal(t, "07:05", got.Time)
}

func TestUpdate_EditBlankTextNotCommittedOnLeave(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Old", today, "", false))

	press(m, keyRunes("e"))
	m.textInput.SetValue("   ")
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyTab}))

	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Old", got.Text)
	assert.Equal(t, fieldTime, m.field)
}

func TestUpdate_EditInvalidTimeKeepsFocus(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Old", today, "18:30", false))

	press(m, keyRunes("e"))
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyTab}))
	m.timeInput.SetValue("7pm")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyTab})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.err, domain.ErrInvalidTime)
	assert.Equal(t, fieldTime, m.field)
	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "18:30", got.Time)
}

func TestUpdate_EditCommitsOnArrowKey(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Old", today, "08:00", false),
		task(2, "Other", today, "09:00", false),
	)

	// Execute
	press(m, keyRunes("e"))
	m.textInput.SetValue("New text")
	applyMutations(m, press(m, tea.KeyMsg{Type: tea.KeyDown}))

	// Assert
	assert.Equal(t, ModeNormal, m.mode)
	got, ok := m.store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "New text", got.Text)
	assert.Equal(t, "08:00", got.Time)
}

func TestUpdate_EditWithoutTaskDoesNothing(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, keyRunes("e"))

	assert.Nil(t, cmd)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestUpdate_EnterOnCalendarOpensAdd(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t, task(1, "Standup", today, "", false))

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeAdd, m.mode)
	assert.Empty(t, m.textInput.Value())
}

func TestUpdate_ToggleTask(t *testing.T) {
	// Setup
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Standup", today, "09:00", false),
		task(2, "Lunch", today, "12:00", false),
	)

	// Execute
	msgs := runCmd(press(m, tea.KeyMsg{Type: tea.KeySpace}))
	require.Len(t, msgs, 1)
	m.Update(msgs[0])

	// Assert
	require.Len(t, m.day.Tasks, 1)
	assert.Equal(t, "Lunch", m.day.Tasks[0].Text)
	assert.Equal(t, 1, m.day.Completed)
	assert.Equal(t, 0, m.cursor)
}

func TestUpdate_CursorMovement(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "A", today, "09:00", false),
		task(2, "B", today, "10:00", false),
	)

	press(m, keyRunes("j"))
	assert.Equal(t, "B", m.SelectedTask().Text)
	press(m, keyRunes("j"))
	assert.Equal(t, 1, m.cursor)
	press(m, keyRunes("k"))
	press(m, keyRunes("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestUpdate_DeleteTask(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)

	tests := []struct {
		name    string
		confirm tea.KeyMsg
		wantLen int
	}{
		{"confirmed", keyRunes("y"), 0},
		{"cancelled", keyRunes("n"), 1},
		{"escaped", tea.KeyMsg{Type: tea.KeyEsc}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, task(1, "Standup", today, "", false))

			press(m, keyRunes("d"))
			require.Equal(t, ModeConfirm, m.mode)
			assert.Equal(t, ConfirmDelete, m.confirmAction)
			assert.Equal(t, int64(1), m.confirmTaskID)

			for _, msg := range runCmd(press(m, tt.confirm)) {
				m.Update(msg)
			}

			assert.Equal(t, ModeNormal, m.mode)
			assert.Equal(t, ConfirmNone, m.confirmAction)
			assert.Len(t, m.store.Snapshot(), tt.wantLen)
		})
	}
}

func TestUpdate_ClearCompleted(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Done", today, "", true),
		task(2, "Open", today, "", false),
		task(3, "Old", today.AddDays(-3), "", true),
	)

	press(m, keyRunes("C"))
	require.Equal(t, ConfirmClearCompleted, m.confirmAction)
	msgs := runCmd(press(m, keyRunes("y")))
	require.Len(t, msgs, 1)
	assert.Equal(t, "Cleared 2 completed tasks", msgs[0].(MsgTaskMutated).Note)
	m.Update(msgs[0])

	require.Len(t, m.store.Snapshot(), 1)
	assert.Equal(t, 0, m.day.Completed)
}

func TestUpdate_FilterCycle(t *testing.T) {
	today := testutil.Date(2026, time.October, 16)
	m, _ := newTestModel(t,
		task(1, "Done", today, "09:00", true),
		task(2, "Open", today, "10:00", false),
	)

	tests := []struct {
		want  domain.Filter
		texts []string
	}{
		{domain.FilterAll, []string{"Done", "Open"}},
		{domain.FilterCompleted, []string{"Done"}},
		{domain.FilterActive, []string{"Open"}},
	}

	for _, tt := range tests {
		press(m, keyRunes("f"))
		assert.Equal(t, tt.want, m.filter)
		var texts []string
		for _, task := range m.day.Tasks {
			texts = append(texts, task.Text)
		}
		assert.Equal(t, tt.texts, texts)
	}
}

func TestUpdate_MutationErrorIsShownUntilNextKey(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(MsgTaskMutated{Err: errors.New("disk full")})
	assert.EqualError(t, m.err, "disk full")

	press(m, keyRunes("j"))
	assert.NoError(t, m.err)
}

func TestUpdate_ClearNote(t *testing.T) {
	m, _ := newTestModel(t)
	m.note = "Task deleted"

	m.Update(MsgClearNote{})

	assert.Empty(t, m.note)
}

func TestUpdate_MidnightMovesToday(t *testing.T) {
	t.Run("selection follows today", func(t *testing.T) {
		m, clock := newTestModel(t)
		clock.NowTime = testNow.Add(24 * time.Hour)

		m.Update(MsgTick{})

		assert.Equal(t, testutil.Date(2026, time.October, 17), m.today)
		assert.Equal(t, testutil.Date(2026, time.October, 17), m.Selected())
	})

	t.Run("other selection is kept", func(t *testing.T) {
		m, clock := newTestModel(t)
		press(m, keyRunes("h"))
		clock.NowTime = testNow.Add(24 * time.Hour)

		m.Update(MsgTick{})

		assert.Equal(t, testutil.Date(2026, time.October, 17), m.today)
		assert.Equal(t, testutil.Date(2026, time.October, 15), m.Selected())
	})
}

func TestUpdate_HelpMode(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, keyRunes("?"))
	assert.Equal(t, ModeHelp, m.mode)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, keyRunes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_QKeyIsTextInDialog(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, keyRunes("a"))
	press(m, keyRunes("q"))

	assert.Equal(t, ModeAdd, m.mode)
	assert.Equal(t, "q", m.textInput.Value())
}
