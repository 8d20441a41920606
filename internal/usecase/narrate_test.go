package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrate_Reminder_EmptyDaySkipsGenerator(t *testing.T) {
	// Setup
	store, _, clock := newTestStore(t)
	gen := &testutil.MockGenerator{Text: "hello"}
	recorder := testutil.NewMockRecorder()
	uc := NewNarrate(store, gen, clock, nil, recorder)

	// Execute
	n := uc.Reminder(context.Background(), nil, testutil.Date(2026, 10, 16))

	// Assert
	assert.Equal(t, domain.Narration{Text: domain.EmptyDayMessage, Source: domain.SourceEmpty}, n)
	assert.Zero(t, gen.Calls())
	assert.Equal(t, 1, recorder.Narrations["reminder/empty"])
}

func TestNarrate_Reminder_UsesGenerator(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	tasks := []domain.Task{
		{ID: 1, Text: "Call mom", Date: day, Time: "18:30"},
		{ID: 2, Text: "Gym", Date: day, Completed: true},
	}
	store, _, clock := newTestStore(t)
	gen := &testutil.MockGenerator{Text: "You got this"}
	uc := NewNarrate(store, gen, clock, nil, nil)

	// Execute
	n := uc.Reminder(context.Background(), tasks, day)

	// Assert
	assert.Equal(t, domain.Narration{Text: "You got this", Source: domain.SourceAI}, n)
	require.Len(t, gen.Prompts, 1)
	assert.Contains(t, gen.Prompts[0], "Pending: 1")
	assert.Contains(t, gen.Prompts[0], "Completed: 1")
	assert.Contains(t, gen.Prompts[0], "To do: Call mom (18:30)")
}

func TestNarrate_Reminder_FallbackOnError(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	tasks := []domain.Task{{ID: 1, Text: "Call mom", Date: day, Time: "18:30"}}
	store, _, clock := newTestStore(t)
	gen := &testutil.MockGenerator{Err: errors.New("connection refused")}
	logger := &testutil.MockLogger{}
	uc := NewNarrate(store, gen, clock, logger, nil)

	// Execute
	n := uc.Reminder(context.Background(), tasks, day)

	// Assert
	assert.Equal(t, domain.SourceFallback, n.Source)
	assert.Equal(t, "You have 1 tasks today: 0 done, 1 still pending.\n\nTackle these first: Call mom (18:30)", n.Text)
	warns := logger.ByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "narration", warns[0].Category)
	assert.Contains(t, warns[0].Msg, "connection refused")
}

func TestNarrate_NilGeneratorFallsBack(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	tasks := []domain.Task{
		{ID: 1, Text: "a", Date: day, Completed: true},
		{ID: 2, Text: "b", Date: day.AddDays(-2), Completed: true},
		{ID: 3, Text: "c", Date: day.AddDays(-10)},
	}
	store, _, clock := newTestStore(t)
	recorder := testutil.NewMockRecorder()
	uc := NewNarrate(store, nil, clock, nil, recorder)

	// Execute
	summary := uc.Summary(context.Background(), tasks, day)

	// Assert
	assert.Equal(t, domain.SourceFallback, summary.Source)
	assert.True(t, strings.HasPrefix(summary.Text, "📊 7-day completion rate: 100%"))
	assert.Equal(t, 1, recorder.Narrations["summary/fallback"])
}

func TestNarrate_NoAPIKeyLogsAtDebug(t *testing.T) {
	// Setup
	store, _, clock := newTestStore(t)
	gen := &testutil.MockGenerator{Err: domain.ErrNoAPIKey}
	logger := &testutil.MockLogger{}
	uc := NewNarrate(store, gen, clock, logger, nil)

	// Execute
	n := uc.Summary(context.Background(), nil, testutil.Date(2026, 10, 16))

	// Assert
	assert.Equal(t, domain.SourceFallback, n.Source)
	assert.Empty(t, logger.ByLevel("WARN"))
	assert.Len(t, logger.ByLevel("DEBUG"), 1)
}

func TestNarrate_Execute(t *testing.T) {
	// Setup
	day := testutil.Date(2026, 10, 16)
	store, _, clock := newTestStore(t,
		domain.Task{ID: 1, Text: "a", Date: day},
		domain.Task{ID: 2, Text: "b", Date: day, Completed: true},
	)
	gen := &testutil.MockGenerator{Text: "ok"}
	recorder := testutil.NewMockRecorder()
	uc := NewNarrate(store, gen, clock, nil, recorder)

	// Execute
	out, err := uc.Execute(context.Background(), NarrateInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, day, out.Date)
	assert.Equal(t, domain.SourceAI, out.Reminder.Source)
	assert.Equal(t, domain.SourceAI, out.Summary.Source)
	assert.Equal(t, 2, gen.Calls())
	assert.Equal(t, map[string]int{"reminder/ai": 1, "summary/ai": 1}, recorder.Narrations)
}
