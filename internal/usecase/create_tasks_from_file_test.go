package usecase

import (
	"context"
	"testing"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importFile = `tasks:
  - text: Buy milk
    date: 2026-10-20
    time: "8:30"
  - text: Read a chapter
    completed: true
  - text: "   "
`

func TestCreateTasksFromFile_Execute(t *testing.T) {
	// Setup
	store, repo, clock := newTestStore(t)
	uc := NewCreateTasksFromFile(store, clock, &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: []byte(importFile)})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.Tasks, 2)

	assert.Equal(t, "Buy milk", out.Tasks[0].Text)
	assert.Equal(t, testutil.Date(2026, 10, 20), out.Tasks[0].Date)
	assert.Equal(t, "08:30", out.Tasks[0].Time)
	assert.False(t, out.Tasks[0].Completed)

	assert.Equal(t, "Read a chapter", out.Tasks[1].Text)
	assert.Equal(t, testutil.Date(2026, 10, 16), out.Tasks[1].Date)
	assert.True(t, out.Tasks[1].Completed)

	assert.Equal(t, out.Tasks, repo.Stored())
	assert.NotEqual(t, out.Tasks[0].ID, out.Tasks[1].ID)
}

func TestCreateTasksFromFile_Execute_DryRun(t *testing.T) {
	// Setup
	store, repo, clock := newTestStore(t)
	uc := NewCreateTasksFromFile(store, clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTasksFromFileInput{
		Content:     []byte(importFile),
		DefaultDate: testutil.Date(2026, 11, 1),
		DryRun:      true,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	assert.Equal(t, testutil.Date(2026, 11, 1), out.Tasks[1].Date)
	assert.Zero(t, out.Tasks[0].ID)
	assert.Empty(t, store.Snapshot())
	assert.Zero(t, repo.ReplaceCount())
}

func TestCreateTasksFromFile_Execute_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		content string
	}{
		{domain.ErrEmptyFile, "empty file", "  \n"},
		{domain.ErrNoTasksInFile, "no tasks", "tasks: []\n"},
		{domain.ErrInvalidDate, "bad date", "tasks:\n  - text: a\n    date: 2026-13-01\n"},
		{domain.ErrInvalidTime, "bad time", "tasks:\n  - text: a\n  - text: b\n    time: \"99:00\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			store, repo, clock := newTestStore(t)
			uc := NewCreateTasksFromFile(store, clock, nil)

			// Execute
			_, err := uc.Execute(context.Background(), CreateTasksFromFileInput{Content: []byte(tt.content)})

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Snapshot(), "nothing is added when any entry is invalid")
			assert.Zero(t, repo.ReplaceCount())
		})
	}
}
