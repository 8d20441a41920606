package usecase

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
// nil fields keep their current value.
type EditTaskInput struct {
	Text *string // New text (empty after trimming aborts the edit)
	Time *string // New HH:MM time, "" clears it
	ID   int64
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // nil when the edit was aborted
}

// EditTask is the use case for changing a task's text and time.
type EditTask struct {
	store *TaskStore
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store *TaskStore) *EditTask {
	return &EditTask{store: store}
}

// Execute applies the edit.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	current, ok := uc.store.Get(in.ID)
	if !ok {
		return nil, fmt.Errorf("task #%d: %w", in.ID, domain.ErrTaskNotFound)
	}

	text := current.Text
	if in.Text != nil {
		text = *in.Text
	}
	clock := current.Time
	if in.Time != nil {
		parsed, err := domain.ParseClock(*in.Time)
		if err != nil {
			return nil, err
		}
		clock = parsed
	}

	task, err := uc.store.Update(in.ID, text, clock)
	if err != nil {
		return nil, err
	}
	if task == nil {
		if _, stillThere := uc.store.Get(in.ID); !stillThere {
			return nil, fmt.Errorf("task #%d: %w", in.ID, domain.ErrTaskNotFound)
		}
	}
	return &EditTaskOutput{Task: task}, nil
}
