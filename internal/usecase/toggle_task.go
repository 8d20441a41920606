package usecase

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/domain"
)

// ToggleTaskInput contains the parameters for toggling a task.
type ToggleTaskInput struct {
	ID int64
}

// ToggleTaskOutput contains the toggled task.
type ToggleTaskOutput struct {
	Task domain.Task
}

// ToggleTask is the use case for flipping a task's completed flag.
type ToggleTask struct {
	store *TaskStore
}

// NewToggleTask creates a new ToggleTask use case.
func NewToggleTask(store *TaskStore) *ToggleTask {
	return &ToggleTask{store: store}
}

// Execute toggles the task. An unknown id changes nothing and reports
// domain.ErrTaskNotFound.
func (uc *ToggleTask) Execute(_ context.Context, in ToggleTaskInput) (*ToggleTaskOutput, error) {
	task, err := uc.store.Toggle(in.ID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task #%d: %w", in.ID, domain.ErrTaskNotFound)
	}
	return &ToggleTaskOutput{Task: *task}, nil
}
