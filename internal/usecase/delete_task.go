package usecase

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	ID int64
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	store *TaskStore
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store *TaskStore) *DeleteTask {
	return &DeleteTask{store: store}
}

// Execute deletes the task. An unknown id changes nothing and reports
// domain.ErrTaskNotFound.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) error {
	removed, err := uc.store.Delete(in.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("task #%d: %w", in.ID, domain.ErrTaskNotFound)
	}
	return nil
}
