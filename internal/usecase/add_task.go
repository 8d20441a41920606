package usecase

import (
	"context"

	"github.com/daybook-app/daybook/internal/domain"
)

// AddTaskInput contains the parameters for adding a task.
type AddTaskInput struct {
	Text string      // Task text (trimmed; empty is a no-op)
	Time string      // HH:MM (optional)
	Date domain.Date // Day of the task (zero = today)
}

// AddTaskOutput contains the result of adding a task.
type AddTaskOutput struct {
	Task *domain.Task // nil when the text was empty
}

// AddTask is the use case for adding a task.
type AddTask struct {
	store *TaskStore
	clock domain.Clock
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(store *TaskStore, clock domain.Clock) *AddTask {
	return &AddTask{
		store: store,
		clock: clock,
	}
}

// Execute validates the time of day and adds the task.
func (uc *AddTask) Execute(_ context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	clock, err := domain.ParseClock(in.Time)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = domain.DateOf(uc.clock.Now())
	}

	task, err := uc.store.Add(in.Text, date, clock)
	if err != nil {
		return nil, err
	}
	return &AddTaskOutput{Task: task}, nil
}
