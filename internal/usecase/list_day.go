package usecase

import (
	"context"

	"github.com/daybook-app/daybook/internal/domain"
)

// ListDayInput contains the parameters for listing a day's tasks.
type ListDayInput struct {
	Filter domain.Filter // "" = active
	Date   domain.Date   // Zero = today
}

// ListDayOutput contains the tasks of the day.
type ListDayOutput struct {
	Tasks     []domain.Task // Filtered, sorted by time
	Date      domain.Date
	Filter    domain.Filter
	Active    int // Pending tasks on the day, regardless of filter
	Completed int // Completed tasks on the day, regardless of filter
}

// ListDay is the use case for listing one day's tasks.
type ListDay struct {
	store *TaskStore
	clock domain.Clock
}

// NewListDay creates a new ListDay use case.
func NewListDay(store *TaskStore, clock domain.Clock) *ListDay {
	return &ListDay{
		store: store,
		clock: clock,
	}
}

// Execute lists the tasks of the requested day.
func (uc *ListDay) Execute(_ context.Context, in ListDayInput) (*ListDayOutput, error) {
	date := in.Date
	if date.IsZero() {
		date = domain.DateOf(uc.clock.Now())
	}
	filter := in.Filter
	if filter == "" {
		filter = domain.FilterActive
	}

	day := domain.TasksOn(uc.store.Snapshot(), date)
	completed := domain.CountCompleted(day)

	return &ListDayOutput{
		Tasks:     filter.Apply(day),
		Date:      date,
		Filter:    filter,
		Active:    len(day) - completed,
		Completed: completed,
	}, nil
}
