package usecase

import (
	"context"

	"github.com/daybook-app/daybook/internal/domain"
)

// ShowMonthInput contains the parameters for building a month grid.
type ShowMonthInput struct {
	Selected domain.Date  // Highlighted day (zero = none)
	Month    domain.Month // Zero = the current month
}

// ShowMonthOutput contains the month grid.
type ShowMonthOutput struct {
	Grid domain.MonthGrid
}

// ShowMonth is the use case for the calendar view.
type ShowMonth struct {
	store      *TaskStore
	clock      domain.Clock
	maxPreview int
}

// NewShowMonth creates a new ShowMonth use case.
func NewShowMonth(store *TaskStore, clock domain.Clock, maxPreview int) *ShowMonth {
	return &ShowMonth{
		store:      store,
		clock:      clock,
		maxPreview: maxPreview,
	}
}

// Execute builds the grid for the requested month.
func (uc *ShowMonth) Execute(_ context.Context, in ShowMonthInput) (*ShowMonthOutput, error) {
	today := domain.DateOf(uc.clock.Now())
	month := in.Month
	if month == (domain.Month{}) {
		month = today.MonthOf()
	}

	grid := domain.BuildMonthGrid(month, uc.store.Snapshot(), today, in.Selected, uc.maxPreview)
	return &ShowMonthOutput{Grid: grid}, nil
}
