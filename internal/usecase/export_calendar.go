package usecase

import (
	"context"
	"time"

	"github.com/daybook-app/daybook/internal/domain"
)

// ExportCalendarInput contains the date range to export.
// A zero bound leaves that side open.
type ExportCalendarInput struct {
	From domain.Date
	To   domain.Date
}

// ExportCalendarOutput contains the iCalendar document.
type ExportCalendarOutput struct {
	ICS   string
	Count int
}

// ExportCalendar is the use case for exporting tasks as iCalendar events.
type ExportCalendar struct {
	store *TaskStore
	clock domain.Clock
	loc   *time.Location
}

// NewExportCalendar creates a new ExportCalendar use case.
// Timed tasks are interpreted in loc (nil = time.Local).
func NewExportCalendar(store *TaskStore, clock domain.Clock, loc *time.Location) *ExportCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &ExportCalendar{
		store: store,
		clock: clock,
		loc:   loc,
	}
}

// Execute renders the tasks in range ordered by date and time.
func (uc *ExportCalendar) Execute(_ context.Context, in ExportCalendarInput) (*ExportCalendarOutput, error) {
	from, to := in.From, in.To
	if from.IsZero() {
		from = domain.Date{Year: 1, Month: time.January, Day: 1}
	}
	if to.IsZero() {
		to = domain.Date{Year: 9999, Month: time.December, Day: 31}
	}

	tasks := domain.TasksBetween(uc.store.Snapshot(), from, to)
	return &ExportCalendarOutput{
		ICS:   domain.BuildCalendarICS(tasks, uc.clock.Now(), uc.loc),
		Count: len(tasks),
	}, nil
}
