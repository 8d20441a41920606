package usecase

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/domain"
)

// CreateTasksFromFileInput contains the parameters for importing tasks.
type CreateTasksFromFileInput struct {
	Content     []byte      // YAML import file
	DefaultDate domain.Date // Date for entries without one (zero = today)
	DryRun      bool        // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of an import.
type CreateTasksFromFileOutput struct {
	Tasks   []domain.Task // Created tasks (or tasks that would be created in dry-run mode)
	Skipped int           // Entries with empty text
}

// CreateTasksFromFile is the use case for importing tasks from a YAML file.
type CreateTasksFromFile struct {
	store  *TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
func NewCreateTasksFromFile(store *TaskStore, clock domain.Clock, logger domain.Logger) *CreateTasksFromFile {
	return &CreateTasksFromFile{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

type resolvedDraft struct {
	text      string
	clock     string
	date      domain.Date
	completed bool
}

// Execute validates every entry first, then adds them in file order.
// Nothing is added when any entry is invalid.
func (uc *CreateTasksFromFile) Execute(_ context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	fallback := in.DefaultDate
	if fallback.IsZero() {
		fallback = domain.DateOf(uc.clock.Now())
	}

	out := &CreateTasksFromFileOutput{}
	resolved := make([]resolvedDraft, 0, len(drafts))
	for i, d := range drafts {
		text, ok := domain.NormalizeText(d.Text)
		if !ok {
			out.Skipped++
			continue
		}
		date, clock, err := d.Resolve(fallback)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		resolved = append(resolved, resolvedDraft{text: text, clock: clock, date: date, completed: d.Completed})
	}

	if in.DryRun {
		for _, r := range resolved {
			out.Tasks = append(out.Tasks, domain.Task{Text: r.text, Date: r.date, Time: r.clock, Completed: r.completed})
		}
		return out, nil
	}

	for _, r := range resolved {
		task, err := uc.store.Add(r.text, r.date, r.clock)
		if err != nil {
			return out, err
		}
		if r.completed {
			if task, err = uc.store.Toggle(task.ID); err != nil {
				return out, err
			}
		}
		out.Tasks = append(out.Tasks, *task)
	}

	if uc.logger != nil {
		uc.logger.Info("import", fmt.Sprintf("imported %d tasks, skipped %d", len(out.Tasks), out.Skipped))
	}
	return out, nil
}
