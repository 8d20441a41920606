package usecase

import (
	"context"
	"fmt"

	"github.com/daybook-app/daybook/internal/domain"
)

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Total    int // Tasks found in the source
	Migrated int
	Skipped  int // Already present and identical in the destination
}

// MigrateStore copies every task from one backend into another.
type MigrateStore struct {
	source domain.TaskRepository
	dest   domain.TaskRepository
	logger domain.Logger
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.TaskRepository, logger domain.Logger) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, logger: logger}
}

// Execute appends the source tasks to the destination collection.
// Tasks already in the destination are skipped when identical; a task
// with the same id but different content aborts the migration before
// anything is written.
func (uc *MigrateStore) Execute(_ context.Context) (*MigrateStoreOutput, error) {
	tasks, err := uc.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load source tasks: %w", err)
	}
	existing, err := uc.dest.Load()
	if err != nil {
		return nil, fmt.Errorf("load destination tasks: %w", err)
	}

	out := &MigrateStoreOutput{Total: len(tasks)}
	merged := append([]domain.Task(nil), existing...)
	for _, task := range tasks {
		if i := domain.FindTask(existing, task.ID); i >= 0 {
			if existing[i] != task {
				return nil, fmt.Errorf("%w: task #%d", domain.ErrMigrationConflict, task.ID)
			}
			out.Skipped++
			continue
		}
		merged = append(merged, task)
		out.Migrated++
	}

	if out.Migrated == 0 {
		return out, nil
	}
	if err := uc.dest.Replace(merged); err != nil {
		return nil, fmt.Errorf("save destination tasks: %w", err)
	}

	uc.logger.Info("migrate", fmt.Sprintf("copied %d of %d tasks", out.Migrated, out.Total))
	return out, nil
}
