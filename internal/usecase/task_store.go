// Package usecase contains application use cases.
package usecase

import (
	"fmt"
	"slices"
	"sync"

	"github.com/daybook-app/daybook/internal/domain"
)

// Mutation names used for logging and metrics.
const (
	opAdd            = "add"
	opToggle         = "toggle"
	opDelete         = "delete"
	opUpdate         = "update"
	opClearCompleted = "clear_completed"
)

// TaskStore is the authoritative in-memory task collection. Every applied
// mutation is written through to the repository as a whole collection.
// Invalid input and unknown ids are silent no-ops: they return a nil result
// and a nil error and write nothing.
type TaskStore struct {
	repo     domain.TaskRepository
	clock    domain.Clock
	logger   domain.Logger
	recorder domain.Recorder
	tasks    []domain.Task
	lastID   int64
	mu       sync.RWMutex
}

// NewTaskStore loads the collection from repo. A store that cannot be read
// starts empty and the failure is logged; loading never fails.
func NewTaskStore(repo domain.TaskRepository, clock domain.Clock, logger domain.Logger, recorder domain.Recorder) *TaskStore {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	s := &TaskStore{
		repo:     repo,
		clock:    clock,
		logger:   logger,
		recorder: recorder,
	}

	tasks, err := repo.Load()
	if err != nil {
		logger.Warn("store", fmt.Sprintf("could not load tasks, starting empty: %v", err))
		tasks = nil
	}
	s.tasks = tasks
	s.lastID = domain.MaxID(tasks)
	logger.Debug("store", fmt.Sprintf("loaded %d tasks", len(tasks)))

	return s
}

// Snapshot returns a copy of every task in insertion order.
func (s *TaskStore) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Get returns the task with id.
func (s *TaskStore) Get(id int64) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := domain.FindTask(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

// Add appends a new pending task dated date. clock is an HH:MM time or "".
// Text that trims to empty is ignored.
func (s *TaskStore) Add(text string, date domain.Date, clock string) (*domain.Task, error) {
	text, ok := domain.NormalizeText(text)
	if !ok {
		s.recorder.TaskMutation(opAdd, false)
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.NextID(s.clock.Now(), s.lastID)
	s.lastID = id
	task := domain.Task{
		ID:   id,
		Text: text,
		Date: date,
		Time: clock,
	}
	s.tasks = append(s.tasks, task)

	return &task, s.persist(opAdd)
}

// Toggle flips the completed flag of the task with id.
func (s *TaskStore) Toggle(id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindTask(s.tasks, id)
	if i < 0 {
		s.recorder.TaskMutation(opToggle, false)
		return nil, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	task := s.tasks[i]

	return &task, s.persist(opToggle)
}

// Delete removes the task with id and reports whether it existed.
func (s *TaskStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindTask(s.tasks, id)
	if i < 0 {
		s.recorder.TaskMutation(opDelete, false)
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	return true, s.persist(opDelete)
}

// Update replaces the text and time of the task with id. Completion state,
// id and date are kept. Text that trims to empty is ignored.
func (s *TaskStore) Update(id int64, text, clock string) (*domain.Task, error) {
	text, ok := domain.NormalizeText(text)
	if !ok {
		s.recorder.TaskMutation(opUpdate, false)
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindTask(s.tasks, id)
	if i < 0 {
		s.recorder.TaskMutation(opUpdate, false)
		return nil, nil
	}
	s.tasks[i].Text = text
	s.tasks[i].Time = clock
	task := s.tasks[i]

	return &task, s.persist(opUpdate)
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *TaskStore) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	if removed == 0 {
		s.recorder.TaskMutation(opClearCompleted, false)
		return 0, nil
	}

	return removed, s.persist(opClearCompleted)
}

// persist writes the whole collection. The in-memory change stays applied
// when the write fails, so the next successful write catches storage up.
// Callers hold s.mu.
func (s *TaskStore) persist(op string) error {
	s.recorder.TaskMutation(op, true)
	if err := s.repo.Replace(slices.Clone(s.tasks)); err != nil {
		s.logger.Error("store", fmt.Sprintf("%s: persist failed: %v", op, err))
		return fmt.Errorf("persist tasks: %w", err)
	}
	s.logger.Debug("store", fmt.Sprintf("%s: persisted %d tasks", op, len(s.tasks)))
	return nil
}
