package usecase

import "context"

// ClearCompletedOutput contains the result of clearing completed tasks.
type ClearCompletedOutput struct {
	Removed int
}

// ClearCompleted is the use case for removing every completed task.
type ClearCompleted struct {
	store *TaskStore
}

// NewClearCompleted creates a new ClearCompleted use case.
func NewClearCompleted(store *TaskStore) *ClearCompleted {
	return &ClearCompleted{store: store}
}

// Execute removes the completed tasks.
func (uc *ClearCompleted) Execute(_ context.Context) (*ClearCompletedOutput, error) {
	n, err := uc.store.ClearCompleted()
	if err != nil {
		return nil, err
	}
	return &ClearCompletedOutput{Removed: n}, nil
}
