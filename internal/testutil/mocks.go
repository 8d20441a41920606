// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/daybook-app/daybook/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository.
type MockTaskRepository struct {
	LoadErr    error
	ReplaceErr error
	Tasks      []domain.Task
	Replaces   int // Successful and failed Replace calls
	mu         sync.Mutex
}

// NewMockTaskRepository creates a repository preloaded with tasks.
func NewMockTaskRepository(tasks ...domain.Task) *MockTaskRepository {
	return &MockTaskRepository{Tasks: tasks}
}

// Load returns a copy of the stored tasks.
func (m *MockTaskRepository) Load() ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return slices.Clone(m.Tasks), nil
}

// Replace stores a copy of tasks unless ReplaceErr is set.
func (m *MockTaskRepository) Replace(tasks []domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replaces++
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Tasks = slices.Clone(tasks)
	return nil
}

// Stored returns a copy of what was last persisted.
func (m *MockTaskRepository) Stored() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Tasks)
}

// ReplaceCount returns how many times Replace was called.
func (m *MockTaskRepository) ReplaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Replaces
}

// MockGenerator is a test double for domain.TextGenerator.
type MockGenerator struct {
	Err     error
	Text    string
	Prompts []string
	Delay   time.Duration // Waits before answering, honoring ctx
	mu      sync.Mutex
}

// Generate records prompt and returns Text or Err.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// Calls returns how many prompts were received.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// String renders the entry like the file logger does, without timestamp.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%s] %s", e.Level, e.Category, e.Msg)
}

// MockLogger is a test double for domain.Logger that keeps every entry.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

// ByLevel returns the entries logged at level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockRecorder is a test double for domain.Recorder.
type MockRecorder struct {
	Mutations  map[string]int // "op/applied" or "op/noop" -> count
	Narrations map[string]int // "kind/source" -> count
	mu         sync.Mutex
}

// NewMockRecorder creates a MockRecorder with initialized maps.
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Mutations:  make(map[string]int),
		Narrations: make(map[string]int),
	}
}

// TaskMutation counts a mutation.
func (m *MockRecorder) TaskMutation(op string, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := "applied"
	if !applied {
		result = "noop"
	}
	m.Mutations[op+"/"+result]++
}

// Narration counts a narration.
func (m *MockRecorder) Narration(kind domain.NarrationKind, source domain.NarrationSource, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Narrations[string(kind)+"/"+string(source)]++
}

// Date is shorthand for domain.NewDate in tests.
func Date(year int, month time.Month, day int) domain.Date {
	return domain.NewDate(year, month, day)
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr     error
	Global      domain.ConfigInfo
	Local       domain.ConfigInfo
	InitGlobals []*domain.Config
	InitLocals  []*domain.Config
}

// GetGlobalConfigInfo returns Global.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.Global }

// GetLocalConfigInfo returns Local.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo { return m.Local }

// InitGlobalConfig records cfg and returns Global.Path.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.InitErr != nil {
		return "", m.InitErr
	}
	m.InitGlobals = append(m.InitGlobals, cfg)
	return m.Global.Path, nil
}

// InitLocalConfig records cfg and returns Local.Path.
func (m *MockConfigManager) InitLocalConfig(cfg *domain.Config) (string, error) {
	if m.InitErr != nil {
		return "", m.InitErr
	}
	m.InitLocals = append(m.InitLocals, cfg)
	return m.Local.Path, nil
}
