package domain

import (
	"context"
	"time"
)

// TaskRepository persists the whole task collection.
type TaskRepository interface {
	// Load returns the stored tasks in insertion order.
	// A store that does not exist yet yields an empty slice and no error.
	// Unreadable content yields an error wrapping ErrCorruptStore.
	Load() ([]Task, error)

	// Replace stores tasks as the complete collection.
	Replace(tasks []Task) error
}

// TextGenerator produces narration text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Logger writes leveled log lines tagged with a category.
type Logger interface {
	Info(category, msg string)
	Debug(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(string, string)  {}
func (NopLogger) Debug(string, string) {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// Recorder receives counters for operational metrics.
type Recorder interface {
	// TaskMutation records a store mutation. applied is false for no-ops.
	TaskMutation(op string, applied bool)

	// Narration records one finished narration request.
	Narration(kind NarrationKind, source NarrationSource, elapsed time.Duration)
}

// NopRecorder discards metrics.
type NopRecorder struct{}

func (NopRecorder) TaskMutation(string, bool)                               {}
func (NopRecorder) Narration(NarrationKind, NarrationSource, time.Duration) {}

// ConfigManager reads and creates config files.
type ConfigManager interface {
	GetGlobalConfigInfo() ConfigInfo
	GetLocalConfigInfo() ConfigInfo
	// InitGlobalConfig writes the rendered template and returns its path.
	InitGlobalConfig(cfg *Config) (string, error)
	// InitLocalConfig writes .daybook.toml and returns its path.
	InitLocalConfig(cfg *Config) (string, error)
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}
