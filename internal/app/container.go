// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/daybook-app/daybook/internal/domain"
	"github.com/daybook-app/daybook/internal/infra/config"
	"github.com/daybook-app/daybook/internal/infra/jsonstore"
	"github.com/daybook-app/daybook/internal/infra/logging"
	"github.com/daybook-app/daybook/internal/infra/metrics"
	"github.com/daybook-app/daybook/internal/infra/narrator"
	"github.com/daybook-app/daybook/internal/infra/sqlitestore"
	"github.com/daybook-app/daybook/internal/usecase"
)

// Config holds the resolved filesystem paths.
type Config struct {
	WorkDir   string // Directory searched for .daybook.toml and .env
	DataDir   string // Directory holding the task store and logs
	StorePath string // Task store file
	LogPath   string // Log file
}

// Options selects where configuration and data come from.
type Options struct {
	WorkDir    string // Defaults to the current directory
	ConfigPath string // --config flag; the file must exist when set
	DataDir    string // --data-dir flag; overrides [storage] data_dir
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Repo          domain.TaskRepository
	Clock         domain.Clock
	Logger        domain.Logger
	Recorder      domain.Recorder
	Generator     domain.TextGenerator // nil when narration is disabled
	ConfigManager domain.ConfigManager

	// Pointer fields
	Store      *usecase.TaskStore
	AppConfig  *domain.Config
	Registry   *prometheus.Registry
	SlogLogger *slog.Logger

	closers []io.Closer

	// Configuration
	Config Config
}

// New loads configuration, opens the task store and wires every port.
func New(opts Options) (*Container, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	appConfig, err := config.NewLoader(workDir, opts.ConfigPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = appConfig.Storage.DataDir
	}
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// .env never overrides the real environment
	if err := config.LoadDotEnv(workDir, dataDir); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	storePath, err := domain.StorePath(dataDir, appConfig.Storage.Backend)
	if err != nil {
		return nil, err
	}
	cfg := Config{
		WorkDir:   workDir,
		DataDir:   dataDir,
		StorePath: storePath,
		LogPath:   domain.LogPath(dataDir),
	}

	repo, repoCloser, err := openRepository(appConfig.Storage.Backend, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	fileLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))
	slogLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(appConfig.Log.Level),
	}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	clock := domain.RealClock{}
	store := usecase.NewTaskStore(repo, clock, fileLogger, recorder)
	metrics.RegisterStoreGauges(registry, store.Snapshot)

	c := &Container{
		Repo:          repo,
		Clock:         clock,
		Logger:        fileLogger,
		Recorder:      recorder,
		Generator:     newGenerator(appConfig.Narration),
		ConfigManager: config.NewManager(workDir),
		Store:         store,
		AppConfig:     appConfig,
		Registry:      registry,
		SlogLogger:    slogLogger,
		Config:        cfg,
	}
	if repoCloser != nil {
		c.closers = append(c.closers, repoCloser)
	}
	c.closers = append(c.closers, fileLogger)

	fileLogger.Info("app", fmt.Sprintf("started: backend=%s store=%s", appConfig.Storage.Backend, cfg.StorePath))
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// generator may be nil.
func NewWithDeps(cfg Config, appConfig *domain.Config, repo domain.TaskRepository, clock domain.Clock, generator domain.TextGenerator) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)
	store := usecase.NewTaskStore(repo, clock, domain.NopLogger{}, recorder)
	metrics.RegisterStoreGauges(registry, store.Snapshot)

	return &Container{
		Repo:          repo,
		Clock:         clock,
		Logger:        domain.NopLogger{},
		Recorder:      recorder,
		Generator:     generator,
		ConfigManager: config.NewManager(cfg.WorkDir),
		Store:         store,
		AppConfig:     appConfig,
		Registry:      registry,
		SlogLogger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:        cfg,
	}
}

// Close releases the store and the log file.
func (c *Container) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

func openRepository(backend, path string) (domain.TaskRepository, io.Closer, error) {
	switch backend {
	case domain.BackendJSON, "":
		return jsonstore.New(path), nil, nil
	case domain.BackendSQLite:
		store, err := sqlitestore.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, backend)
	}
}

// newGenerator returns nil when narration is turned off. A missing API key
// still yields a client; it fails fast with ErrNoAPIKey and callers fall back.
func newGenerator(cfg domain.NarrationConfig) domain.TextGenerator {
	if !cfg.Enabled {
		return nil
	}
	return narrator.New(narrator.Options{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		APIKey:      os.Getenv(cfg.APIKeyEnv),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	})
}

// NarrationDebounce returns the configured debounce, never negative.
func (c *Container) NarrationDebounce() time.Duration {
	return max(c.AppConfig.Narration.Debounce, 0)
}

// UseCase factory methods

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Store, c.Clock)
}

// ToggleTaskUseCase returns a new ToggleTask use case.
func (c *Container) ToggleTaskUseCase() *usecase.ToggleTask {
	return usecase.NewToggleTask(c.Store)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store)
}

// ClearCompletedUseCase returns a new ClearCompleted use case.
func (c *Container) ClearCompletedUseCase() *usecase.ClearCompleted {
	return usecase.NewClearCompleted(c.Store)
}

// ListDayUseCase returns a new ListDay use case.
func (c *Container) ListDayUseCase() *usecase.ListDay {
	return usecase.NewListDay(c.Store, c.Clock)
}

// ShowMonthUseCase returns a new ShowMonth use case.
func (c *Container) ShowMonthUseCase() *usecase.ShowMonth {
	return usecase.NewShowMonth(c.Store, c.Clock, c.AppConfig.Calendar.MaxPreview)
}

// NarrateUseCase returns a new Narrate use case.
func (c *Container) NarrateUseCase() *usecase.Narrate {
	return usecase.NewNarrate(c.Store, c.Generator, c.Clock, c.Logger, c.Recorder)
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.Store, c.Clock, c.Logger)
}

// ExportCalendarUseCase returns a new ExportCalendar use case.
func (c *Container) ExportCalendarUseCase() *usecase.ExportCalendar {
	return usecase.NewExportCalendar(c.Store, c.Clock, time.Local)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Config.LogPath)
}

// MigrateStoreUseCase returns a new MigrateStore use case.
func (c *Container) MigrateStoreUseCase(source, dest domain.TaskRepository) *usecase.MigrateStore {
	return usecase.NewMigrateStore(source, dest, c.Logger)
}

// Backend returns the configured storage backend.
func (c *Container) Backend() string {
	if c.AppConfig.Storage.Backend == "" {
		return domain.BackendJSON
	}
	return c.AppConfig.Storage.Backend
}

// OpenBackend opens the store of backend inside the data directory.
// The returned closer is nil for backends that hold no resources.
func (c *Container) OpenBackend(backend string) (domain.TaskRepository, io.Closer, error) {
	path, err := domain.StorePath(c.Config.DataDir, backend)
	if err != nil {
		return nil, nil, err
	}
	return openRepository(backend, path)
}
