package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Directory and file names for daybook.
const (
	AppDirName          = "daybook"       // Directory name under XDG config/data homes
	ConfigFileName      = "config.toml"   // Global config file name
	LocalConfigFileName = ".daybook.toml" // Config file name in the working directory
	DotEnvFileName      = ".env"          // Environment file for secrets
	JSONStoreFileName   = "tasks.json"    // JSON backend file
	SQLiteStoreFileName = "tasks.db"      // SQLite backend file
	LogDirName          = "logs"          // Log directory inside the data directory
	LogFileName         = "daybook.log"   // Log file name
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Default configuration values.
const (
	DefaultBackend           = BackendJSON
	DefaultNarrationURL      = "https://api.siliconflow.cn/v1/chat/completions"
	DefaultNarrationModel    = "Qwen/Qwen2.5-7B-Instruct"
	DefaultAPIKeyEnv         = "SILICONFLOW_API_KEY"
	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 150
	DefaultNarrationTimeout  = 30 * time.Second
	DefaultNarrationDebounce = 400 * time.Millisecond
	DefaultServerAddr        = "127.0.0.1:8080"
	DefaultLogLevel          = "info"
)

// Config represents the application configuration.
type Config struct {
	Warnings  []string        `toml:"-"` // Unknown keys found while loading
	Storage   StorageConfig   `toml:"storage"`
	Narration NarrationConfig `toml:"narration"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	List      ListConfig      `toml:"list"`
	Calendar  CalendarConfig  `toml:"calendar"`
}

// StorageConfig selects where tasks are persisted.
type StorageConfig struct {
	Backend string `toml:"backend"`  // json or sqlite
	DataDir string `toml:"data_dir"` // Overrides the default data directory
}

// NarrationConfig configures the chat-completion endpoint.
type NarrationConfig struct {
	Endpoint    string        `toml:"endpoint"`
	Model       string        `toml:"model"`
	APIKeyEnv   string        `toml:"api_key_env"`
	Temperature float64       `toml:"temperature"`
	MaxTokens   int           `toml:"max_tokens"`
	Timeout     time.Duration `toml:"timeout"`
	Debounce    time.Duration `toml:"debounce"`
	Enabled     bool          `toml:"enabled"`
}

// CalendarConfig holds calendar presentation settings.
type CalendarConfig struct {
	MaxPreview int `toml:"max_preview"`
}

// ListConfig holds day list settings.
type ListConfig struct {
	DefaultFilter Filter `toml:"default_filter"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigOptions selects which config sources to skip.
type LoadConfigOptions struct {
	IgnoreGlobal bool
	IgnoreLocal  bool
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: DefaultBackend,
		},
		Narration: NarrationConfig{
			Enabled:     true,
			Endpoint:    DefaultNarrationURL,
			Model:       DefaultNarrationModel,
			APIKeyEnv:   DefaultAPIKeyEnv,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			Timeout:     DefaultNarrationTimeout,
			Debounce:    DefaultNarrationDebounce,
		},
		Calendar: CalendarConfig{
			MaxPreview: DefaultMaxPreview,
		},
		List: ListConfig{
			DefaultFilter: FilterActive,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// GlobalConfigDir returns the global daybook config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// LocalConfigPath returns the per-directory config path.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// DefaultDataDir returns the data directory under dataHome
// (XDG_DATA_HOME or ~/.local/share, resolved by caller).
func DefaultDataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// StorePath returns the task store file for backend inside dataDir.
func StorePath(dataDir, backend string) (string, error) {
	switch backend {
	case "", BackendJSON:
		return filepath.Join(dataDir, JSONStoreFileName), nil
	case BackendSQLite:
		return filepath.Join(dataDir, SQLiteStoreFileName), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// LogPath returns the log file inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogDirName, LogFileName)
}

// RenderConfigTemplate renders cfg as a commented TOML file.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
