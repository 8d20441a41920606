// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/daybook-app/daybook/internal/domain"
)

// Loader loads configuration from TOML files.
type Loader struct {
	globalConfDir string // Path to global config directory (e.g., ~/.config/daybook)
	localDir      string // Directory searched for .daybook.toml
	explicitPath  string // --config flag, must exist when set
}

// NewLoader creates a new Loader.
func NewLoader(localDir, explicitPath string) *Loader {
	return &Loader{
		globalConfDir: defaultGlobalConfigDir(),
		localDir:      localDir,
		explicitPath:  explicitPath,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(localDir, explicitPath, globalConfDir string) *Loader {
	return &Loader{
		globalConfDir: globalConfDir,
		localDir:      localDir,
		explicitPath:  explicitPath,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns $XDG_DATA_HOME/daybook or ~/.local/share/daybook.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "."+domain.AppDirName)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DefaultDataDir(dataHome)
}

// GlobalPath returns the global config file path, or "" when no home is known.
func (l *Loader) GlobalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// LocalPath returns the per-directory config file path, or "" when unset.
func (l *Loader) LocalPath() string {
	if l.localDir == "" {
		return ""
	}
	return domain.LocalConfigPath(l.localDir)
}

// ExplicitPath returns the path given with --config.
func (l *Loader) ExplicitPath() string {
	return l.explicitPath
}

// Load returns the merged configuration.
// Later sources take precedence: default <- global <- local <- explicit.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	var paths []string
	if !opts.IgnoreGlobal && l.GlobalPath() != "" {
		paths = append(paths, l.GlobalPath())
	}
	if !opts.IgnoreLocal && l.LocalPath() != "" {
		paths = append(paths, l.LocalPath())
	}

	for _, path := range paths {
		layer, err := l.loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		base = mergeConfigs(base, layer)
	}

	if l.explicitPath != "" {
		layer, err := l.loadFile(l.explicitPath)
		if err != nil {
			// An explicitly requested file must exist
			return nil, err
		}
		base = mergeConfigs(base, layer)
	}

	base.Storage.DataDir = expandHome(base.Storage.DataDir)
	return base, nil
}

// loadFile loads one configuration layer from a file.
func (l *Loader) loadFile(path string) (*configLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToLayer(raw), nil
}

// configLayer holds the values one file sets. nil means "not set here".
type configLayer struct {
	Backend       *string
	DataDir       *string
	Enabled       *bool
	Endpoint      *string
	Model         *string
	APIKeyEnv     *string
	Temperature   *float64
	MaxTokens     *int
	Timeout       *time.Duration
	Debounce      *time.Duration
	MaxPreview    *int
	DefaultFilter *domain.Filter
	Addr          *string
	LogLevel      *string
	Warnings      []string
}

// convertRawToLayer converts the raw map to a config layer and collects warnings.
func convertRawToLayer(raw map[string]any) *configLayer {
	res := &configLayer{}
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warn("unknown section: %s", section)
			continue
		}
		switch section {
		case "storage":
			for k, v := range m {
				switch k {
				case "backend":
					if s, ok := v.(string); ok {
						if _, err := domain.StorePath("", s); err != nil {
							warn("invalid value in [storage]: backend = %q", s)
							continue
						}
						res.Backend = &s
					}
				case "data_dir":
					if s, ok := v.(string); ok {
						res.DataDir = &s
					}
				default:
					warn("unknown key in [storage]: %s", k)
				}
			}
		case "narration":
			for k, v := range m {
				switch k {
				case "enabled":
					if b, ok := v.(bool); ok {
						res.Enabled = &b
					}
				case "endpoint":
					if s, ok := v.(string); ok {
						res.Endpoint = &s
					}
				case "model":
					if s, ok := v.(string); ok {
						res.Model = &s
					}
				case "api_key_env":
					if s, ok := v.(string); ok {
						res.APIKeyEnv = &s
					}
				case "temperature":
					if f, ok := toFloat(v); ok {
						res.Temperature = &f
					}
				case "max_tokens":
					if n, ok := toInt(v); ok && n > 0 {
						res.MaxTokens = &n
					}
				case "timeout", "debounce":
					d, ok := toDuration(v)
					if !ok {
						warn("invalid value in [narration]: %s = %v", k, v)
						continue
					}
					if k == "timeout" {
						res.Timeout = &d
					} else {
						res.Debounce = &d
					}
				default:
					warn("unknown key in [narration]: %s", k)
				}
			}
		case "calendar":
			for k, v := range m {
				switch k {
				case "max_preview":
					if n, ok := toInt(v); ok && n > 0 {
						res.MaxPreview = &n
					}
				default:
					warn("unknown key in [calendar]: %s", k)
				}
			}
		case "list":
			for k, v := range m {
				switch k {
				case "default_filter":
					s, _ := v.(string)
					f, err := domain.ParseFilter(s)
					if err != nil {
						warn("invalid value in [list]: default_filter = %q", s)
						continue
					}
					res.DefaultFilter = &f
				default:
					warn("unknown key in [list]: %s", k)
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						res.Addr = &s
					}
				default:
					warn("unknown key in [server]: %s", k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.LogLevel = &s
					}
				default:
					warn("unknown key in [log]: %s", k)
				}
			}
		default:
			warn("unknown section: %s", section)
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs applies the values set in override on top of base.
func mergeConfigs(base *domain.Config, override *configLayer) *domain.Config {
	result := *base
	if len(override.Warnings) > 0 {
		result.Warnings = append(slices.Clone(base.Warnings), override.Warnings...)
	}

	set(&result.Storage.Backend, override.Backend)
	set(&result.Storage.DataDir, override.DataDir)
	set(&result.Narration.Enabled, override.Enabled)
	set(&result.Narration.Endpoint, override.Endpoint)
	set(&result.Narration.Model, override.Model)
	set(&result.Narration.APIKeyEnv, override.APIKeyEnv)
	set(&result.Narration.Temperature, override.Temperature)
	set(&result.Narration.MaxTokens, override.MaxTokens)
	set(&result.Narration.Timeout, override.Timeout)
	set(&result.Narration.Debounce, override.Debounce)
	set(&result.Calendar.MaxPreview, override.MaxPreview)
	set(&result.List.DefaultFilter, override.DefaultFilter)
	set(&result.Server.Addr, override.Addr)
	set(&result.Log.Level, override.LogLevel)

	return &result
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}

// toDuration accepts Go duration strings ("30s") or a number of seconds.
func toDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil && parsed >= 0
	case int64:
		return time.Duration(d) * time.Second, d >= 0
	default:
		return 0, false
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
