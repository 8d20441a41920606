package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/daybook-app/daybook/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	localDir      string // Directory holding .daybook.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/daybook)
}

// NewManager creates a new Manager.
func NewManager(localDir string) *Manager {
	return &Manager{
		localDir:      localDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(localDir, globalConfDir string) *Manager {
	return &Manager{
		localDir:      localDir,
		globalConfDir: globalConfDir,
	}
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// GetLocalConfigInfo returns information about the per-directory config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	if m.localDir == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(domain.LocalConfigPath(m.localDir))
}

// getConfigInfo reads a config file and returns its info.
func getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitGlobalConfig creates the global config file rendered from cfg.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}

	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return path, initConfig(path, cfg)
}

// InitLocalConfig creates .daybook.toml in the local directory.
func (m *Manager) InitLocalConfig(cfg *domain.Config) (string, error) {
	if m.localDir == "" {
		return "", errors.New("local config directory not available")
	}
	path := domain.LocalConfigPath(m.localDir)
	return path, initConfig(path, cfg)
}

// initConfig creates a config file with default template.
func initConfig(path string, cfg *domain.Config) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	content := domain.RenderConfigTemplate(cfg)

	return os.WriteFile(path, []byte(content), 0o600)
}
