package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/domain"
)

func TestManager_GetConfigInfo(t *testing.T) {
	// Setup
	localDir := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(localDir), "[log]\nlevel = \"warn\"\n")
	m := NewManagerWithGlobalDir(localDir, globalDir)

	// Execute
	local := m.GetLocalConfigInfo()
	global := m.GetGlobalConfigInfo()

	// Assert
	assert.True(t, local.Exists)
	assert.Equal(t, domain.LocalConfigPath(localDir), local.Path)
	assert.Contains(t, local.Content, `level = "warn"`)
	assert.False(t, global.Exists)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), global.Path)
}

func TestManager_InitGlobalConfig(t *testing.T) {
	// Setup
	globalDir := filepath.Join(t.TempDir(), "daybook")
	m := NewManagerWithGlobalDir(t.TempDir(), globalDir)

	// Execute
	path, err := m.InitGlobalConfig(domain.NewDefaultConfig())

	// Assert
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[narration]")

	// The rendered template loads back without warnings
	cfg, err := NewLoaderWithGlobalDir("", "", globalDir).Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)

	// Second init refuses to overwrite
	_, err = m.InitGlobalConfig(domain.NewDefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_InitLocalConfig(t *testing.T) {
	localDir := t.TempDir()
	m := NewManagerWithGlobalDir(localDir, t.TempDir())

	path, err := m.InitLocalConfig(domain.NewDefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, domain.LocalConfigPath(localDir), path)
	assert.FileExists(t, path)
}
