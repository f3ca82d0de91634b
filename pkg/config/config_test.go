package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Zero(t, cfg.Settings.HTTPTimeout)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "leaf", "packages"), cfg.Settings.PackagesDir)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "bin"), cfg.Settings.BinDir)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "bin", "leaf"), cfg.Settings.BinaryPath)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "leaf", "installed.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/home/tester", ".local", "leaf", "packages.json"), cfg.RegistryPath())
	assert.Equal(t, DefaultRegistryURL, cfg.Settings.RegistryURL)
	assert.True(t, cfg.Settings.ColorOutput)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  bin_dir: /opt/leaf/bin
  log_level: debug
  http_timeout: 45s
  color_output: false
  platform:
    os: linux
    arch: aarch64`

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Settings.HTTPTimeout)
	assert.False(t, cfg.Settings.ColorOutput)
	assert.Equal(t, "/opt/leaf/bin", cfg.Settings.BinDir)
	assert.Equal(t, filepath.Join("/opt/leaf/bin", "leaf"), cfg.Settings.BinaryPath)
	assert.Equal(t, "linux-arm64", cfg.PlatformID())
	assert.Equal(t, DefaultSelfRepository, cfg.Settings.SelfRepository)
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig("")
	require.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "malformed yaml", content: "settings: [", wantErr: errors.ErrConfigParse},
		{name: "bad log level", content: "settings:\n  log_level: loud", wantErr: errors.ErrConfigValidation},
		{name: "negative timeout", content: "settings:\n  http_timeout: -1s", wantErr: errors.ErrConfigValidation},
		{name: "bad os", content: "settings:\n  platform:\n    os: plan9", wantErr: errors.ErrConfigValidation},
		{name: "bad registry url", content: "settings:\n  registry_url: ftp://example.com/p.json", wantErr: errors.ErrConfigValidation},
		{name: "bad self repository", content: "settings:\n  self_repository: leaf", wantErr: errors.ErrConfigValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Settings.Platform.OS = "linux"
	cfg.Settings.Platform.Arch = "amd64"

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))
	assert.NoFileExists(t, configPath+".tmp")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	saved, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(saved))

	require.ErrorIs(t, cfg.SaveConfig(""), errors.ErrEmptyConfigPath)
}

func TestGetSetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetValue("platform.arch", "arm64"))
	got, err := cfg.GetValue("platform.arch")
	require.NoError(t, err)
	assert.Equal(t, "arm64", got)

	require.NoError(t, cfg.SetValue("http_timeout", "2m"))
	got, err = cfg.GetValue("http_timeout")
	require.NoError(t, err)
	assert.Equal(t, "2m0s", got)

	require.NoError(t, cfg.SetValue("color_output", "false"))
	assert.False(t, cfg.Settings.ColorOutput)

	require.ErrorIs(t, cfg.SetValue("color_output", "maybe"), errors.ErrConfigValidation)
	require.ErrorIs(t, cfg.SetValue("nope", "x"), errors.ErrUnknownConfigKey)
	_, err = cfg.GetValue("platform")
	require.ErrorIs(t, err, errors.ErrUnknownConfigKey)

	require.ErrorIs(t, cfg.SetValue("log_level", "chatty"), errors.ErrConfigValidation)
	assert.Equal(t, "info", cfg.Settings.LogLevel, "rejected values are rolled back")
}

func TestToMapAndKeys(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.ToMap()
	assert.Equal(t, cfg.Settings.BinDir, m["bin_dir"])
	assert.Equal(t, "0s", m["http_timeout"])
	assert.Contains(t, m, "platform.os")

	keys := cfg.Keys()
	assert.Len(t, keys, len(m))
	assert.True(t, strings.Compare(keys[0], keys[len(keys)-1]) < 0)
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Settings.PackagesDir = filepath.Join(root, "leaf", "packages")
	cfg.Settings.CacheDir = filepath.Join(root, "leaf", "cache")
	cfg.Settings.StateDir = filepath.Join(root, "leaf")
	cfg.Settings.BinDir = filepath.Join(root, "bin")

	require.NoError(t, cfg.EnsureDirs())
	for _, dir := range []string{cfg.Settings.PackagesDir, cfg.Settings.CacheDir, cfg.Settings.BinDir} {
		assert.DirExists(t, dir)
	}
}
