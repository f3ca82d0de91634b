// Package config provides configuration management for leaf.
// It loads, validates and saves the YAML settings that name the four filesystem
// roots, the registry location and the manager's own release stream.
package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/platform"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// PlatformConfig overrides the detected platform.
type PlatformConfig struct {
	// OS overrides the target operating system (e.g., "windows", "linux", "darwin")
	// If empty, the system will auto-detect the current OS
	OS string `yaml:"os,omitempty"`

	// Arch overrides the target architecture (e.g., "amd64", "arm64", "386")
	// If empty, the system will auto-detect the current architecture
	Arch string `yaml:"arch,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Filesystem roots
	PackagesDir string `yaml:"packages_dir,omitempty"`
	BinDir      string `yaml:"bin_dir,omitempty"`
	CacheDir    string `yaml:"cache_dir,omitempty"`
	StateDir    string `yaml:"state_dir,omitempty"`
	BinaryPath  string `yaml:"binary_path,omitempty"` // canonical path of the leaf executable

	// Sources
	RegistryURL    string `yaml:"registry_url"`
	SelfRepository string `yaml:"self_repository"` // owner/repo of leaf's own releases
	ReleasesAPI    string `yaml:"releases_api"`

	// Network settings
	HTTPTimeout time.Duration `yaml:"http_timeout"` // 0 leaves downloads unbounded
	UserAgent   string        `yaml:"user_agent"`

	// Platform settings
	Platform PlatformConfig `yaml:"platform,omitempty"`

	// Output settings
	ColorOutput bool   `yaml:"color_output"`
	LogLevel    string `yaml:"log_level"` // debug, info, warn, error
}

// Default configuration values.
const (
	DefaultRegistryURL    = "https://raw.githubusercontent.com/ktauchathuranga/leaf/main/packages.json"
	DefaultSelfRepository = "ktauchathuranga/leaf"
	DefaultReleasesAPI    = "https://api.github.com"
	DefaultUserAgent      = "leaf-package-manager"
	DefaultLogLevel       = "info"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	databaseFile = "installed.db"
	registryFile = "packages.json"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	packagesDir := orFallback(fsutil.GetPackagesDir, filepath.Join(".", fsutil.AppName, "packages"))
	binDir := orFallback(fsutil.GetBinDir, filepath.Join(".", "bin"))

	return &Config{
		Settings: Settings{
			PackagesDir:    packagesDir,
			BinDir:         binDir,
			CacheDir:       orFallback(fsutil.GetCacheDir, filepath.Join(".", fsutil.AppName, "cache")),
			StateDir:       orFallback(fsutil.GetStateDir, filepath.Join(".", fsutil.AppName)),
			BinaryPath:     filepath.Join(binDir, fsutil.AppName),
			RegistryURL:    DefaultRegistryURL,
			SelfRepository: DefaultSelfRepository,
			ReleasesAPI:    DefaultReleasesAPI,
			UserAgent:      DefaultUserAgent,
			ColorOutput:    true,
			LogLevel:       DefaultLogLevel,
		},
	}
}

func orFallback(get func() (string, error), fallback string) string {
	dir, err := get()
	if err != nil {
		return fallback
	}
	return dir
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := Config{Settings: Settings{ColorOutput: true}}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the configuration to path through a temp file and a rename.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}

	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, data, fsutil.FileModeDefault); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes as they are written to the config file.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	s := c.Settings
	for key, dir := range map[string]string{
		"packages_dir": s.PackagesDir,
		"bin_dir":      s.BinDir,
		"cache_dir":    s.CacheDir,
		"state_dir":    s.StateDir,
		"binary_path":  s.BinaryPath,
	} {
		if dir == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "%s must not be empty", key)
		}
	}
	if err := validateURL("registry_url", s.RegistryURL); err != nil {
		return err
	}
	if err := validateURL("releases_api", s.ReleasesAPI); err != nil {
		return err
	}
	if owner, repo, ok := strings.Cut(s.SelfRepository, "/"); !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return errors.Wrapf(errors.ErrConfigValidation, "self_repository %q must look like owner/repo", s.SelfRepository)
	}
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout must not be negative")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		return errors.Wrapf(errors.ErrConfigValidation, "log_level %q must be one of %s", s.LogLevel, strings.Join(validLogLevels, ", "))
	}
	return validatePlatform(s.Platform)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errors.ErrConfigValidation, "%s %q is not an http(s) URL", key, raw)
	}
	return nil
}

func validatePlatform(p PlatformConfig) error {
	if p.OS != "" && !slices.Contains(platform.ValidOS(), platform.NormalizeOS(p.OS)) {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid OS %q, valid values: %s", p.OS, strings.Join(platform.ValidOS(), ", "))
	}
	if p.Arch != "" && !slices.Contains(platform.ValidArch(), platform.NormalizeArch(p.Arch)) {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid architecture %q, valid values: %s", p.Arch, strings.Join(platform.ValidArch(), ", "))
	}
	return nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig().Settings
	s := &c.Settings

	if s.PackagesDir == "" {
		s.PackagesDir = defaults.PackagesDir
	}
	if s.BinDir == "" {
		s.BinDir = defaults.BinDir
	}
	if s.CacheDir == "" {
		s.CacheDir = defaults.CacheDir
	}
	if s.StateDir == "" {
		s.StateDir = defaults.StateDir
	}
	if s.BinaryPath == "" {
		s.BinaryPath = filepath.Join(s.BinDir, fsutil.AppName)
	}
	if s.RegistryURL == "" {
		s.RegistryURL = defaults.RegistryURL
	}
	if s.SelfRepository == "" {
		s.SelfRepository = defaults.SelfRepository
	}
	if s.ReleasesAPI == "" {
		s.ReleasesAPI = defaults.ReleasesAPI
	}
	if s.UserAgent == "" {
		s.UserAgent = defaults.UserAgent
	}
	if s.LogLevel == "" {
		s.LogLevel = defaults.LogLevel
	}
}

// PlatformID returns the configured platform id, detecting whatever is not overridden.
func (c *Config) PlatformID() string {
	return platform.New(c.Settings.Platform.OS, c.Settings.Platform.Arch).ID()
}

// DatabasePath returns the path of the installed-packages database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Settings.StateDir, databaseFile)
}

// RegistryPath returns the path of the local registry copy.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Settings.StateDir, registryFile)
}

// EnsureDirs creates the packages, bin, cache and state roots.
func (c *Config) EnsureDirs() error {
	return fsutil.EnsureDirs(c.Settings.PackagesDir, c.Settings.BinDir, c.Settings.CacheDir, c.Settings.StateDir)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	return fsutil.GetConfigFile()
}
