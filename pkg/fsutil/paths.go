package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths.
	AppName = "leaf"
)

// GetHomeRoot returns the directory that owns every leaf-managed path: ~/.local/leaf.
func GetHomeRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", AppName), nil
}

// GetPackagesDir returns the default packages root: ~/.local/leaf/packages.
func GetPackagesDir() (string, error) {
	return underRoot("packages")
}

// GetCacheDir returns the default archive cache: ~/.local/leaf/cache.
func GetCacheDir() (string, error) {
	return underRoot("cache")
}

// GetStateDir returns the directory holding the registry copy and the installed database.
func GetStateDir() (string, error) {
	return GetHomeRoot()
}

// GetConfigFile returns the default configuration file path.
func GetConfigFile() (string, error) {
	return underRoot("config.yaml")
}

// GetBinDir returns the default link directory: ~/.local/bin.
func GetBinDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "bin"), nil
}

func underRoot(name string) (string, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// EnsureDirs creates every directory in dirs with default permissions.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, DirModeDefault); err != nil {
			return err
		}
	}
	return nil
}
