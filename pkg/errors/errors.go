// Package errors holds the error taxonomy shared by every leaf component.
// Callers match with the standard library's errors.Is / errors.As.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Common error types.
var (
	// Registry and resolution errors.
	ErrRegistryParse         = fmt.Errorf("failed to parse registry")
	ErrPackageNotFound       = fmt.Errorf("package not found")
	ErrPlatformUnsupported   = fmt.Errorf("package is not available for this platform")
	ErrVersionNotFound       = fmt.Errorf("version not found")
	ErrInvalidArguments      = fmt.Errorf("invalid arguments")
	ErrNoPrereleaseAvailable = fmt.Errorf("no prerelease available")
	ErrNoStableRelease       = fmt.Errorf("no stable release available")

	ErrAssetNotFoundForPlatform = fmt.Errorf("no release asset for platform")

	// Download, install and removal errors.
	ErrDownloadFailed             = fmt.Errorf("download failed")
	ErrExecutableMissingInArchive = fmt.Errorf("executable missing in archive")
	ErrInstallFailed              = fmt.Errorf("install failed")
	ErrNotInstalled               = fmt.Errorf("package is not installed")
	ErrInvalidPath                = fmt.Errorf("invalid path")
	ErrUnsupportedArchive         = fmt.Errorf("unsupported archive format")

	// Self-update errors.
	ErrSelfUpdateVerificationFailed = fmt.Errorf("self-update verification failed")
	ErrSelfUpdateUnsafe             = fmt.Errorf("self-update left the manager binary in an unknown state")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to replace config file")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")

	// Cache errors.
	ErrCacheClean     = fmt.Errorf("failed to clean cache")
	ErrCacheInfo      = fmt.Errorf("failed to get cache info")
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// PlatformUnsupportedError is returned when a package exists but has no entry for the requested platform.
type PlatformUnsupportedError struct {
	Name      string
	Platform  string
	Available []string
}

func (e *PlatformUnsupportedError) Error() string {
	return fmt.Sprintf("package %s is not available for %s (available: %s)",
		e.Name, e.Platform, joinOrNone(e.Available))
}

// Unwrap returns ErrPlatformUnsupported.
func (e *PlatformUnsupportedError) Unwrap() error {
	return ErrPlatformUnsupported
}

// AssetNotFoundError is returned when a release carries no asset for the requested platform.
// Available lists the platform ids that could be derived from the release's asset names.
type AssetNotFoundError struct {
	Tag       string
	Platform  string
	Available []string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("release %s has no asset for %s (available: %s)",
		e.Tag, e.Platform, joinOrNone(e.Available))
}

// Unwrap returns ErrAssetNotFoundForPlatform.
func (e *AssetNotFoundError) Unwrap() error {
	return ErrAssetNotFoundForPlatform
}

// ExecutableMissingError names the path that could not be found inside an extracted archive.
type ExecutableMissingError struct {
	Path string
}

func (e *ExecutableMissingError) Error() string {
	return fmt.Sprintf("executable %s missing in archive", e.Path)
}

// Unwrap returns ErrExecutableMissingInArchive.
func (e *ExecutableMissingError) Unwrap() error {
	return ErrExecutableMissingInArchive
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
