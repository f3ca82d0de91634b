// Package selfupdate replaces the manager's own executable while it may be running.
// The canonical path is only ever changed by single rename calls, so it always
// resolves to either the old or the new binary.
package selfupdate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/glorpus-work/leaf/pkg/archive"
	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/model"
	"github.com/glorpus-work/leaf/pkg/release"
)

// Options describes one self-update.
type Options struct {
	// Target is the manager's release stream, e.g. "owner/repo".
	Target          string
	Version         string
	AllowPrerelease bool
	Platform        string
	CurrentVersion  string
	// BinaryPath is the canonical install path of the manager.
	BinaryPath string
	// BinaryName is the executable's file name inside a release archive. Defaults to the base of BinaryPath.
	BinaryName string
}

// Result reports what an update did.
type Result struct {
	Selection      *release.Selection
	AlreadyCurrent bool
	// Previous is the path of the recovery copy of the replaced binary, empty when there was none.
	Previous     string
	VerifyOutput string
	// VerifyErr is set when the new binary failed its version check. The update itself stands.
	VerifyErr error
}

// Updater sequences resolution, download and the rename protocol.
type Updater struct {
	resolver Resolver
	fetcher  Fetcher
	replacer Replacer
	verifier Verifier
	logger   *slog.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Updater) {
		u.logger = logger
	}
}

// New creates an Updater.
func New(resolver Resolver, fetcher Fetcher, replacer Replacer, verifier Verifier, opts ...Option) *Updater {
	u := &Updater{
		resolver: resolver,
		fetcher:  fetcher,
		replacer: replacer,
		verifier: verifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// PreviousPath returns the fixed recovery path kept next to binaryPath.
func PreviousPath(binaryPath string) string {
	return filepath.Join(filepath.Dir(binaryPath), "."+filepath.Base(binaryPath)+".previous")
}

// Update resolves the target release and, unless it is already current, swaps it into opts.BinaryPath.
func (u *Updater) Update(ctx context.Context, opts Options) (*Result, error) {
	if opts.BinaryPath == "" || opts.Target == "" {
		return nil, fmt.Errorf("self-update needs a release target and a binary path: %w", errors.ErrInvalidArguments)
	}
	binaryName := opts.BinaryName
	if binaryName == "" {
		binaryName = filepath.Base(opts.BinaryPath)
	}

	sel, err := u.resolver.Resolve(ctx, release.Request{
		Target:          opts.Target,
		Version:         opts.Version,
		AllowPrerelease: opts.AllowPrerelease,
		Platform:        opts.Platform,
		CurrentVersion:  opts.CurrentVersion,
	})
	if err != nil {
		return nil, err
	}
	result := &Result{Selection: sel}
	if sel.AlreadyCurrent {
		u.logger.Info("manager is already current", "version", sel.Version)
		result.AlreadyCurrent = true
		return result, nil
	}

	archivePath, err := u.fetcher.Fetch(ctx, cache.Key{Name: cache.SelfName, Version: sel.Version, Platform: opts.Platform}, sel.AssetURL)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(opts.BinaryPath)
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("creating %s: %w: %w", dir, errors.ErrInstallFailed, err)
	}
	staging := filepath.Join(dir, ".leaf-update-"+uuid.NewString())
	defer func() { _ = os.RemoveAll(staging) }()

	newBinary, err := stageBinary(ctx, archivePath, sel.AssetName, binaryName, staging)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(newBinary, fsutil.FileModeExec); err != nil {
		return nil, fmt.Errorf("marking %s executable: %w: %w", newBinary, errors.ErrInstallFailed, err)
	}

	previous := PreviousPath(opts.BinaryPath)
	if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale backup %s: %w: %w", previous, errors.ErrInstallFailed, err)
	}

	hadCurrent := false
	if _, err := os.Lstat(opts.BinaryPath); err == nil {
		hadCurrent = true
		if err := u.replacer.Rename(opts.BinaryPath, previous); err != nil {
			return nil, fmt.Errorf("moving %s aside: %w: %w", opts.BinaryPath, errors.ErrSelfUpdateUnsafe, err)
		}
		result.Previous = previous
	}

	if err := u.replacer.Rename(newBinary, opts.BinaryPath); err != nil {
		if hadCurrent {
			if restoreErr := u.replacer.Rename(previous, opts.BinaryPath); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restoring previous binary: %w", restoreErr))
			}
		}
		return nil, fmt.Errorf("installing %s: %w: %w", opts.BinaryPath, errors.ErrSelfUpdateUnsafe, err)
	}
	u.logger.Info("manager binary replaced", "version", sel.Version, "path", opts.BinaryPath)

	if u.verifier != nil {
		out, err := u.verifier.Verify(ctx, opts.BinaryPath)
		result.VerifyOutput = out
		if err != nil {
			result.VerifyErr = fmt.Errorf("%w: %w", errors.ErrSelfUpdateVerificationFailed, err)
			u.logger.Warn("new binary failed verification; previous binary kept for recovery",
				"previous", previous, "error", err)
		}
	}
	return result, nil
}

// stageBinary extracts the release asset into staging and returns the path of the executable named binaryName.
func stageBinary(ctx context.Context, archivePath, assetName, binaryName, staging string) (string, error) {
	kind, err := archive.DetectKind(assetName, model.ArchiveTypeArchive)
	if errors.Is(err, errors.ErrUnsupportedArchive) {
		kind = archive.KindRawBinary
	} else if err != nil {
		return "", err
	}

	extractor, err := archive.ExtractorFor(kind, binaryName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrInstallFailed, err)
	}
	if err := extractor.Extract(ctx, archivePath, staging); err != nil {
		return "", fmt.Errorf("extracting %s: %w: %w", assetName, errors.ErrInstallFailed, err)
	}
	if kind == archive.KindRawBinary {
		return filepath.Join(staging, binaryName), nil
	}

	var found string
	err = filepath.WalkDir(staging, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return err
		}
		if d.Type().IsRegular() && (d.Name() == binaryName || strings.EqualFold(d.Name(), binaryName+".exe")) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s: %w: %w", assetName, errors.ErrInstallFailed, err)
	}
	if found == "" {
		return "", &errors.ExecutableMissingError{Path: binaryName}
	}
	return found, nil
}
