package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/model"
)

// Uninstall deletes exactly what rec lists: links first, then files, then the
// package directory if it is empty. A link is only removed while it still
// points at one of the recorded files.
func (i *Installer) Uninstall(rec *model.InstalledPackage) error {
	if rec == nil {
		return fmt.Errorf("nothing to uninstall: %w", errors.ErrInvalidArguments)
	}
	var errs []error

	for _, link := range rec.Links {
		if err := i.removeOwnedLink(link, rec.Files); err != nil {
			errs = append(errs, err)
		}
	}
	for _, file := range rec.Files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove file %s: %w", file, err))
		}
	}
	if rec.PackageDir != "" {
		if err := fsutil.RemoveIfEmpty(rec.PackageDir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove package directory %s: %w", rec.PackageDir, err))
		}
	}

	i.logger.Debug("uninstalled package", "package", rec.Name, "files", len(rec.Files), "links", len(rec.Links))
	return errors.Join(errs...)
}

// Prune removes the files and links that previous owned but current no longer lists.
// It runs after current has been committed.
func (i *Installer) Prune(previous, current *model.InstalledPackage) error {
	if previous == nil || current == nil {
		return nil
	}
	var errs []error

	for _, link := range previous.Links {
		if current.HasLink(link) {
			continue
		}
		if err := i.removeOwnedLink(link, previous.Files); err != nil {
			errs = append(errs, err)
		}
	}
	for _, file := range previous.Files {
		if current.HasFile(file) {
			continue
		}
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove stale file %s: %w", file, err))
		} else {
			i.logger.Debug("pruned stale file", "package", current.Name, "file", file)
		}
	}
	if previous.PackageDir != "" && previous.PackageDir != current.PackageDir {
		if err := fsutil.RemoveIfEmpty(previous.PackageDir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (i *Installer) removeOwnedLink(link string, files []string) error {
	info, err := os.Lstat(link)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect link %s: %w", link, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		i.logger.Warn("leaving non-link entry in place", "path", link)
		return nil
	}
	target, err := os.Readlink(link)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", link, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	if !contains(files, filepath.Clean(target)) {
		i.logger.Warn("link no longer points at a managed file, leaving it", "link", link, "target", target)
		return nil
	}
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove link %s: %w", link, err)
	}
	return nil
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if filepath.Clean(item) == want {
			return true
		}
	}
	return false
}
