package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
)

// Clean removes every cached archive and any leftover temp file.
func (m *Manager) Clean() (*CleanResult, error) {
	if m.dir == "" {
		return nil, errors.ErrCacheDirectory
	}
	result := &CleanResult{}

	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return result, nil
	}

	size, files, err := getDirSizeAndFiles(m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheClean, err)
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return nil, fmt.Errorf("%w: failed to remove directory %s: %w", errors.ErrCacheClean, m.dir, err)
	}
	if err := os.MkdirAll(m.dir, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("%w: failed to recreate directory %s: %w", errors.ErrCacheClean, m.dir, err)
	}

	m.logger.Debug("cache cleaned", "dir", m.dir, "files", files, "bytes", size)
	result.TotalFreed = size
	result.FilesRemoved = files
	return result, nil
}

// GetInfo returns information about the cache.
func (m *Manager) GetInfo() (*Info, error) {
	if m.dir == "" {
		return nil, errors.ErrCacheDirectory
	}
	info := &Info{Directory: m.dir}

	st, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	info.LastCleaned = st.ModTime()

	size, files, err := getDirSizeAndFiles(m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	info.TotalSize = size
	info.Files = files

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			info.Packages++
		}
	}
	return info, nil
}

// FormatInfo renders info for humans.
func FormatInfo(info *Info) string {
	lastCleaned := "never"
	if !info.LastCleaned.IsZero() {
		lastCleaned = info.LastCleaned.Format(time.RFC1123)
	}
	return fmt.Sprintf(`Cache Information:
  Directory:    %s
  Total Size:   %s
  Archives:     %d files across %d packages
  Last Cleaned: %s`,
		info.Directory,
		FormatBytes(info.TotalSize),
		info.Files,
		info.Packages,
		lastCleaned,
	)
}

// FormatClean renders a clean result for humans.
func FormatClean(result *CleanResult) string {
	if result.FilesRemoved == 0 {
		return "No files were removed from the cache."
	}
	return fmt.Sprintf("Successfully cleaned cache. Freed %s of disk space (%d files).",
		FormatBytes(result.TotalFreed), result.FilesRemoved)
}

// getDirSizeAndFiles calculates directory size and file count.
func getDirSizeAndFiles(dir string) (size int64, count int, err error) {
	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}

// FormatBytes converts bytes to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
