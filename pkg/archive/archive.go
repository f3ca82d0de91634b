// Package archive models the supported archive kinds as a closed set with one
// extraction strategy per kind.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/model"
)

// Kind is the closed set of archive layouts leaf can install from.
type Kind int

const (
	// KindTarGz is a gzip-compressed tarball.
	KindTarGz Kind = iota + 1
	// KindTarXz is an xz-compressed tarball.
	KindTarXz
	// KindZip is a zip archive.
	KindZip
	// KindRawBinary is a bare executable that needs no extraction.
	KindRawBinary
)

func (k Kind) String() string {
	switch k {
	case KindTarGz:
		return "tar.gz"
	case KindTarXz:
		return "tar.xz"
	case KindZip:
		return "zip"
	case KindRawBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DetectKind picks the kind for an asset. A raw-binary target is always KindRawBinary;
// otherwise the file name suffix decides.
func DetectKind(name string, declared model.ArchiveType) (Kind, error) {
	if declared == model.ArchiveTypeBinary {
		return KindRawBinary, nil
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return KindTarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return KindTarXz, nil
	case strings.HasSuffix(lower, ".zip"):
		return KindZip, nil
	}
	return 0, fmt.Errorf("%s: %w", name, errors.ErrUnsupportedArchive)
}

// Extractor unpacks one archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// ExtractorFor returns the strategy for kind. rawName is the file name a raw binary is staged under.
func ExtractorFor(kind Kind, rawName string) (Extractor, error) {
	switch kind {
	case KindTarGz:
		return &formatExtractor{format: archives.CompressedArchive{Compression: archives.Gz{}, Extraction: archives.Tar{}}}, nil
	case KindTarXz:
		return &formatExtractor{format: archives.CompressedArchive{Compression: archives.Xz{}, Extraction: archives.Tar{}}}, nil
	case KindZip:
		return &formatExtractor{format: archives.Zip{}}, nil
	case KindRawBinary:
		if rawName == "" || rawName != filepath.Base(rawName) || rawName == "." || rawName == ".." {
			return nil, fmt.Errorf("raw binary name %q: %w", rawName, errors.ErrInvalidPath)
		}
		return &rawExtractor{name: rawName}, nil
	}
	return nil, fmt.Errorf("%s: %w", kind, errors.ErrUnsupportedArchive)
}

type formatExtractor struct {
	format archives.Extractor
}

// Extract writes every entry of the archive below destDir. Entries that would land outside destDir are rejected.
func (e *formatExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return e.format.Extract(ctx, file, func(_ context.Context, f archives.FileInfo) error {
		return extractEntry(f, destDir)
	})
}

type rawExtractor struct {
	name string
}

// Extract copies the binary into destDir under the configured name.
func (e *rawExtractor) Extract(_ context.Context, archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := fsutil.Copy(archivePath, filepath.Join(destDir, e.name)); err != nil {
		return err
	}
	return os.Chmod(filepath.Join(destDir, e.name), fsutil.FileModeExec)
}

// extractEntry processes a single archive entry and writes it to destDir.
func extractEntry(f archives.FileInfo, destDir string) error {
	targetPath, err := safeJoin(destDir, f.NameInArchive)
	if err != nil {
		return err
	}
	if targetPath == filepath.Clean(destDir) {
		return nil
	}

	if f.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", f.NameInArchive, err)
	}

	if f.Mode()&os.ModeSymlink != 0 {
		return writeSymlink(f, targetPath, destDir)
	}
	if !f.Mode().IsRegular() {
		return nil
	}
	return writeRegularFile(f, targetPath)
}

// writeSymlink recreates a link whose target stays inside destDir.
func writeSymlink(f archives.FileInfo, targetPath, destDir string) error {
	link := f.LinkTarget
	resolved := link
	if !filepath.IsAbs(link) {
		resolved = filepath.Join(filepath.Dir(targetPath), link)
	}
	if !within(destDir, resolved) {
		return fmt.Errorf("symlink %s -> %s escapes the archive root: %w", f.NameInArchive, link, errors.ErrInvalidPath)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(link, targetPath)
}

// writeRegularFile writes a regular file from the archive entry to targetPath and preserves its mode.
func writeRegularFile(f archives.FileInfo, targetPath string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.NameInArchive, err)
	}
	defer func() { _ = src.Close() }()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy file %s: %w", f.NameInArchive, err)
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Chmod(targetPath, perm)
}

// safeJoin joins an archive entry name onto root, refusing absolute names and parent traversal.
func safeJoin(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "./")))
	if filepath.IsAbs(clean) || !fs.ValidPath(filepath.ToSlash(clean)) {
		return "", fmt.Errorf("archive entry %q: %w", name, errors.ErrInvalidPath)
	}
	return filepath.Join(root, clean), nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Create archives the contents of sourceDir into archivePath using the layout of kind.
func Create(ctx context.Context, sourceDir, archivePath string, kind Kind) error {
	var format archives.Archiver
	switch kind {
	case KindTarGz:
		format = archives.CompressedArchive{Compression: archives.Gz{}, Archival: archives.Tar{}}
	case KindTarXz:
		format = archives.CompressedArchive{Compression: archives.Xz{}, Archival: archives.Tar{}}
	case KindZip:
		format = archives.Zip{}
	default:
		return fmt.Errorf("cannot create %s: %w", kind, errors.ErrUnsupportedArchive)
	}

	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}
	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}
