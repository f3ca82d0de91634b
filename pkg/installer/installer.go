// Package installer places executables from a cached archive into the packages
// root and links them into the bin directory. A failed install leaves no trace.
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/glorpus-work/leaf/pkg/archive"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
	"github.com/glorpus-work/leaf/pkg/model"
)

const stagingDirName = ".staging"

// Request describes one package installation.
type Request struct {
	Name        string
	ArchivePath string
	Kind        archive.Kind
	Executables []model.ExecutableSpec
	PackagesDir string
	BinDir      string
}

// Result lists what a successful install wrote.
type Result struct {
	PackageDir string
	Files      []string
	Links      []string
}

// Installer extracts archives and manages the files and links of installed packages.
type Installer struct {
	logger *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) {
		i.logger = logger
	}
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	i := &Installer{logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// placedFile is one executable moved into the package directory during this call.
type placedFile struct {
	path   string
	backup string
}

// placedLink is one link created or replaced in the bin directory during this call.
type placedLink struct {
	path      string
	oldTarget string
}

// transaction tracks everything an install touched so it can be undone.
type transaction struct {
	files         []placedFile
	links         []placedLink
	pkgDir        string
	createdPkgDir bool
}

// Install extracts req.ArchivePath into a staging directory, moves every executable into
// <PackagesDir>/<Name>/ and links it from BinDir. On error every file and link created by
// this call is removed and replaced entries are restored before the error is returned.
func (i *Installer) Install(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	rawName := ""
	if req.Kind == archive.KindRawBinary {
		rawName = filepath.Base(filepath.FromSlash(req.Executables[0].Path))
	}
	extractor, err := archive.ExtractorFor(req.Kind, rawName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", req.Name, errors.ErrInstallFailed, err)
	}

	stagingRoot := filepath.Join(req.PackagesDir, stagingDirName)
	staging := filepath.Join(stagingRoot, req.Name+"-"+uuid.NewString())
	if err := os.MkdirAll(staging, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w: %w", errors.ErrInstallFailed, err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
		_ = fsutil.RemoveIfEmpty(stagingRoot)
	}()

	i.logger.Debug("extracting archive", "package", req.Name, "kind", req.Kind.String(), "staging", staging)
	if err := extractor.Extract(ctx, req.ArchivePath, staging); err != nil {
		return nil, fmt.Errorf("extracting %s: %w: %w", req.Name, errors.ErrInstallFailed, err)
	}

	sources, err := locateExecutables(staging, req.Executables)
	if err != nil {
		return nil, err
	}

	tx := &transaction{pkgDir: filepath.Join(req.PackagesDir, req.Name)}
	result, err := i.place(req, sources, tx)
	if err != nil {
		i.rollback(tx)
		return nil, err
	}
	tx.commit()
	return result, nil
}

func validate(req Request) error {
	if !isPlainName(req.Name) {
		return fmt.Errorf("package name %q: %w", req.Name, errors.ErrInvalidArguments)
	}
	if req.PackagesDir == "" || req.BinDir == "" {
		return fmt.Errorf("packages and bin directories are required: %w", errors.ErrInvalidArguments)
	}
	if len(req.Executables) == 0 {
		return fmt.Errorf("%s declares no executables: %w", req.Name, errors.ErrInvalidArguments)
	}
	if req.Kind == archive.KindRawBinary && len(req.Executables) != 1 {
		return fmt.Errorf("%s: a raw binary provides exactly one executable: %w", req.Name, errors.ErrInvalidArguments)
	}
	seen := make(map[string]struct{}, len(req.Executables))
	for _, spec := range req.Executables {
		name := spec.InstalledName()
		if !isPlainName(name) {
			return fmt.Errorf("installed name %q: %w", name, errors.ErrInvalidPath)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("installed name %q declared twice: %w", name, errors.ErrInvalidArguments)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// locateExecutables resolves every spec inside staging before anything is moved.
// Symlinks in the archive are followed to the regular file they name, which must itself
// lie inside staging.
func locateExecutables(staging string, specs []model.ExecutableSpec) ([]string, error) {
	root, err := filepath.EvalSymlinks(staging)
	if err != nil {
		return nil, fmt.Errorf("resolving staging directory: %w: %w", errors.ErrInstallFailed, err)
	}
	sources := make([]string, 0, len(specs))
	for _, spec := range specs {
		rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(spec.Path, "./")))
		if !isWithin(rel) {
			return nil, fmt.Errorf("executable path %q: %w", spec.Path, errors.ErrInvalidPath)
		}
		src, err := filepath.EvalSymlinks(filepath.Join(root, rel))
		if err != nil {
			return nil, &errors.ExecutableMissingError{Path: spec.Path}
		}
		inside, err := filepath.Rel(root, src)
		if err != nil || !isWithin(inside) {
			return nil, fmt.Errorf("executable %q links outside the archive: %w", spec.Path, errors.ErrInvalidPath)
		}
		info, err := os.Lstat(src)
		if err != nil || !info.Mode().IsRegular() {
			return nil, &errors.ExecutableMissingError{Path: spec.Path}
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// isWithin reports whether the cleaned relative path rel stays below its base.
func isWithin(rel string) bool {
	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (i *Installer) place(req Request, sources []string, tx *transaction) (*Result, error) {
	if _, err := os.Stat(tx.pkgDir); os.IsNotExist(err) {
		tx.createdPkgDir = true
	}
	if err := os.MkdirAll(tx.pkgDir, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("creating %s: %w: %w", tx.pkgDir, errors.ErrInstallFailed, err)
	}
	if err := os.MkdirAll(req.BinDir, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("creating %s: %w: %w", req.BinDir, errors.ErrInstallFailed, err)
	}

	result := &Result{PackageDir: tx.pkgDir}
	for idx, spec := range req.Executables {
		name := spec.InstalledName()
		dst := filepath.Join(tx.pkgDir, name)
		if err := tx.placeFile(sources[idx], dst); err != nil {
			return nil, fmt.Errorf("placing %s: %w: %w", name, errors.ErrInstallFailed, err)
		}
		link := filepath.Join(req.BinDir, name)
		if err := tx.placeLink(link, dst); err != nil {
			return nil, fmt.Errorf("linking %s: %w: %w", name, errors.ErrInstallFailed, err)
		}
		i.logger.Debug("installed executable", "package", req.Name, "file", dst, "link", link)
		result.Files = append(result.Files, dst)
		result.Links = append(result.Links, link)
	}
	return result, nil
}

// placeFile moves src to dst, keeping any existing dst aside until commit.
func (tx *transaction) placeFile(src, dst string) error {
	pf := placedFile{path: dst}
	if _, err := os.Lstat(dst); err == nil {
		pf.backup = dst + ".leaf-backup-" + uuid.NewString()
		if err := os.Rename(dst, pf.backup); err != nil {
			return err
		}
	}
	tx.files = append(tx.files, pf)

	if err := fsutil.Move(src, dst); err != nil {
		return err
	}
	return os.Chmod(dst, fsutil.FileModeExec)
}

// placeLink points link at target through a temp link and a rename, so link never disappears.
func (tx *transaction) placeLink(link, target string) error {
	pl := placedLink{path: link}
	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a link", link)
		}
		old, err := os.Readlink(link)
		if err != nil {
			return err
		}
		pl.oldTarget = old
	}
	if err := replaceSymlink(link, target); err != nil {
		return err
	}
	tx.links = append(tx.links, pl)
	return nil
}

func replaceSymlink(link, target string) error {
	tmp := filepath.Join(filepath.Dir(link), "."+filepath.Base(link)+".leaf-tmp-"+uuid.NewString())
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (i *Installer) rollback(tx *transaction) {
	for idx := len(tx.links) - 1; idx >= 0; idx-- {
		pl := tx.links[idx]
		var err error
		if pl.oldTarget != "" {
			err = replaceSymlink(pl.path, pl.oldTarget)
		} else {
			err = os.Remove(pl.path)
		}
		if err != nil && !os.IsNotExist(err) {
			i.logger.Warn("rollback could not restore link", "link", pl.path, "error", err)
		}
	}
	for idx := len(tx.files) - 1; idx >= 0; idx-- {
		pf := tx.files[idx]
		if err := os.Remove(pf.path); err != nil && !os.IsNotExist(err) {
			i.logger.Warn("rollback could not remove file", "file", pf.path, "error", err)
		}
		if pf.backup != "" {
			if err := os.Rename(pf.backup, pf.path); err != nil {
				i.logger.Warn("rollback could not restore file", "file", pf.path, "error", err)
			}
		}
	}
	if tx.createdPkgDir {
		_ = fsutil.RemoveIfEmpty(tx.pkgDir)
	}
}

func (tx *transaction) commit() {
	for _, pf := range tx.files {
		if pf.backup != "" {
			_ = os.Remove(pf.backup)
		}
	}
}

// isPlainName reports a single path element that is safe to join onto a root.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
