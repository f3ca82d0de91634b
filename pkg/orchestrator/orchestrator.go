// Package orchestrator sequences the core components into the user-facing
// operations: install, upgrade, remove, list, search, nuke, self-update and registry sync.
// Operations run one at a time; nothing here is safe for concurrent use.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/leaf/pkg/archive"
	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/hooks"
	"github.com/glorpus-work/leaf/pkg/installer"
	"github.com/glorpus-work/leaf/pkg/model"
	"github.com/glorpus-work/leaf/pkg/registry"
	"github.com/glorpus-work/leaf/pkg/release"
	"github.com/glorpus-work/leaf/pkg/selfupdate"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Orchestrator) requirePackageComponents() error {
	switch {
	case o.Catalog == nil:
		return fmt.Errorf("registry is not loaded")
	case o.Releases == nil:
		return fmt.Errorf("version resolver is not configured")
	case o.Cache == nil:
		return fmt.Errorf("download cache is not configured")
	case o.Installer == nil:
		return fmt.Errorf("installer is not configured")
	case o.Store == nil:
		return fmt.Errorf("metadata store is not configured")
	}
	return nil
}

// Install resolves name against the registry, downloads its archive and installs it.
// Installing the version already recorded rewrites the same files and record.
func (o *Orchestrator) Install(ctx context.Context, name string, opts InstallOptions) (*Outcome, error) {
	if err := o.requirePackageComponents(); err != nil {
		return nil, err
	}
	previous, err := o.Store.Get(name)
	if err != nil {
		return nil, err
	}
	return o.install(ctx, name, opts.Version, "", previous)
}

// Upgrade installs the registry's current version of an installed package.
// A package that is already at that version is left alone.
func (o *Orchestrator) Upgrade(ctx context.Context, name string) (*Outcome, error) {
	if err := o.requirePackageComponents(); err != nil {
		return nil, err
	}
	previous, err := o.Store.Get(name)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return nil, fmt.Errorf("%s: %w", name, errors.ErrNotInstalled)
	}
	return o.install(ctx, name, "", previous.Version, previous)
}

// UpgradeAll upgrades every installed package in name order. A failing package does not
// stop the others; all failures are returned joined.
func (o *Orchestrator) UpgradeAll(ctx context.Context) ([]*Outcome, error) {
	if err := o.requirePackageComponents(); err != nil {
		return nil, err
	}
	installed, err := o.Store.List()
	if err != nil {
		return nil, err
	}
	var outcomes []*Outcome
	var errs []error
	for _, rec := range installed {
		outcome, err := o.Upgrade(ctx, rec.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("upgrading %s: %w", rec.Name, err))
			continue
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, errors.Join(errs...)
}

func (o *Orchestrator) install(ctx context.Context, name, version, current string, previous *model.InstalledPackage) (*Outcome, error) {
	log := o.logger().With("package", name)
	platformID := o.Layout.Platform

	emit(o.Hooks, Event{Phase: "resolving", ID: name, Msg: platformID})
	target, err := o.Catalog.Resolve(name, platformID)
	if err != nil {
		return nil, err
	}
	pkg, err := o.Catalog.Get(name)
	if err != nil {
		return nil, err
	}
	sel, err := o.Releases.Resolve(ctx, release.Request{
		Target:         name,
		Version:        version,
		Platform:       platformID,
		CurrentVersion: current,
	})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Package: previous}
	if previous != nil {
		outcome.PreviousVersion = previous.Version
	}
	if sel.AlreadyCurrent {
		log.Info("package is up to date", "version", sel.Version)
		outcome.AlreadyCurrent = true
		emit(o.Hooks, Event{Phase: "done", ID: name, Msg: "already current"})
		return outcome, nil
	}

	emit(o.Hooks, Event{Phase: "downloading", ID: name, Msg: sel.AssetURL})
	archivePath, err := o.Cache.Fetch(ctx, cache.Key{Name: name, Version: sel.Version, Platform: platformID}, sel.AssetURL)
	if err != nil {
		return nil, err
	}
	kind, err := archive.DetectKind(assetFileName(sel.AssetURL), target.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	emit(o.Hooks, Event{Phase: "installing", ID: name, Msg: name + "@" + sel.Version})
	res, err := o.Installer.Install(ctx, installer.Request{
		Name:        name,
		ArchivePath: archivePath,
		Kind:        kind,
		Executables: target.Executables,
		PackagesDir: o.Layout.PackagesDir,
		BinDir:      o.Layout.BinDir,
	})
	if err != nil {
		return nil, err
	}

	rec := &model.InstalledPackage{
		Name:       name,
		Version:    sel.Version,
		Platform:   platformID,
		PackageDir: res.PackageDir,
		Files:      res.Files,
		Links:      res.Links,
		Source:     sel.AssetURL,
		Hooks:      pkg.Hooks,
	}
	// A same-version reinstall keeps its original timestamp so the record is unchanged.
	if previous != nil && previous.Version == rec.Version {
		rec.InstalledAt = previous.InstalledAt
	}
	if err := o.Store.Record(rec); err != nil {
		o.discardUnrecorded(rec, previous)
		return nil, fmt.Errorf("recording %s: %w: %w", name, errors.ErrInstallFailed, err)
	}
	if err := o.Installer.Prune(previous, rec); err != nil {
		log.Warn("failed to remove files dropped by the new version", "error", err)
	}
	outcome.Package = rec
	log.Info("package installed", "version", rec.Version, "files", len(rec.Files))

	if err := o.runScript(ctx, hooks.PostInstall, rec); err != nil {
		emit(o.Hooks, Event{Phase: "error", ID: name, Msg: err.Error()})
		return outcome, err
	}
	emit(o.Hooks, Event{Phase: "done", ID: name, Msg: rec.Version})
	return outcome, nil
}

// discardUnrecorded removes what an install wrote when its record could not be stored.
// Files and links the previous record still lists stay in place, since that record remains
// the truth; anything new is deleted.
func (o *Orchestrator) discardUnrecorded(rec, previous *model.InstalledPackage) {
	log := o.logger().With("package", rec.Name)
	var err error
	if previous == nil {
		err = o.Installer.Uninstall(rec)
	} else {
		err = o.Installer.Prune(rec, previous)
	}
	if err != nil {
		log.Warn("failed to remove files of unrecorded install", "files", rec.Files, "links", rec.Links, "error", err)
	}
}

// Remove runs the package's pre-remove script, drops its record and deletes exactly
// the files and links the record lists.
func (o *Orchestrator) Remove(ctx context.Context, name string) (*model.InstalledPackage, error) {
	if o.Store == nil || o.Installer == nil {
		return nil, fmt.Errorf("metadata store and installer are required")
	}
	rec, err := o.Store.Get(name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", name, errors.ErrNotInstalled)
	}

	if err := o.runScript(ctx, hooks.PreRemove, rec); err != nil {
		return nil, err
	}

	emit(o.Hooks, Event{Phase: "removing", ID: name, Msg: rec.Version})
	return o.remove(name)
}

func (o *Orchestrator) remove(name string) (*model.InstalledPackage, error) {
	rec, err := o.Store.Remove(name)
	if err != nil {
		return nil, err
	}
	if err := o.Installer.Uninstall(rec); err != nil {
		return rec, fmt.Errorf("removing files of %s: %w", name, err)
	}
	o.logger().Info("package removed", "package", name, "version", rec.Version)
	emit(o.Hooks, Event{Phase: "done", ID: name})
	return rec, nil
}

func (o *Orchestrator) runScript(ctx context.Context, hookType hooks.HookType, rec *model.InstalledPackage) error {
	script := rec.Hooks[string(hookType)]
	if script == "" || o.Scripts == nil {
		return nil
	}
	emit(o.Hooks, Event{Phase: "hook", ID: rec.Name, Msg: string(hookType)})
	err := o.Scripts.Run(ctx, hookType, script, hooks.HookContext{
		PackageName:    rec.Name,
		PackageVersion: rec.Version,
		PackageDir:     rec.PackageDir,
		BinDir:         o.Layout.BinDir,
		Platform:       rec.Platform,
		Files:          rec.Files,
	})
	if err != nil {
		return fmt.Errorf("%s hook of %s: %w: %w", hookType, rec.Name, errors.ErrHookExecution, err)
	}
	return nil
}

// List returns the install records ordered by name.
func (o *Orchestrator) List() ([]*model.InstalledPackage, error) {
	if o.Store == nil {
		return nil, fmt.Errorf("metadata store is not configured")
	}
	return o.Store.List()
}

// Search finds registry packages matching term and flags the installed ones.
func (o *Orchestrator) Search(term string) ([]SearchResult, error) {
	if o.Catalog == nil {
		return nil, fmt.Errorf("registry is not loaded")
	}
	matches := o.Catalog.Find(term)
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		r := SearchResult{Name: m.Name, Package: m.Package}
		if o.Store != nil {
			rec, err := o.Store.Get(m.Name)
			if err != nil {
				return nil, err
			}
			r.Installed = rec
		}
		results = append(results, r)
	}
	return results, nil
}

// Nuke removes every installed package, then the manager's own roots, and finally
// the manager binary. Lifecycle scripts are not run.
func (o *Orchestrator) Nuke(ctx context.Context, opts NukeOptions) error {
	if !opts.Confirmed {
		return fmt.Errorf("nuke must be confirmed: %w", errors.ErrInvalidArguments)
	}
	if o.Store == nil || o.Installer == nil {
		return fmt.Errorf("metadata store and installer are required")
	}
	log := o.logger()

	installed, err := o.Store.List()
	if err != nil {
		return err
	}
	var errs []error
	for _, rec := range installed {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(o.Hooks, Event{Phase: "removing", ID: rec.Name, Msg: rec.Version})
		if _, err := o.remove(rec.Name); err != nil {
			errs = append(errs, err)
		}
	}

	if err := o.removeStrayLinks(); err != nil {
		errs = append(errs, err)
	}
	for _, root := range []string{o.Layout.PackagesDir, o.Layout.CacheDir, o.Layout.StateDir} {
		if !removableRoot(root) {
			continue
		}
		log.Debug("removing directory", "path", root)
		if err := os.RemoveAll(root); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", root, err))
		}
	}

	if bin := o.SelfTarget.BinaryPath; bin != "" {
		for _, p := range []string{selfupdate.PreviousPath(bin), bin} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
			}
		}
	}
	emit(o.Hooks, Event{Phase: "done", Msg: "nuke"})
	return errors.Join(errs...)
}

// removeStrayLinks deletes links in the bin directory that point into the packages root
// but belong to no record, such as leftovers of an interrupted install.
func (o *Orchestrator) removeStrayLinks() error {
	if o.Layout.BinDir == "" || o.Layout.PackagesDir == "" {
		return nil
	}
	entries, err := os.ReadDir(o.Layout.BinDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", o.Layout.BinDir, err)
	}
	packagesDir := filepath.Clean(o.Layout.PackagesDir) + string(filepath.Separator)
	var errs []error
	for _, e := range entries {
		if e.Type()&os.ModeSymlink == 0 {
			continue
		}
		link := filepath.Join(o.Layout.BinDir, e.Name())
		target, err := os.Readlink(link)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(o.Layout.BinDir, target)
		}
		if strings.HasPrefix(filepath.Clean(target), packagesDir) {
			if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("removing link %s: %w", link, err))
			}
		}
	}
	return errors.Join(errs...)
}

func removableRoot(dir string) bool {
	if dir == "" {
		return false
	}
	clean := filepath.Clean(dir)
	if clean == string(filepath.Separator) || clean == "." {
		return false
	}
	if home, err := os.UserHomeDir(); err == nil && clean == filepath.Clean(home) {
		return false
	}
	return true
}

// SelfUpdate replaces the manager binary and records the new version.
// Result.VerifyErr carries a failed post-update check; the update still counts as done.
func (o *Orchestrator) SelfUpdate(ctx context.Context, opts SelfUpdateOptions) (*selfupdate.Result, error) {
	if o.Self == nil || o.Store == nil {
		return nil, fmt.Errorf("self-updater and metadata store are required")
	}
	current, err := o.Store.SelfVersion()
	if err != nil {
		return nil, err
	}
	if current == "" {
		current = release.NormalizeVersion(o.SelfTarget.CurrentVersion)
	}

	emit(o.Hooks, Event{Phase: "resolving", ID: cache.SelfName, Msg: o.SelfTarget.Repository})
	res, err := o.Self.Update(ctx, selfupdate.Options{
		Target:          o.SelfTarget.Repository,
		Version:         opts.Version,
		AllowPrerelease: opts.AllowPrerelease,
		Platform:        o.Layout.Platform,
		CurrentVersion:  current,
		BinaryPath:      o.SelfTarget.BinaryPath,
		BinaryName:      o.SelfTarget.BinaryName,
	})
	if err != nil {
		return nil, err
	}
	if res.AlreadyCurrent {
		emit(o.Hooks, Event{Phase: "done", ID: cache.SelfName, Msg: "already current"})
		return res, nil
	}
	if err := o.Store.SetSelfVersion(res.Selection.Version); err != nil {
		return res, err
	}
	emit(o.Hooks, Event{Phase: "done", ID: cache.SelfName, Msg: res.Selection.Version})
	return res, nil
}

// SyncRegistry downloads the registry document from rawURL and replaces dest with it
// only when it parses. It returns the freshly loaded registry.
func (o *Orchestrator) SyncRegistry(ctx context.Context, rawURL, dest string) (*registry.Registry, error) {
	if o.Downloader == nil {
		return nil, fmt.Errorf("download manager is not configured")
	}
	emit(o.Hooks, Event{Phase: "downloading", ID: "registry", Msg: rawURL})

	var loaded *registry.Registry
	err := o.Downloader.Download(ctx, rawURL, dest, func(tmpPath string) error {
		reg, err := registry.LoadFile(tmpPath)
		if err != nil {
			return err
		}
		loaded = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.logger().Info("registry updated", "packages", len(loaded.Packages), "path", dest)
	emit(o.Hooks, Event{Phase: "done", ID: "registry"})
	return loaded, nil
}

// assetFileName returns the last path element of a download URL.
func assetFileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
