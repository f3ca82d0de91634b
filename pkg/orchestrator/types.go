//go:generate mockgen -destination=./mocks/orchestrator.go . Catalog,Resolver,Fetcher,PackageInstaller,Store,ScriptRunner,SelfUpdater,RegistryDownloader

package orchestrator

import (
	"context"
	"log/slog"

	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/hooks"
	"github.com/glorpus-work/leaf/pkg/installer"
	"github.com/glorpus-work/leaf/pkg/model"
	"github.com/glorpus-work/leaf/pkg/registry"
	"github.com/glorpus-work/leaf/pkg/release"
	"github.com/glorpus-work/leaf/pkg/selfupdate"
)

// Catalog is the subset of the registry used by the orchestrator.
type Catalog interface {
	Get(name string) (*model.Package, error)
	Resolve(name, platformID string) (*model.PlatformTarget, error)
	Find(term string) []registry.Match
}

// Resolver selects a release for a package.
type Resolver interface {
	Resolve(ctx context.Context, req release.Request) (*release.Selection, error)
}

// Fetcher returns a cached archive, downloading it on a miss.
type Fetcher interface {
	Fetch(ctx context.Context, key cache.Key, url string) (string, error)
}

// PackageInstaller places and removes package files.
type PackageInstaller interface {
	Install(ctx context.Context, req installer.Request) (*installer.Result, error)
	Uninstall(rec *model.InstalledPackage) error
	Prune(previous, current *model.InstalledPackage) error
}

// Store is the metadata store.
type Store interface {
	Get(name string) (*model.InstalledPackage, error)
	Record(pkg *model.InstalledPackage) error
	Remove(name string) (*model.InstalledPackage, error)
	List() ([]*model.InstalledPackage, error)
	SelfVersion() (string, error)
	SetSelfVersion(version string) error
}

// ScriptRunner executes package lifecycle scripts.
type ScriptRunner interface {
	Run(ctx context.Context, hookType hooks.HookType, script string, hc hooks.HookContext) error
}

// SelfUpdater replaces the manager's own binary.
type SelfUpdater interface {
	Update(ctx context.Context, opts selfupdate.Options) (*selfupdate.Result, error)
}

// RegistryDownloader downloads a file to dest, keeping it only when verify accepts it.
type RegistryDownloader interface {
	Download(ctx context.Context, url, dest string, verify func(tmpPath string) error) error
}

// Layout holds the filesystem roots every operation works in.
type Layout struct {
	PackagesDir string
	BinDir      string
	CacheDir    string
	StateDir    string
	Platform    string
}

// SelfTarget describes the manager's own release stream and install location.
type SelfTarget struct {
	Repository     string
	BinaryPath     string
	BinaryName     string
	CurrentVersion string // build version, used until a self-update has been recorded
}

// Orchestrator ties registry, resolver, cache, installer and store together.
type Orchestrator struct {
	Catalog    Catalog
	Releases   Resolver
	Cache      Fetcher
	Installer  PackageInstaller
	Store      Store
	Scripts    ScriptRunner
	Self       SelfUpdater
	Downloader RegistryDownloader
	Layout     Layout
	SelfTarget SelfTarget
	Logger     *slog.Logger
	Hooks      Hooks // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // resolving|downloading|installing|removing|hook|done|error
	ID    string // package name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control a package install.
type InstallOptions struct {
	Version string
}

// SelfUpdateOptions control a self-update.
type SelfUpdateOptions struct {
	Version         string
	AllowPrerelease bool
}

// NukeOptions control a full removal.
type NukeOptions struct {
	Confirmed bool
}

// Outcome reports the result of an install or upgrade.
type Outcome struct {
	Package         *model.InstalledPackage
	PreviousVersion string
	AlreadyCurrent  bool
}

// SearchResult is one registry match, flagged with its install record when installed.
type SearchResult struct {
	Name      string
	Package   *model.Package
	Installed *model.InstalledPackage
}
