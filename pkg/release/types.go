//go:generate mockgen -destination=./mocks/release.go . Lister

// Package release selects a release and its platform asset from a release listing.
package release

import (
	"context"
	"strings"
	"time"
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name string
	URL  string
	Size int64
	// Platform is the platform id of the asset when the lister knows it. Empty means it is
	// derived from Name.
	Platform string
}

// Release is the metadata of one tagged release.
type Release struct {
	Tag         string
	Prerelease  bool
	PublishedAt time.Time
	Assets      []Asset
}

// Lister yields release metadata for a target (a package name or the manager's own release stream).
type Lister interface {
	// ListReleases returns every published release of target.
	ListReleases(ctx context.Context, target string) ([]Release, error)
	// GetRelease returns the release tagged exactly tag, or an error wrapping errors.ErrVersionNotFound.
	GetRelease(ctx context.Context, target, tag string) (*Release, error)
}

// Request describes what to resolve.
type Request struct {
	Target          string
	Version         string
	AllowPrerelease bool
	Platform        string
	// CurrentVersion is the version currently recorded; when it equals the selected version
	// the selection is flagged AlreadyCurrent and no asset lookup happens.
	CurrentVersion string
}

// Selection is the outcome of a resolution.
type Selection struct {
	Tag            string
	Version        string
	Prerelease     bool
	AssetName      string
	AssetURL       string
	AlreadyCurrent bool
}

// NormalizeVersion strips one leading "v" from a tag.
func NormalizeVersion(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}
