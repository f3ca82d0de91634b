package registry

import (
	"context"
	"fmt"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/release"
)

// Lister exposes registry entries as a release listing: each package has exactly one stable
// release whose tag is the registry version and whose assets carry the registry platform ids.
type Lister struct {
	registry *Registry
}

// NewLister wraps reg as a release.Lister.
func NewLister(reg *Registry) *Lister {
	return &Lister{registry: reg}
}

var _ release.Lister = (*Lister)(nil)

// ListReleases returns the single release of a registry package.
func (l *Lister) ListReleases(_ context.Context, target string) ([]release.Release, error) {
	rel, err := l.release(target)
	if err != nil {
		return nil, err
	}
	return []release.Release{*rel}, nil
}

// GetRelease returns the registry release if its version matches tag.
func (l *Lister) GetRelease(_ context.Context, target, tag string) (*release.Release, error) {
	rel, err := l.release(target)
	if err != nil {
		return nil, err
	}
	if rel.Tag != tag {
		return nil, fmt.Errorf("%s %s (registry has %s): %w", target, tag, rel.Tag, errors.ErrVersionNotFound)
	}
	return rel, nil
}

func (l *Lister) release(name string) (*release.Release, error) {
	pkg, err := l.registry.Get(name)
	if err != nil {
		return nil, err
	}
	rel := &release.Release{Tag: pkg.Version}
	for _, id := range pkg.PlatformIDs() {
		rel.Assets = append(rel.Assets, release.Asset{
			Name:     name + "-" + id,
			URL:      pkg.Platforms[id].URL,
			Platform: id,
		})
	}
	return rel, nil
}
