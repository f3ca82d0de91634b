package release

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/platform"
)

// Resolver applies the release selection policy on top of a Lister.
type Resolver struct {
	lister Lister
}

// NewResolver creates a Resolver.
func NewResolver(lister Lister) *Resolver {
	return &Resolver{lister: lister}
}

// Resolve picks a release according to req:
//   - an explicit Version selects that exact tag;
//   - AllowPrerelease selects the most recently published prerelease;
//   - otherwise the most recently published stable release.
//
// Version and AllowPrerelease are mutually exclusive.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Selection, error) {
	if req.Version != "" && req.AllowPrerelease {
		return nil, fmt.Errorf("an explicit version and prerelease selection cannot be combined: %w", errors.ErrInvalidArguments)
	}
	if req.Target == "" {
		return nil, fmt.Errorf("release target is empty: %w", errors.ErrInvalidArguments)
	}

	rel, err := r.selectRelease(ctx, req)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Tag:        rel.Tag,
		Version:    NormalizeVersion(rel.Tag),
		Prerelease: rel.Prerelease,
	}
	if req.CurrentVersion != "" && sel.Version == NormalizeVersion(req.CurrentVersion) {
		sel.AlreadyCurrent = true
		return sel, nil
	}

	asset, err := FindAsset(rel, req.Platform)
	if err != nil {
		return nil, err
	}
	sel.AssetName = asset.Name
	sel.AssetURL = asset.URL
	return sel, nil
}

func (r *Resolver) selectRelease(ctx context.Context, req Request) (*Release, error) {
	if req.Version != "" {
		return r.exactRelease(ctx, req.Target, req.Version)
	}

	releases, err := r.lister.ListReleases(ctx, req.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "listing releases of %s", req.Target)
	}

	candidates := make([]Release, 0, len(releases))
	for _, rel := range releases {
		if rel.Prerelease == req.AllowPrerelease {
			candidates = append(candidates, rel)
		}
	}
	if len(candidates) == 0 {
		if req.AllowPrerelease {
			return nil, fmt.Errorf("%s: %w", req.Target, errors.ErrNoPrereleaseAvailable)
		}
		return nil, fmt.Errorf("%s: %w", req.Target, errors.ErrNoStableRelease)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return newer(candidates[i], candidates[j])
	})
	return &candidates[0], nil
}

// exactRelease fetches the tag as given, then with its leading "v" toggled.
func (r *Resolver) exactRelease(ctx context.Context, target, tag string) (*Release, error) {
	rel, err := r.lister.GetRelease(ctx, target, tag)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, errors.ErrVersionNotFound) {
		return nil, err
	}

	alt := "v" + tag
	if strings.HasPrefix(tag, "v") {
		alt = strings.TrimPrefix(tag, "v")
	}
	if alt == "" {
		return nil, err
	}
	rel, altErr := r.lister.GetRelease(ctx, target, alt)
	if altErr != nil {
		if errors.Is(altErr, errors.ErrVersionNotFound) {
			return nil, fmt.Errorf("%s %s: %w", target, tag, errors.ErrVersionNotFound)
		}
		return nil, altErr
	}
	return rel, nil
}

// FindAsset returns the asset of rel for platformID. Assets with an explicit Platform match on it
// exactly; the rest are matched on the platform encoded in their name.
func FindAsset(rel *Release, platformID string) (*Asset, error) {
	var available []string
	seen := make(map[string]struct{})
	for i := range rel.Assets {
		asset := &rel.Assets[i]
		id := asset.Platform
		if id == "" {
			if isAuxiliary(asset.Name) {
				continue
			}
			p, ok := platform.FromAssetName(asset.Name)
			if !ok {
				continue
			}
			id = p.ID()
		}
		if id == platformID {
			return asset, nil
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			available = append(available, id)
		}
	}
	sort.Strings(available)
	return nil, &errors.AssetNotFoundError{Tag: rel.Tag, Platform: platformID, Available: available}
}

// newer orders by publish time, then by version for identical timestamps.
func newer(a, b Release) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	va, errA := version.NewVersion(a.Tag)
	vb, errB := version.NewVersion(b.Tag)
	switch {
	case errA != nil && errB != nil:
		return a.Tag > b.Tag
	case errA != nil:
		return false
	case errB != nil:
		return true
	}
	return va.GreaterThan(vb)
}

var auxiliarySuffixes = []string{
	".sha256", ".sha256sum", ".sha512", ".md5", ".sig", ".asc", ".pem", ".sbom", ".json", ".txt", ".minisig",
}

// isAuxiliary reports checksum, signature and metadata files that ride along with binaries.
func isAuxiliary(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range auxiliarySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
