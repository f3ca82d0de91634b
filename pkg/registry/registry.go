// Package registry parses the package catalog and answers lookups against it.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/hooks"
	"github.com/glorpus-work/leaf/pkg/model"
	"github.com/glorpus-work/leaf/pkg/platform"
)

// Registry maps package names to their descriptors.
type Registry struct {
	Packages map[string]*model.Package
}

// Match is a single search hit.
type Match struct {
	Name    string
	Package *model.Package
}

// Load parses a registry document. The top level is an object keyed by package name.
func Load(data []byte) (*Registry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("registry document is empty: %w", errors.ErrRegistryParse)
	}
	if looksLikeHTML(trimmed) {
		return nil, fmt.Errorf("registry document is HTML, not JSON (wrong registry URL?): %w", errors.ErrRegistryParse)
	}

	packages := make(map[string]*model.Package)
	if err := json.Unmarshal(trimmed, &packages); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRegistryParse, err)
	}

	for name, pkg := range packages {
		if err := normalizePackage(name, pkg); err != nil {
			return nil, err
		}
	}

	return &Registry{Packages: packages}, nil
}

// LoadFile parses the registry file at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open registry file %s", path)
	}
	return Load(data)
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*model.Package, error) {
	pkg, ok := r.Packages[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errors.ErrPackageNotFound)
	}
	return pkg, nil
}

// Resolve returns the platform target of name for platformID.
func (r *Registry) Resolve(name, platformID string) (*model.PlatformTarget, error) {
	pkg, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	target, ok := pkg.Platforms[platformID]
	if !ok {
		return nil, &errors.PlatformUnsupportedError{
			Name:      name,
			Platform:  platformID,
			Available: pkg.PlatformIDs(),
		}
	}
	return target, nil
}

// Find returns the packages whose name, description or any tag contains term,
// case-insensitively, ordered by name.
func (r *Registry) Find(term string) []Match {
	needle := strings.ToLower(term)
	var matches []Match
	for name, pkg := range r.Packages {
		if strings.Contains(strings.ToLower(name), needle) ||
			strings.Contains(strings.ToLower(pkg.Description), needle) ||
			pkg.HasTag(needle) {
			matches = append(matches, Match{Name: name, Package: pkg})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches
}

// Names returns every package name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Packages))
	for name := range r.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizePackage(name string, pkg *model.Package) error {
	if pkg == nil {
		return fmt.Errorf("package %s: descriptor is null: %w", name, errors.ErrRegistryParse)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("package name %q is not a plain name: %w", name, errors.ErrRegistryParse)
	}
	if len(pkg.Platforms) == 0 {
		return fmt.Errorf("package %s: no platforms: %w", name, errors.ErrRegistryParse)
	}
	pkg.Tags = dedupe(pkg.Tags)
	for hook := range pkg.Hooks {
		if !hooks.HookType(hook).Supported() {
			return fmt.Errorf("package %s: unknown hook %q: %w", name, hook, errors.ErrRegistryParse)
		}
	}

	normalized := make(map[string]*model.PlatformTarget, len(pkg.Platforms))
	for key, target := range pkg.Platforms {
		p, err := platform.Parse(key)
		if err != nil {
			return fmt.Errorf("package %s: %w: %w", name, errors.ErrRegistryParse, err)
		}
		normalized[p.ID()] = target
	}
	pkg.Platforms = normalized

	for id, target := range pkg.Platforms {
		if target == nil || target.URL == "" {
			return fmt.Errorf("package %s: platform %s has no url: %w", name, id, errors.ErrRegistryParse)
		}
		if target.Type == "" {
			target.Type = model.ArchiveTypeArchive
		}
		switch target.Type {
		case model.ArchiveTypeArchive:
			if len(target.Executables) == 0 {
				return fmt.Errorf("package %s: platform %s lists no executables: %w", name, id, errors.ErrRegistryParse)
			}
		case model.ArchiveTypeBinary:
			if len(target.Executables) == 0 {
				target.Executables = []model.ExecutableSpec{{Path: name, Name: name}}
			}
			if len(target.Executables) != 1 {
				return fmt.Errorf("package %s: raw binary on %s must have one executable: %w", name, id, errors.ErrRegistryParse)
			}
		default:
			return fmt.Errorf("package %s: platform %s has unknown type %q: %w", name, id, target.Type, errors.ErrRegistryParse)
		}
		for _, exe := range target.Executables {
			if exe.Path == "" {
				return fmt.Errorf("package %s: platform %s has an executable without path: %w", name, id, errors.ErrRegistryParse)
			}
		}
	}
	return nil
}

func looksLikeHTML(data []byte) bool {
	lower := bytes.ToLower(data[:min(len(data), 64)])
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
