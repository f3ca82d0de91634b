// Package model provides the data structures shared by the registry, the installer
// and the metadata store.
package model

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// ArchiveType tells the installer whether a download is an archive or the executable itself.
type ArchiveType string

const (
	// ArchiveTypeArchive is a compressed archive (tar+gzip, tar+xz or zip) detected from the URL.
	ArchiveTypeArchive ArchiveType = "archive"
	// ArchiveTypeBinary is a bare executable that needs no extraction.
	ArchiveTypeBinary ArchiveType = "binary"
)

// ExecutableSpec names an executable inside an archive and the command name it is installed as.
type ExecutableSpec struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// InstalledName returns the command name placed in the bin directory.
func (e ExecutableSpec) InstalledName() string {
	if e.Name != "" {
		return e.Name
	}
	return path.Base(e.Path)
}

// UnmarshalJSON accepts both "dir/tool" and {"path": "dir/tool", "name": "tool"}.
func (e *ExecutableSpec) UnmarshalJSON(data []byte) error {
	var p string
	if err := json.Unmarshal(data, &p); err == nil {
		*e = ExecutableSpec{Path: p}
		return nil
	}
	type plain ExecutableSpec
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("executable must be a string or an object with a path: %w", err)
	}
	*e = ExecutableSpec(obj)
	return nil
}

// PlatformTarget is the downloadable asset of a package for one platform.
type PlatformTarget struct {
	URL         string           `json:"url"`
	Type        ArchiveType      `json:"type,omitempty"`
	Executables []ExecutableSpec `json:"executables"`
}

// IsRawBinary reports whether the target is a bare executable.
func (t *PlatformTarget) IsRawBinary() bool {
	return t.Type == ArchiveTypeBinary
}

// Package is a registry entry.
type Package struct {
	Description string                     `json:"description"`
	Version     string                     `json:"version"`
	Tags        []string                   `json:"tags,omitempty"`
	Platforms   map[string]*PlatformTarget `json:"platforms"`
	Hooks       map[string]string          `json:"hooks,omitempty"`
}

// PlatformIDs returns the platforms this package is available on, sorted.
func (p *Package) PlatformIDs() []string {
	ids := make([]string, 0, len(p.Platforms))
	for id := range p.Platforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasTag reports whether any tag contains term (case-insensitive).
func (p *Package) HasTag(term string) bool {
	term = strings.ToLower(term)
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// InstalledPackage is the record of one installed package. It lists exactly the files and links
// the last successful install wrote, so removal can delete that set and nothing else.
type InstalledPackage struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Platform    string            `json:"platform"`
	PackageDir  string            `json:"package_dir"`
	Files       []string          `json:"files"`
	Links       []string          `json:"links"`
	Source      string            `json:"source,omitempty"`
	Hooks       map[string]string `json:"hooks,omitempty"`
	InstalledAt time.Time         `json:"installed_at"`
}

// HasFile reports whether path is one of the recorded files.
func (p *InstalledPackage) HasFile(path string) bool {
	for _, f := range p.Files {
		if f == path {
			return true
		}
	}
	return false
}

// HasLink reports whether path is one of the recorded links.
func (p *InstalledPackage) HasLink(path string) bool {
	for _, l := range p.Links {
		if l == path {
			return true
		}
	}
	return false
}
