// Package platform identifies the operating system / architecture pair a binary targets.
// A platform id is written "<os>-<arch>" using Go's names, e.g. "linux-amd64".
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/glorpus-work/leaf/pkg/errors"
)

// Platform represents a target platform with OS and Architecture.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// CurrentPlatform returns the platform this process is running on.
func CurrentPlatform() Platform {
	return Platform{
		OS:   NormalizeOS(runtime.GOOS),
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

// New builds a normalized platform, falling back to the current platform for empty parts.
func New(goos, goarch string) Platform {
	current := CurrentPlatform()
	p := Platform{OS: NormalizeOS(goos), Arch: NormalizeArch(goarch)}
	if p.OS == "" {
		p.OS = current.OS
	}
	if p.Arch == "" {
		p.Arch = current.Arch
	}
	return p
}

// Parse parses a platform id of the form "<os>-<arch>".
func Parse(id string) (Platform, error) {
	osPart, archPart, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok || osPart == "" || archPart == "" {
		return Platform{}, fmt.Errorf("platform id %q must look like <os>-<arch>: %w", id, errors.ErrInvalidArguments)
	}
	return Platform{OS: NormalizeOS(osPart), Arch: NormalizeArch(archPart)}, nil
}

// ID returns the platform id, e.g. "linux-amd64".
func (p Platform) ID() string {
	return p.OS + "-" + p.Arch
}

// String returns the platform id.
func (p Platform) String() string {
	return p.ID()
}

// NormalizeOS normalizes OS names to Go's GOOS spelling.
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	if canonical, ok := osAliases[os]; ok {
		return canonical
	}
	return os
}

// NormalizeArch normalizes architecture names to Go's GOARCH spelling.
func NormalizeArch(arch string) string {
	arch = strings.ToLower(strings.TrimSpace(arch))
	if canonical, ok := archAliases[arch]; ok {
		return canonical
	}
	return arch
}
