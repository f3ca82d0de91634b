// Package hooks runs the optional lifecycle scripts a registry entry may declare.
// Scripts are written in Tengo.
package hooks

// HookType represents the lifecycle point a script runs at.
type HookType string

// Supported hook types.
const (
	PostInstall HookType = "post-install"
	PreRemove   HookType = "pre-remove"
)

// Supported reports whether t is a known hook type.
func (t HookType) Supported() bool {
	return t == PostInstall || t == PreRemove
}

// HookContext contains information passed to hooks.
type HookContext struct {
	PackageName    string
	PackageVersion string
	PackageDir     string
	BinDir         string
	Platform       string
	Files          []string
}
