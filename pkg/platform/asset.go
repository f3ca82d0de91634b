package platform

import (
	"strings"
)

// FromAssetName derives the platform encoded in a release asset file name such as
// "leaf-1.4.0-linux-x86_64.tar.gz". The last OS token and the last architecture token win,
// so a package name that happens to contain an OS word does not shadow the real suffix.
func FromAssetName(name string) (Platform, bool) {
	lower := strings.ToLower(name)
	lower = strings.ReplaceAll(lower, "x86_64", "amd64")
	lower = strings.ReplaceAll(lower, "x86-64", "amd64")

	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})

	var p Platform
	for _, tok := range tokens {
		if os, ok := osAliases[tok]; ok {
			p.OS = os
		}
		if arch, ok := archAliases[tok]; ok {
			p.Arch = arch
		}
	}
	if p.OS == "" || p.Arch == "" {
		return Platform{}, false
	}
	return p, true
}
