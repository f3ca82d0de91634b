//go:generate mockgen -destination=./mocks/selfupdate.go . Resolver,Fetcher,Replacer,Verifier

package selfupdate

import (
	"context"

	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/release"
)

// Resolver selects the release to update to.
type Resolver interface {
	Resolve(ctx context.Context, req release.Request) (*release.Selection, error)
}

// Fetcher returns a local copy of a release asset.
type Fetcher interface {
	Fetch(ctx context.Context, key cache.Key, url string) (string, error)
}

// Replacer renames a directory entry within one filesystem.
type Replacer interface {
	Rename(oldPath, newPath string) error
}

// Verifier checks that the binary at path runs and returns its version report.
type Verifier interface {
	Verify(ctx context.Context, path string) (string, error)
}
