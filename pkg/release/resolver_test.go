package release_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/release"
	relmocks "github.com/glorpus-work/leaf/pkg/release/mocks"
)

const target = "ktauchathuranga/leaf"

var (
	earlier = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	later   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func assets(tag string) []release.Asset {
	return []release.Asset{
		{Name: "leaf-" + tag + "-linux-amd64.tar.gz", URL: "https://dl.example.com/" + tag + "/linux-amd64.tar.gz"},
		{Name: "leaf-" + tag + "-linux-amd64.tar.gz.sha256", URL: "https://dl.example.com/" + tag + "/linux-amd64.sha256"},
		{Name: "leaf-" + tag + "-darwin-arm64.tar.gz", URL: "https://dl.example.com/" + tag + "/darwin-arm64.tar.gz"},
		{Name: "checksums.txt", URL: "https://dl.example.com/" + tag + "/checksums.txt"},
	}
}

func releases() []release.Release {
	return []release.Release{
		{Tag: "v1.9.0", PublishedAt: earlier, Assets: assets("v1.9.0")},
		{Tag: "v2.0.0-beta.1", Prerelease: true, PublishedAt: later, Assets: assets("v2.0.0-beta.1")},
		{Tag: "v1.8.0", PublishedAt: earlier.Add(-time.Hour), Assets: assets("v1.8.0")},
	}
}

func TestResolve_StableVersusPrerelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)
	lister.EXPECT().ListReleases(gomock.Any(), target).Return(releases(), nil).Times(2)

	r := release.NewResolver(lister)

	stable, err := r.Resolve(context.Background(), release.Request{Target: target, Platform: "linux-amd64"})
	require.NoError(t, err)
	assert.Equal(t, "v1.9.0", stable.Tag)
	assert.Equal(t, "1.9.0", stable.Version)
	assert.False(t, stable.Prerelease)
	assert.Equal(t, "https://dl.example.com/v1.9.0/linux-amd64.tar.gz", stable.AssetURL)

	pre, err := r.Resolve(context.Background(), release.Request{Target: target, Platform: "linux-amd64", AllowPrerelease: true})
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0-beta.1", pre.Tag)
	assert.Equal(t, "2.0.0-beta.1", pre.Version)
	assert.True(t, pre.Prerelease)
}

func TestResolve_ExplicitVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)

	rel := releases()[2]
	notFound := fmt.Errorf("missing: %w", errors.ErrVersionNotFound)
	gomock.InOrder(
		lister.EXPECT().GetRelease(gomock.Any(), target, "1.8.0").Return(nil, notFound),
		lister.EXPECT().GetRelease(gomock.Any(), target, "v1.8.0").Return(&rel, nil),
	)

	sel, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{
		Target: target, Version: "1.8.0", Platform: "darwin-arm64",
	})
	require.NoError(t, err)
	assert.Equal(t, "v1.8.0", sel.Tag)
	assert.Equal(t, "https://dl.example.com/v1.8.0/darwin-arm64.tar.gz", sel.AssetURL)
}

func TestResolve_ExplicitVersionMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)
	notFound := fmt.Errorf("missing: %w", errors.ErrVersionNotFound)
	lister.EXPECT().GetRelease(gomock.Any(), target, "v9.9.9").Return(nil, notFound)
	lister.EXPECT().GetRelease(gomock.Any(), target, "9.9.9").Return(nil, notFound)

	_, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{
		Target: target, Version: "v9.9.9", Platform: "linux-amd64",
	})
	require.ErrorIs(t, err, errors.ErrVersionNotFound)
}

func TestResolve_PolicyErrors(t *testing.T) {
	tests := []struct {
		name     string
		releases []release.Release
		req      release.Request
		wantErr  error
	}{
		{
			name:    "version and prerelease are exclusive",
			req:     release.Request{Target: target, Version: "v1.0.0", AllowPrerelease: true},
			wantErr: errors.ErrInvalidArguments,
		},
		{
			name:     "no prerelease",
			releases: []release.Release{{Tag: "v1.0.0", PublishedAt: earlier, Assets: assets("v1.0.0")}},
			req:      release.Request{Target: target, AllowPrerelease: true, Platform: "linux-amd64"},
			wantErr:  errors.ErrNoPrereleaseAvailable,
		},
		{
			name:     "no stable",
			releases: []release.Release{{Tag: "v1.0.0-rc.1", Prerelease: true, PublishedAt: earlier}},
			req:      release.Request{Target: target, Platform: "linux-amd64"},
			wantErr:  errors.ErrNoStableRelease,
		},
		{
			name:    "empty listing",
			req:     release.Request{Target: target, Platform: "linux-amd64"},
			wantErr: errors.ErrNoStableRelease,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			lister := relmocks.NewMockLister(ctrl)
			if !(tt.req.Version != "" && tt.req.AllowPrerelease) {
				lister.EXPECT().ListReleases(gomock.Any(), target).Return(tt.releases, nil)
			}

			_, err := release.NewResolver(lister).Resolve(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_AssetNotFoundListsPlatforms(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)
	lister.EXPECT().ListReleases(gomock.Any(), target).Return(releases(), nil)

	_, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{Target: target, Platform: "windows-amd64"})
	require.ErrorIs(t, err, errors.ErrAssetNotFoundForPlatform)

	var notFound *errors.AssetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "v1.9.0", notFound.Tag)
	assert.Equal(t, []string{"darwin-arm64", "linux-amd64"}, notFound.Available)
}

func TestResolve_AlreadyCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    bool
	}{
		{name: "same without prefix", current: "1.9.0", want: true},
		{name: "same with prefix", current: "v1.9.0", want: true},
		{name: "older", current: "1.8.0", want: false},
		{name: "different formatting is not equal", current: "1.9", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			lister := relmocks.NewMockLister(ctrl)
			lister.EXPECT().ListReleases(gomock.Any(), target).Return(releases(), nil)

			sel, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{
				Target: target, Platform: "linux-amd64", CurrentVersion: tt.current,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.AlreadyCurrent)
			if tt.want {
				assert.Empty(t, sel.AssetURL)
			} else {
				assert.NotEmpty(t, sel.AssetURL)
			}
		})
	}
}

func TestResolve_SamePublishTimeUsesVersionOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)
	lister.EXPECT().ListReleases(gomock.Any(), target).Return([]release.Release{
		{Tag: "v1.10.0", PublishedAt: earlier, Assets: assets("v1.10.0")},
		{Tag: "nightly", PublishedAt: earlier, Assets: assets("nightly")},
		{Tag: "v1.9.0", PublishedAt: earlier, Assets: assets("v1.9.0")},
	}, nil)

	sel, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{Target: target, Platform: "linux-amd64"})
	require.NoError(t, err)
	assert.Equal(t, "v1.10.0", sel.Tag)
}

func TestResolve_ListingFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := relmocks.NewMockLister(ctrl)
	boom := fmt.Errorf("api down")
	lister.EXPECT().ListReleases(gomock.Any(), target).Return(nil, boom)

	_, err := release.NewResolver(lister).Resolve(context.Background(), release.Request{Target: target, Platform: "linux-amd64"})
	require.ErrorIs(t, err, boom)
}

func TestFindAsset_ExplicitPlatformWins(t *testing.T) {
	rel := &release.Release{Tag: "1.0.0", Assets: []release.Asset{
		{Name: "arm-utils-linux-s390x", URL: "https://dl/s390x", Platform: "linux-s390x"},
		{Name: "arm-utils-linux-amd64", URL: "https://dl/amd64", Platform: "linux-amd64"},
	}}

	asset, err := release.FindAsset(rel, "linux-s390x")
	require.NoError(t, err)
	assert.Equal(t, "https://dl/s390x", asset.URL)

	_, err = release.FindAsset(rel, "linux-arm")
	var notFound *errors.AssetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"linux-amd64", "linux-s390x"}, notFound.Available)
}
