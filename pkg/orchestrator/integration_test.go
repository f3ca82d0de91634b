package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/pkg/archive"
	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/database"
	"github.com/glorpus-work/leaf/pkg/hooks"
	"github.com/glorpus-work/leaf/pkg/installer"
	"github.com/glorpus-work/leaf/pkg/registry"
	"github.com/glorpus-work/leaf/pkg/release"
)

func snapshot(t *testing.T, roots ...string) []string {
	t.Helper()
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			paths = append(paths, path)
			return nil
		})
		require.NoError(t, err)
	}
	sort.Strings(paths)
	return paths
}

func TestRealComponents_InstallReinstallRemove(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	layout := Layout{
		PackagesDir: filepath.Join(root, "leaf", "packages"),
		CacheDir:    filepath.Join(root, "leaf", "cache"),
		StateDir:    filepath.Join(root, "leaf"),
		BinDir:      filepath.Join(root, "bin"),
		Platform:    linux,
	}
	for _, dir := range []string{layout.PackagesDir, layout.BinDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "rg-14.1.0", "doc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "rg-14.1.0", "rg"), []byte("#!/bin/sh\necho rg\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "rg-14.1.0", "doc", "rg.1"), []byte("man"), 0o644))
	tarball := filepath.Join(root, "rg.tar.gz")
	require.NoError(t, archive.Create(context.Background(), src, tarball, archive.KindTarGz))

	var downloads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		http.ServeFile(w, r, tarball)
	}))
	defer srv.Close()

	reg, err := registry.Load([]byte(fmt.Sprintf(`{
		"ripgrep": {
			"description": "recursively search directories",
			"version": "14.1.0",
			"tags": ["search", "grep"],
			"platforms": {
				"linux-x86_64": {"url": %q, "executables": [{"path": "rg-14.1.0/rg", "name": "rg"}]}
			},
			"hooks": {"post-install": "if packageName != \"ripgrep\" { err = \"wrong package\" }"}
		}
	}`, srv.URL+"/rg-14.1.0-x86_64-unknown-linux-musl.tar.gz")))
	require.NoError(t, err)

	store, err := database.Open(filepath.Join(layout.StateDir, "installed.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	orch := &Orchestrator{
		Catalog:   reg,
		Releases:  release.NewResolver(registry.NewLister(reg)),
		Cache:     cache.NewManager(layout.CacheDir, 0, "leaf-test"),
		Installer: installer.New(),
		Store:     store,
		Scripts:   hooks.NewTengoExecutor(nil),
		Layout:    layout,
	}

	before := snapshot(t, layout.PackagesDir, layout.BinDir)

	first, err := orch.Install(context.Background(), "ripgrep", InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, "14.1.0", first.Package.Version)
	firstRecord, err := store.Get("ripgrep")
	require.NoError(t, err)
	link := filepath.Join(layout.BinDir, "rg")
	resolved, err := filepath.EvalSymlinks(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.PackagesDir, "ripgrep", "rg"), resolved)

	second, err := orch.Install(context.Background(), "ripgrep", InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Package.Files, second.Package.Files)
	assert.Equal(t, first.Package.Links, second.Package.Links)
	assert.Equal(t, int32(1), downloads.Load(), "second install must reuse the cache entry")
	secondRecord, err := store.Get("ripgrep")
	require.NoError(t, err)
	assert.Equal(t, firstRecord, secondRecord)

	up, err := orch.Upgrade(context.Background(), "ripgrep")
	require.NoError(t, err)
	assert.True(t, up.AlreadyCurrent)

	results, err := orch.Search("GREP")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Installed)

	_, err = orch.Remove(context.Background(), "ripgrep")
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, layout.PackagesDir, layout.BinDir))
	listed, err := orch.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	info, err := cache.NewManager(layout.CacheDir, 0, "leaf-test").GetInfo()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Files)
}
