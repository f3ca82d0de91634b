package cache_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/errors"
)

const payload = "archive-bytes-for-testing"

type testServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ok/tool-linux-amd64.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		assert.Equal(t, "leaf-test", r.Header.Get("User-Agent"))
		_, _ = fmt.Fprint(w, payload)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		ts.hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/truncated", func(w http.ResponseWriter, _ *http.Request) {
		ts.hits.Add(1)
		w.Header().Set("Content-Length", "1000")
		_, _ = fmt.Fprint(w, "short")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		http.NotFound(w, r)
	})
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newManager(t *testing.T, srv *testServer) (*cache.Manager, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	return cache.NewManager(dir, 5*time.Second, "leaf-test", cache.WithHTTPClient(srv.Client())), dir
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	var found []string
	_ = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasSuffix(p, ".tmp") {
			found = append(found, p)
		}
		return nil
	})
	return found
}

var key = cache.Key{Name: "tool", Version: "1.0.0", Platform: "linux-amd64"}

func TestFetch_MissThenHit(t *testing.T) {
	srv := newTestServer(t)
	mgr, dir := newManager(t, srv)
	url := srv.URL + "/ok/tool-linux-amd64.tar.gz"

	first, err := mgr.Fetch(context.Background(), key, url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, filepath.Join(dir, "tool", "1.0.0", "linux-amd64")))
	assert.True(t, strings.HasSuffix(first, "-tool-linux-amd64.tar.gz"))

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))

	second, err := mgr.Fetch(context.Background(), key, url)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), srv.hits.Load(), "a valid entry must not touch the network")
}

func TestFetch_EmptyEntryIsAMiss(t *testing.T) {
	srv := newTestServer(t)
	mgr, _ := newManager(t, srv)
	url := srv.URL + "/ok/tool-linux-amd64.tar.gz"

	p, err := mgr.Path(key, url)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	_, ok := mgr.Lookup(key, url)
	assert.False(t, ok)

	got, err := mgr.Fetch(context.Background(), key, url)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestFetch_FailuresLeaveNoFile(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		blockRoot bool
	}{
		{name: "empty body", path: "/empty"},
		{name: "truncated stream", path: "/truncated"},
		{name: "http error", path: "/missing"},
		{name: "cache root is a file", path: "/ok/tool-linux-amd64.tar.gz", blockRoot: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			mgr, dir := newManager(t, srv)
			url := srv.URL + tt.path
			if tt.blockRoot {
				require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))
			}

			_, err := mgr.Fetch(context.Background(), key, url)
			require.ErrorIs(t, err, errors.ErrDownloadFailed)

			if tt.blockRoot {
				data, readErr := os.ReadFile(dir)
				require.NoError(t, readErr)
				assert.Equal(t, "not a directory", string(data))
				return
			}
			p, err := mgr.Path(key, url)
			require.NoError(t, err)
			_, statErr := os.Stat(p)
			assert.True(t, os.IsNotExist(statErr))
			assert.Empty(t, tempFiles(t, dir))
		})
	}
}

func TestDownload_DestinationDirFailure(t *testing.T) {
	srv := newTestServer(t)
	mgr, _ := newManager(t, srv)
	blocker := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := mgr.Download(context.Background(), srv.URL+"/ok/tool-linux-amd64.tar.gz", filepath.Join(blocker, "packages.json"), nil)
	require.ErrorIs(t, err, errors.ErrDownloadFailed)
}

func TestFetch_UnreachableHost(t *testing.T) {
	srv := newTestServer(t)
	mgr, _ := newManager(t, srv)
	url := srv.URL + "/ok/tool-linux-amd64.tar.gz"
	srv.Close()

	_, err := mgr.Fetch(context.Background(), key, url)
	require.ErrorIs(t, err, errors.ErrDownloadFailed)
}

func TestPath_RejectsUnsafeKeys(t *testing.T) {
	mgr := cache.NewManager(t.TempDir(), 0, "")
	for _, k := range []cache.Key{
		{Name: "", Version: "1", Platform: "linux-amd64"},
		{Name: "../etc", Version: "1", Platform: "linux-amd64"},
		{Name: "tool", Version: "..", Platform: "linux-amd64"},
		{Name: "tool", Version: "1", Platform: "linux/amd64"},
	} {
		_, err := mgr.Path(k, "https://example.com/tool.tar.gz")
		assert.ErrorIs(t, err, errors.ErrInvalidPath, "key %+v", k)
	}
}

func TestPath_DistinctURLsDoNotCollide(t *testing.T) {
	mgr := cache.NewManager(t.TempDir(), 0, "")
	a, err := mgr.Path(key, "https://a.example.com/tool.tar.gz")
	require.NoError(t, err)
	b, err := mgr.Path(key, "https://b.example.com/tool.tar.gz")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, filepath.Dir(a), filepath.Dir(b))
}

func TestDownload_VerifyRejectionKeepsDestination(t *testing.T) {
	srv := newTestServer(t)
	mgr, _ := newManager(t, srv)
	dest := filepath.Join(t.TempDir(), "state", "packages.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("{}"), 0o644))

	rejected := fmt.Errorf("not a registry")
	err := mgr.Download(context.Background(), srv.URL+"/ok/tool-linux-amd64.tar.gz", dest, func(tmp string) error {
		content, err := os.ReadFile(tmp)
		require.NoError(t, err)
		assert.Equal(t, payload, string(content))
		return rejected
	})
	require.ErrorIs(t, err, rejected)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
	assert.Empty(t, tempFiles(t, filepath.Dir(dest)))

	require.NoError(t, mgr.Download(context.Background(), srv.URL+"/ok/tool-linux-amd64.tar.gz", dest, nil))
	content, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))
}

func TestCleanAndInfo(t *testing.T) {
	srv := newTestServer(t)
	mgr, dir := newManager(t, srv)

	info, err := mgr.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, dir, info.Directory)
	assert.Zero(t, info.TotalSize)
	assert.Contains(t, cache.FormatInfo(info), "never")

	_, err = mgr.Fetch(context.Background(), key, srv.URL+"/ok/tool-linux-amd64.tar.gz")
	require.NoError(t, err)
	other := cache.Key{Name: cache.SelfName, Version: "2.0.0", Platform: "linux-amd64"}
	_, err = mgr.Fetch(context.Background(), other, srv.URL+"/ok/tool-linux-amd64.tar.gz")
	require.NoError(t, err)

	info, err = mgr.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, int64(2*len(payload)), info.TotalSize)
	assert.Equal(t, 2, info.Files)
	assert.Equal(t, 2, info.Packages)
	assert.Contains(t, cache.FormatInfo(info), "2 files across 2 packages")

	result, err := mgr.Clean()
	require.NoError(t, err)
	assert.Equal(t, int64(2*len(payload)), result.TotalFreed)
	assert.Equal(t, 2, result.FilesRemoved)
	assert.Contains(t, cache.FormatClean(result), "Successfully cleaned cache")

	_, ok := mgr.Lookup(key, srv.URL+"/ok/tool-linux-amd64.tar.gz")
	assert.False(t, ok)

	result, err = mgr.Clean()
	require.NoError(t, err)
	assert.Equal(t, "No files were removed from the cache.", cache.FormatClean(result))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", cache.FormatBytes(0))
	assert.Equal(t, "1023 B", cache.FormatBytes(1023))
	assert.Equal(t, "1.0 KB", cache.FormatBytes(1024))
	assert.Equal(t, "1.5 MB", cache.FormatBytes(1536*1024))
}
