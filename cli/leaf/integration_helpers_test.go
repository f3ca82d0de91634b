//go:build integration

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/internal/logger"
	"github.com/glorpus-work/leaf/pkg/archive"
)

// testEnv is an isolated leaf installation rooted in a temp directory.
type testEnv struct {
	root     string
	cfgPath  string
	binDir   string
	pkgDir   string
	stateDir string
	server   *httptest.Server
}

// newTestEnv writes a config pointing every root into a temp directory and starts a server
// offering a registry with one package ("hello") and its tarball.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		root:     root,
		cfgPath:  filepath.Join(root, "config.yaml"),
		binDir:   filepath.Join(root, "bin"),
		pkgDir:   filepath.Join(root, "leaf", "packages"),
		stateDir: filepath.Join(root, "leaf"),
	}

	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "hello-1.0.0"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello-1.0.0", "hello"), []byte("#!/bin/sh\necho hello\n"), 0o644))
	tarball := filepath.Join(root, "hello.tar.gz")
	require.NoError(t, archive.Create(context.Background(), src, tarball, archive.KindTarGz))

	mux := http.NewServeMux()
	mux.HandleFunc("/hello-1.0.0-linux-x86_64.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, tarball)
	})
	mux.HandleFunc("/packages.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `{
			"hello": {
				"description": "prints a greeting",
				"version": "1.0.0",
				"tags": ["demo"],
				"platforms": {
					"linux-x86_64": {"url": %q, "executables": [{"path": "hello-1.0.0/hello", "name": "hello"}]}
				}
			}
		}`, env.server.URL+"/hello-1.0.0-linux-x86_64.tar.gz")
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	})
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)

	cfg := fmt.Sprintf(`settings:
  packages_dir: %s
  bin_dir: %s
  cache_dir: %s
  state_dir: %s
  registry_url: %s
  http_timeout: 5s
  color_output: false
  log_level: info
  platform:
    os: linux
    arch: x86_64
`, env.pkgDir, env.binDir, filepath.Join(root, "cache"), env.stateDir, env.server.URL+"/packages.json")
	require.NoError(t, os.WriteFile(env.cfgPath, []byte(cfg), 0o600))

	return env
}

// run executes leaf with the environment's config and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	logger.SetTestOutput(&logs)
	defer logger.UnsetTestOutput()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
