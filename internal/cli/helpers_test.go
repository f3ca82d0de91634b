package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/pkg/orchestrator"
)

func withFlags(t *testing.T, cfg string, verbose bool) {
	t.Helper()
	oldCfg, oldVerbose, oldNoColor := ConfigPath, Verbose, NoColor
	noColor := true
	ConfigPath, Verbose, NoColor = &cfg, &verbose, &noColor
	t.Cleanup(func() { ConfigPath, Verbose, NoColor = oldCfg, oldVerbose, oldNoColor })
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly10!", max: 10, want: "exactly10!"},
		{in: "a longer description", max: 10, want: "a longe..."},
		{in: "abcdef", max: 3, want: "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max))
	}
}

func TestConfigPathPrefersFlag(t *testing.T) {
	withFlags(t, "/tmp/leaf.yaml", false)
	path, err := configPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/leaf.yaml", path)
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), true)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Settings.ColorOutput)
}

func TestProgressHooks(t *testing.T) {
	var out bytes.Buffer

	withFlags(t, "", false)
	assert.Nil(t, progressHooks(&out).OnEvent)

	withFlags(t, "", true)
	hooks := progressHooks(&out)
	require.NotNil(t, hooks.OnEvent)
	hooks.OnEvent(orchestrator.Event{Phase: "downloading", ID: "ripgrep", Msg: "fetching archive"})
	hooks.OnEvent(orchestrator.Event{Phase: "done", Msg: "finished"})
	assert.Equal(t, "downloading: fetching archive (ripgrep)\ndone: finished\n", out.String())
}

func TestOpenAppWithoutRegistry(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), false)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	_, err := openApp(&bytes.Buffer{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaf update")

	a, err := openApp(&bytes.Buffer{}, false)
	require.NoError(t, err)
	defer a.Close()
	installed, err := a.orch.List()
	require.NoError(t, err)
	assert.Empty(t, installed)
}
