package hooks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/hooks"
)

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor(nil)
	hc := hooks.HookContext{
		PackageName:    "rg",
		PackageVersion: "14.1.0",
		PackageDir:     "/home/u/.local/leaf/packages/rg",
		BinDir:         "/home/u/.local/bin",
		Platform:       "linux-amd64",
		Files:          []string{"/home/u/.local/leaf/packages/rg/rg"},
	}
	ctx := context.Background()

	t.Run("empty script is a no-op", func(t *testing.T) {
		assert.NoError(t, executor.Run(ctx, hooks.PostInstall, "", hc))
	})

	t.Run("valid script", func(t *testing.T) {
		script := `
fmt := import("fmt")
strings := import("strings")
msg := fmt.sprintf("%s@%s", packageName, packageVersion)
if !strings.has_prefix(packageDir, "/home/u") { err = "bad dir" }
`
		assert.NoError(t, executor.Run(ctx, hooks.PostInstall, script, hc))
	})

	t.Run("context variables are visible", func(t *testing.T) {
		script := `
if packageName != "rg" { err = "name" }
if platform != "linux-amd64" { err = "platform" }
if binDir != "/home/u/.local/bin" { err = "bin" }
if len(files) != 1 { err = "files" }
`
		assert.NoError(t, executor.Run(ctx, hooks.PreRemove, script, hc))
	})

	t.Run("script reports failure through err", func(t *testing.T) {
		err := executor.Run(ctx, hooks.PreRemove, `err = "still running"`, hc)
		require.ErrorIs(t, err, errors.ErrHookScript)
		assert.Contains(t, err.Error(), "still running")
		assert.Contains(t, err.Error(), "pre-remove hook of rg")
	})

	t.Run("runtime failure", func(t *testing.T) {
		err := executor.Run(ctx, hooks.PostInstall, `non_existent_function()`, hc)
		require.ErrorIs(t, err, errors.ErrHookExecution)
	})

	t.Run("unsupported hook type", func(t *testing.T) {
		err := executor.Run(ctx, hooks.HookType("pre-install"), `x := 1`, hc)
		require.ErrorIs(t, err, errors.ErrHookExecution)
	})

	t.Run("cancelled context stops the script", func(t *testing.T) {
		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		err := executor.Run(cctx, hooks.PostInstall, `for { }`, hc)
		require.ErrorIs(t, err, errors.ErrHookExecution)
	})
}

func TestHookTypeSupported(t *testing.T) {
	assert.True(t, hooks.PostInstall.Supported())
	assert.True(t, hooks.PreRemove.Supported())
	assert.False(t, hooks.HookType("post-remove").Supported())
}
