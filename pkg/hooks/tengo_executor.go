package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/glorpus-work/leaf/pkg/errors"
)

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	logger *slog.Logger
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor(logger *slog.Logger) *TengoExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TengoExecutor{logger: logger}
}

// Run executes script for hookType. A script reports failure by assigning a
// non-empty string or an error to the variable err.
func (e *TengoExecutor) Run(ctx context.Context, hookType HookType, script string, hc HookContext) error {
	if !hookType.Supported() {
		return fmt.Errorf("unsupported hook %q: %w", hookType, errors.ErrHookExecution)
	}
	if script == "" {
		return nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "time"))

	files := make([]interface{}, 0, len(hc.Files))
	for _, f := range hc.Files {
		files = append(files, f)
	}
	vars := []struct {
		name  string
		value interface{}
	}{
		{"packageName", hc.PackageName},
		{"packageVersion", hc.PackageVersion},
		{"packageDir", hc.PackageDir},
		{"binDir", hc.BinDir},
		{"platform", hc.Platform},
		{"files", files},
		{"err", ""},
	}
	for _, v := range vars {
		if err := scriptInstance.Add(v.name, v.value); err != nil {
			return fmt.Errorf("failed to add %s to script: %w", v.name, err)
		}
	}

	e.logger.Debug("running hook", "hook", string(hookType), "package", hc.PackageName)
	compiled, err := scriptInstance.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s hook of %s: %w: %w", hookType, hc.PackageName, errors.ErrHookExecution, err)
	}

	errVar := compiled.Get("err")
	if errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return fmt.Errorf("%s hook of %s: %w: %w", hookType, hc.PackageName, errors.ErrHookScript, v)
		case string:
			if v != "" {
				return fmt.Errorf("%s hook of %s: %w: %s", hookType, hc.PackageName, errors.ErrHookScript, v)
			}
		}
	}
	return nil
}
