package selfupdate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/glorpus-work/leaf/pkg/fsutil"
)

// OSReplacer renames with the operating system's rename call. It never falls back to copying.
type OSReplacer struct{}

// Rename moves oldPath to newPath in a single rename call.
func (OSReplacer) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		if fsutil.IsCrossFilesystemError(err) {
			return fmt.Errorf("%s and %s are on different filesystems: %w", oldPath, newPath, err)
		}
		return err
	}
	return nil
}

const defaultVerifyTimeout = 10 * time.Second

// ExecVerifier runs the binary with a version flag.
type ExecVerifier struct {
	Args    []string
	Timeout time.Duration
}

// Verify runs path with the configured arguments (default "--version") and returns its trimmed output.
func (v ExecVerifier) Verify(ctx context.Context, path string) (string, error) {
	args := v.Args
	if len(args) == 0 {
		args = []string{"--version"}
	}
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
	report := strings.TrimSpace(string(out))
	if err != nil {
		return report, fmt.Errorf("running %s %s: %w", path, strings.Join(args, " "), err)
	}
	return report, nil
}
