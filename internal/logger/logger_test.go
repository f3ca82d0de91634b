package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	previous := slog.Default()
	defer slog.SetDefault(previous)

	logger = nil
	InitLogger(level, false)

	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("test info message") },
			contains: []string{"test info message", "level=INFO"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func() { Debugf("resolving %s", "rg") },
			contains: []string{"resolving rg", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func() { Debug("test debug message") },
			excludes: []string{"test debug message"},
		},
		{
			name:     "error log",
			level:    "error",
			logFn:    func() { Error("test error message", Fields{"package": "rg"}) },
			contains: []string{"test error message", "level=ERROR", "package=rg"},
		},
		{
			name:     "warn log filtered at error level",
			level:    "error",
			logFn:    func() { Warnf("cache at %d%%", 90) },
			excludes: []string{"cache at"},
		},
		{
			name:     "warn log with fields",
			level:    "warn",
			logFn:    func() { Warn("test warning", Fields{"key1": "value1", "key2": 42}) },
			contains: []string{"test warning", "level=WARN", "key1=value1", "key2=42"},
		},
		{
			name:     "success log",
			level:    "info",
			logFn:    func() { Success("installed", Fields{"package": "rg"}) },
			contains: []string{"installed", "status=success", "package=rg"},
		},
		{
			name:     "formatted info",
			level:    "INFO",
			logFn:    func() { Infof("%d packages", 3) },
			contains: []string{"3 packages"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestInitLoggerSetsSlogDefault(t *testing.T) {
	output := captureOutput(t, "debug", func() {
		slog.Default().Debug("from a component", "path", "/tmp/x")
	})
	assert.Contains(t, output, "from a component")
	assert.Contains(t, output, "path=/tmp/x")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestGetLoggerInitializesLazily(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	GetLogger().Info("lazy")
	assert.True(t, strings.Contains(buf.String(), "lazy"))
}
