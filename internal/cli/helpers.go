package cli

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/glorpus-work/leaf/internal/logger"
	"github.com/glorpus-work/leaf/pkg/auth"
	"github.com/glorpus-work/leaf/pkg/cache"
	"github.com/glorpus-work/leaf/pkg/config"
	"github.com/glorpus-work/leaf/pkg/database"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/hooks"
	"github.com/glorpus-work/leaf/pkg/installer"
	"github.com/glorpus-work/leaf/pkg/orchestrator"
	"github.com/glorpus-work/leaf/pkg/registry"
	"github.com/glorpus-work/leaf/pkg/release"
	"github.com/glorpus-work/leaf/pkg/selfupdate"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

func configPath() (string, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath, nil
	}
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get default config path: %w", err)
	}
	return path, nil
}

// loadConfig loads the configuration, applies the global flags and initializes logging.
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if NoColor != nil && *NoColor {
		cfg.Settings.ColorOutput = false
	}
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, !cfg.Settings.ColorOutput)
	return cfg, nil
}

// app holds the components one command invocation works with.
type app struct {
	cfg   *config.Config
	store *database.Store
	cache *cache.Manager
	orch  *orchestrator.Orchestrator
}

// openApp wires the core components from the configuration. With withRegistry the local
// registry copy is loaded as well; commands that only touch installed state skip it.
func openApp(out io.Writer, withRegistry bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create leaf directories: %w", err)
	}
	log := logger.GetLogger()

	store, err := database.Open(cfg.DatabasePath(), database.WithLogger(log))
	if err != nil {
		return nil, err
	}

	s := cfg.Settings
	cacheManager := cache.NewManager(s.CacheDir, s.HTTPTimeout, s.UserAgent, cache.WithLogger(log))
	releases := release.NewGitHubLister(&http.Client{Timeout: s.HTTPTimeout}, s.ReleasesAPI, s.UserAgent,
		release.WithAuthenticator(auth.FromEnv()))

	orch := &orchestrator.Orchestrator{
		Cache:      cacheManager,
		Installer:  installer.New(installer.WithLogger(log)),
		Store:      store,
		Scripts:    hooks.NewTengoExecutor(log),
		Downloader: cacheManager,
		Self: selfupdate.New(
			release.NewResolver(releases),
			cacheManager,
			selfupdate.OSReplacer{},
			selfupdate.ExecVerifier{},
			selfupdate.WithLogger(log),
		),
		Layout: orchestrator.Layout{
			PackagesDir: s.PackagesDir,
			BinDir:      s.BinDir,
			CacheDir:    s.CacheDir,
			StateDir:    s.StateDir,
			Platform:    cfg.PlatformID(),
		},
		SelfTarget: orchestrator.SelfTarget{
			Repository:     s.SelfRepository,
			BinaryPath:     s.BinaryPath,
			CurrentVersion: Version,
		},
		Logger: log,
		Hooks:  progressHooks(out),
	}

	a := &app{cfg: cfg, store: store, cache: cacheManager, orch: orch}
	if withRegistry {
		reg, err := registry.LoadFile(cfg.RegistryPath())
		if err != nil {
			_ = store.Close()
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("no package registry at %s, run 'leaf update' first: %w", cfg.RegistryPath(), err)
			}
			return nil, err
		}
		orch.Catalog = reg
		orch.Releases = release.NewResolver(registry.NewLister(reg))
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close database", logger.Fields{"error": err.Error()})
	}
}

// progressHooks prints orchestrator events when running verbosely.
func progressHooks(out io.Writer) orchestrator.Hooks {
	if Verbose == nil || !*Verbose {
		return orchestrator.Hooks{}
	}
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		if e.ID != "" {
			_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
		} else {
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.Msg)
		}
	}}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
