package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/fsutil"
)

const digestLen = 16

// Manager is an HTTP-backed archive cache. Entries are written to a temp file
// under the cache root and renamed into place only after the stream completed.
type Manager struct {
	dir       string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// NewManager creates a cache rooted at dir. A zero timeout leaves the transport default in place.
func NewManager(dir string, timeout time.Duration, userAgent string, opts ...Option) *Manager {
	if userAgent == "" {
		userAgent = "leaf/1.0"
	}
	m := &Manager{
		dir:       dir,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetDirectory returns the cache directory path.
func (m *Manager) GetDirectory() string {
	return m.dir
}

// Path returns the deterministic location of the entry for key and url.
func (m *Manager) Path(key Key, rawURL string) (string, error) {
	if m.dir == "" {
		return "", errors.ErrCacheDirectory
	}
	for _, part := range []string{key.Name, key.Version, key.Platform} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("cache key %q/%q/%q: %w", key.Name, key.Version, key.Platform, errors.ErrInvalidPath)
		}
	}
	digest := blake3.Sum256([]byte(rawURL))
	name := hex.EncodeToString(digest[:])[:digestLen] + "-" + fileNameOf(rawURL)
	return filepath.Join(m.dir, key.Name, key.Version, key.Platform, name), nil
}

// Lookup returns the path of a valid entry. An entry is valid when its file exists and is non-empty.
func (m *Manager) Lookup(key Key, rawURL string) (string, bool) {
	p, err := m.Path(key, rawURL)
	if err != nil {
		return "", false
	}
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() && st.Size() > 0 {
		return p, true
	}
	return "", false
}

// Fetch returns the cached archive for key, downloading rawURL on a miss.
// No retries are attempted.
func (m *Manager) Fetch(ctx context.Context, key Key, rawURL string) (string, error) {
	if p, ok := m.Lookup(key, rawURL); ok {
		m.logger.Debug("cache hit", "name", key.Name, "version", key.Version, "path", p)
		return p, nil
	}

	dest, err := m.Path(key, rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.dir, fsutil.DirModeDefault); err != nil {
		return "", fmt.Errorf("could not create cache dir: %w: %w", errors.ErrDownloadFailed, err)
	}

	m.logger.Debug("cache miss", "name", key.Name, "version", key.Version, "url", rawURL)
	if err := m.download(ctx, rawURL, m.dir, dest, nil); err != nil {
		return "", fmt.Errorf("fetching %s %s: %w", key.Name, key.Version, err)
	}
	return dest, nil
}

// Download streams rawURL to dest through a temp file in dest's directory.
// verify, when non-nil, inspects the completed temp file before it is renamed over dest.
func (m *Manager) Download(ctx context.Context, rawURL, dest string, verify func(tmpPath string) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("could not create destination dir: %w: %w", errors.ErrDownloadFailed, err)
	}
	return m.download(ctx, rawURL, dir, dest, verify)
}

func (m *Manager) download(ctx context.Context, rawURL, tmpDir, dest string, verify func(string) error) error {
	resp, err := m.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(resp, tmpDir)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if verify != nil {
		if err := verify(tmpPath); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("could not create cache entry dir: %w: %w", errors.ErrDownloadFailed, err)
	}
	if err := fsutil.Move(tmpPath, dest); err != nil {
		return fmt.Errorf("could not finalize %s: %w: %w", dest, errors.ErrDownloadFailed, err)
	}
	committed = true
	return nil
}

func (m *Manager) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w: %w", rawURL, errors.ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w: %w", rawURL, errors.ErrDownloadFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s: %w", resp.StatusCode, rawURL, errors.ErrDownloadFailed)
	}
	return resp, nil
}

// writeBodyToTemp copies the response into a fresh temp file and checks the stream was complete.
func writeBodyToTemp(resp *http.Response, dir string) (string, error) {
	tmp, err := os.CreateTemp(dir, "dl-*.tmp")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w: %w", errors.ErrDownloadFailed, err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fail(fmt.Errorf("stream interrupted after %d bytes: %w: %w", n, errors.ErrDownloadFailed, err))
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return fail(fmt.Errorf("received %d of %d bytes: %w", n, resp.ContentLength, errors.ErrDownloadFailed))
	}
	if n == 0 {
		return fail(fmt.Errorf("empty response body: %w", errors.ErrDownloadFailed))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("could not sync file: %w: %w", errors.ErrDownloadFailed, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("could not close file: %w: %w", errors.ErrDownloadFailed, err)
	}
	return tmpPath, nil
}

// fileNameOf derives a file name from the last URL path segment.
func fileNameOf(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}
