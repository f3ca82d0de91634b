package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glorpus-work/leaf/pkg/auth"
	"github.com/glorpus-work/leaf/pkg/errors"
)

const (
	// DefaultAPIBase is the public GitHub REST endpoint.
	DefaultAPIBase = "https://api.github.com"

	pageSize = 100
	maxPages = 10
)

// GitHubLister lists releases of an "owner/repo" target through the GitHub REST API.
type GitHubLister struct {
	client    *http.Client
	apiBase   string
	userAgent string
	auth      auth.Authenticator
}

// GitHubOption configures a GitHubLister.
type GitHubOption func(*GitHubLister)

// WithAuthenticator sets the credentials applied to every API request.
func WithAuthenticator(a auth.Authenticator) GitHubOption {
	return func(g *GitHubLister) {
		if a != nil {
			g.auth = a
		}
	}
}

// NewGitHubLister creates a lister. An empty apiBase selects DefaultAPIBase.
func NewGitHubLister(client *http.Client, apiBase, userAgent string, opts ...GitHubOption) *GitHubLister {
	if client == nil {
		client = http.DefaultClient
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if userAgent == "" {
		userAgent = "leaf/1.0"
	}
	g := &GitHubLister{
		client:    client,
		apiBase:   strings.TrimRight(apiBase, "/"),
		userAgent: userAgent,
		auth:      auth.Anonymous{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type githubRelease struct {
	TagName     string        `json:"tag_name"`
	Prerelease  bool          `json:"prerelease"`
	Draft       bool          `json:"draft"`
	PublishedAt time.Time     `json:"published_at"`
	Assets      []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// ListReleases returns all non-draft releases of target.
func (g *GitHubLister) ListReleases(ctx context.Context, target string) ([]Release, error) {
	var out []Release
	for page := 1; page <= maxPages; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/releases?per_page=%d&page=%d", g.apiBase, target, pageSize, page)
		var batch []githubRelease
		if err := g.getJSON(ctx, endpoint, &batch); err != nil {
			return nil, err
		}
		for _, rel := range batch {
			if rel.Draft {
				continue
			}
			out = append(out, rel.toRelease())
		}
		if len(batch) < pageSize {
			break
		}
	}
	return out, nil
}

// GetRelease returns the release tagged exactly tag.
func (g *GitHubLister) GetRelease(ctx context.Context, target, tag string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/tags/%s", g.apiBase, target, url.PathEscape(tag))
	var rel githubRelease
	if err := g.getJSON(ctx, endpoint, &rel); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%s %s: %w", target, tag, errors.ErrVersionNotFound)
		}
		return nil, err
	}
	if rel.Draft {
		return nil, fmt.Errorf("%s %s is a draft: %w", target, tag, errors.ErrVersionNotFound)
	}
	r := rel.toRelease()
	return &r, nil
}

var errNotFound = fmt.Errorf("not found")

func (g *GitHubLister) getJSON(ctx context.Context, endpoint string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)
	if err := g.auth.Apply(req); err != nil {
		return errors.Wrap(err, "failed to authenticate request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "release listing request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("release listing returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return errors.Wrap(err, "failed to decode release listing")
	}
	return nil
}

func (r githubRelease) toRelease() Release {
	assets := make([]Asset, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, Asset{Name: a.Name, URL: a.BrowserDownloadURL, Size: a.Size})
	}
	return Release{
		Tag:         r.TagName,
		Prerelease:  r.Prerelease,
		PublishedAt: r.PublishedAt,
		Assets:      assets,
	}
}
