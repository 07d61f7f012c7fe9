// Package pypi queries the JSON release listing of a package index.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ralt/pypi-mirror/internal/models"
	"github.com/ralt/pypi-mirror/internal/version"
	"github.com/sirupsen/logrus"
)

// DefaultURL is the release listing endpoint of pypi.org
const DefaultURL = "https://pypi.org/pypi/{package}/json"

// DefaultFilter matches purely dotted-numeric versions
const DefaultFilter = `^\d+(\.\d+)*$`

type releaseListing struct {
	Releases map[string]json.RawMessage `json:"releases"`
}

// Client fetches release listings
type Client struct {
	urlTemplate string
	client      *http.Client
}

// NewClient creates a client for a URL template containing {package}
func NewClient(urlTemplate string) *Client {
	if urlTemplate == "" {
		urlTemplate = DefaultURL
	}
	return &Client{
		urlTemplate: urlTemplate,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// URL returns the listing URL of pkg. The legacy {pkg} placeholder is
// accepted too.
func (c *Client) URL(pkg string) string {
	escaped := url.PathEscape(pkg)
	u := strings.ReplaceAll(c.urlTemplate, "{package}", escaped)
	return strings.ReplaceAll(u, "{pkg}", escaped)
}

// Versions returns every release version of pkg, sorted lexically
func (c *Client) Versions(ctx context.Context, pkg string) ([]string, error) {
	u := c.URL(pkg)
	logrus.Debugf("Fetching %s", u)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, models.NewError(models.ErrQuery, pkg, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, models.NewError(models.ErrQuery, pkg, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewError(models.ErrQuery, pkg, fmt.Errorf("GET %s: unexpected status %s", u, resp.Status))
	}

	var listing releaseListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, models.NewError(models.ErrQuery, pkg, fmt.Errorf("failed to decode JSON: %w", err))
	}
	if listing.Releases == nil {
		return nil, models.NewError(models.ErrQuery, pkg, fmt.Errorf("response has no releases"))
	}

	versions := make([]string, 0, len(listing.Releases))
	for v := range listing.Releases {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

// CompileFilter compiles a version filter. Like a prefix match, the
// expression only has to match at the start of a version.
func CompileFilter(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, "", fmt.Errorf("invalid filter %q: %w", expr, err))
	}
	return re, nil
}

// SelectVersions keeps the versions matching filter (nil keeps all),
// newest first, truncated to latest when latest is not negative
func SelectVersions(versions []string, filter *regexp.Regexp, latest int) []string {
	var selected []string
	for _, v := range versions {
		if filter == nil || filter.MatchString(v) {
			selected = append(selected, v)
		}
	}

	selected = version.SortDescending(selected)
	if latest >= 0 && latest < len(selected) {
		selected = selected[:latest]
	}
	return selected
}
