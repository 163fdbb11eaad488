// Package googlefonts fetches a font family from the google/fonts repository when the
// font configured for 3D text is not installed locally.
package googlefonts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"scene-editor/internal/download"
)

const (
	DefaultAPI       = "https://api.github.com/repos/google/fonts/contents/ofl"
	DefaultRawPrefix = "https://raw.githubusercontent.com/google/fonts/"
)

// ErrNotFound is returned when no candidate folder has a usable font file.
var ErrNotFound = errors.New("googlefonts: font not found")

type githubFile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Client lists family folders through the GitHub contents API and downloads font
// files. Only download URLs under RawPrefix are followed.
type Client struct {
	API       string
	RawPrefix string
	Fetch     func(ctx context.Context, url string) ([]byte, error)
}

// New returns a client for the public repository.
func New() *Client {
	return &Client{API: DefaultAPI, RawPrefix: DefaultRawPrefix, Fetch: download.Fetch}
}

// NormalizeFamily converts a display name to the folder names google/fonts uses:
// "Open Sans" gives "opensans" and then "open-sans".
func NormalizeFamily(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}
	out := []string{strings.ReplaceAll(lower, " ", "")}
	if h := strings.ReplaceAll(lower, " ", "-"); h != out[0] {
		out = append(out, h)
	}
	return out
}

// DownloadURL returns the URL of a TTF or OTF file in folder, preferring upright styles.
func (c *Client) DownloadURL(ctx context.Context, folder string) (string, error) {
	data, err := c.Fetch(ctx, c.API+"/"+url.PathEscape(folder))
	if err != nil {
		return "", fmt.Errorf("googlefonts: %s: %w", folder, err)
	}
	var files []githubFile
	if err := json.Unmarshal(data, &files); err != nil {
		return "", fmt.Errorf("googlefonts: %s: %w", folder, err)
	}
	var italic string
	for _, f := range files {
		lower := strings.ToLower(f.Name)
		if f.Type != "file" || !strings.HasPrefix(f.DownloadURL, c.RawPrefix) {
			continue
		}
		if !strings.HasSuffix(lower, ".ttf") && !strings.HasSuffix(lower, ".otf") {
			continue
		}
		if !strings.Contains(lower, "italic") {
			return f.DownloadURL, nil
		}
		if italic == "" {
			italic = f.DownloadURL
		}
	}
	if italic != "" {
		return italic, nil
	}
	return "", fmt.Errorf("%w: no font file in %q", ErrNotFound, folder)
}

// Family downloads the first font file found for name and returns its file name and bytes.
func (c *Client) Family(ctx context.Context, name string) (string, []byte, error) {
	candidates := NormalizeFamily(name)
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("%w: empty family name", ErrNotFound)
	}
	var lastErr error
	for _, folder := range candidates {
		u, err := c.DownloadURL(ctx, folder)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := c.Fetch(ctx, u)
		if err != nil {
			return "", nil, fmt.Errorf("googlefonts: %w", err)
		}
		return path.Base(u), data, nil
	}
	return "", nil, lastErr
}
