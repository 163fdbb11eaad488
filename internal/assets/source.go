package assets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"scene-editor/internal/sceneobj"
)

// Fetcher downloads a remote URL.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// IsRemote reports whether resolving src needs the network.
func IsRemote(src sceneobj.Source) bool {
	if src.IsBinary() {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(src.Text))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve returns the bytes src refers to. Text sources may be data URIs, http(s) URLs,
// file:// URLs or bare paths. When inline is true, text that is none of those is
// returned as-is (OBJ content pasted or read as text).
func Resolve(ctx context.Context, src sceneobj.Source, fetch Fetcher, inline bool) ([]byte, error) {
	if src.IsBinary() {
		return src.Binary, nil
	}
	s := strings.TrimSpace(src.Text)
	switch {
	case s == "":
		return nil, ErrEmpty
	case strings.HasPrefix(s, "data:"):
		data, _, err := DecodeDataURI(s)
		return data, err
	case IsRemote(src):
		if fetch == nil {
			return nil, fmt.Errorf("%w: no fetcher for %s", ErrUnsupported, s)
		}
		return fetch(ctx, s)
	case strings.HasPrefix(s, "file://"):
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		return readFile(u.Path)
	case inline && strings.ContainsAny(s, "\n "):
		return []byte(src.Text), nil
	}
	return readFile(s)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return data, nil
}

// DecodeDataURI parses "data:[<mediatype>][;base64],<data>" and returns the payload and
// media type. A missing media type reads as text/plain.
func DecodeDataURI(s string) ([]byte, string, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("assets: data URI: %w", err)
	}
	return du.Data, du.ContentType(), nil
}
