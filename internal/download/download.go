// Package download fetches remote media for the editor: panoramas, imported images,
// videos, audio and models given by URL.
package download

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"

// MaxSize caps a single fetch.
const MaxSize = 256 << 20

// Client is the HTTP client used by Fetch and Download.
var Client = &http.Client{Timeout: 60 * time.Second}

// Fetch returns the body of url.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	data, _, err := fetch(ctx, url)
	return data, err
}

func fetch(ctx context.Context, url string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	if len(data) > MaxSize {
		return nil, nil, fmt.Errorf("download: %s: larger than %d bytes", url, MaxSize)
	}
	return data, resp.Header, nil
}

// Download fetches url and saves it under destDir. The filename comes from
// Content-Disposition or the URL path. A name without a known media extension gets one
// from Content-Type or, failing that, from the content itself. destDir is created if
// needed.
func Download(ctx context.Context, url string, destDir string) (savedPath string, err error) {
	data, hdr, err := fetch(ctx, url)
	if err != nil {
		return "", err
	}
	name := dispositionName(hdr.Get("Content-Disposition"))
	if name == "" {
		name = urlName(url)
	}
	ext := strings.ToLower(path.Ext(name))
	if !knownExts[ext] {
		if ext = typeExts[mediaType(hdr.Get("Content-Type"))]; ext == "" {
			ext = sniffExt(data)
		}
		name += ext
	}
	savedPath = filepath.Join(destDir, safeName(name))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.WriteFile(savedPath, data, 0o644); err != nil {
		_ = os.Remove(savedPath)
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

var knownExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
	".mp4": true, ".webm": true, ".mp3": true, ".wav": true, ".ogg": true,
	".glb": true, ".gltf": true, ".obj": true, ".stl": true, ".ttf": true, ".otf": true,
	".cyb": true, ".zip": true,
}

var typeExts = map[string]string{
	"image/png":         ".png",
	"image/jpeg":        ".jpg",
	"image/gif":         ".gif",
	"image/webp":        ".webp",
	"image/bmp":         ".bmp",
	"video/mp4":         ".mp4",
	"video/webm":        ".webm",
	"audio/mpeg":        ".mp3",
	"audio/wav":         ".wav",
	"audio/x-wav":       ".wav",
	"audio/ogg":         ".ogg",
	"model/gltf-binary": ".glb",
	"model/gltf+json":   ".gltf",
	"model/obj":         ".obj",
	"model/stl":         ".stl",
	"font/ttf":          ".ttf",
	"font/otf":          ".otf",
	"application/zip":   ".zip",
}

// dispositionName returns the filename parameter of a Content-Disposition header,
// including the RFC 2231 filename* form.
func dispositionName(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return path.Base(params["filename"])
}

func mediaType(ct string) string {
	t, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return t
}

func sniffExt(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ".bin"
	}
	return "." + kind.Extension
}

// urlName is the last path segment of rawURL.
func urlName(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	return path.Base(u.Path)
}

// safeName maps every byte outside [A-Za-z0-9_.-] to '_' and bounds the length.
func safeName(name string) string {
	name = strings.TrimLeft(name, ".")
	if name == "" || strings.HasPrefix(name, "/") {
		return "download"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		}
		return '_'
	}, name)
	if len(name) > 96 {
		ext := path.Ext(name)
		name = name[:96-len(ext)] + ext
	}
	return name
}
