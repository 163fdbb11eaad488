// Package archive reads zip bundles of media dropped into the editor, such as a model
// shipped together with its textures.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxEntrySize bounds the uncompressed size of one extracted file.
const MaxEntrySize = 256 << 20

// ErrTooLarge is returned for an entry bigger than MaxEntrySize.
var ErrTooLarge = errors.New("archive: entry too large")

// Entry is one regular file of a bundle.
type Entry struct {
	// Name is the slash-separated path inside the bundle.
	Name string
	Data []byte
}

// IsZip reports whether data starts with a zip local file header.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// Entries returns the regular files of the zip in data, in archive order. Directories,
// hidden files, macOS resource forks and names escaping the bundle root are skipped.
func Entries(data []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, zip.ErrInsecurePath) {
		err = nil // unsafe names are filtered per entry
	}
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	var out []Entry
	for _, f := range r.File {
		name, ok := clean(f.Name)
		if !ok || f.FileInfo().IsDir() {
			continue
		}
		if f.UncompressedSize64 > MaxEntrySize {
			return nil, fmt.Errorf("%w: %s", ErrTooLarge, name)
		}
		b, err := read(f)
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", name, err)
		}
		out = append(out, Entry{Name: name, Data: b})
	}
	return out, nil
}

func read(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxEntrySize {
		return nil, ErrTooLarge
	}
	return b, nil
}

// clean normalizes a zip entry name and rejects the ones to skip.
func clean(name string) (string, bool) {
	name = path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || part == "__MACOSX" {
			return "", false
		}
	}
	return name, true
}
