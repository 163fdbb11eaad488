package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestSearchCandidates(t *testing.T) {
	got := SearchCandidates("Inter/Inter-Regular.ttf")
	assert.Equal(t, []string{"Inter/Inter-Regular.ttf", "Inter/Inter-Regular", "Inter"}, got)
	assert.Equal(t, []string{"Roboto"}, SearchCandidates("Roboto"))
	assert.Equal(t, []string{"Open Sans-Bold.otf", "Open Sans-Bold", "Open Sans"}, SearchCandidates(" Open Sans-Bold.otf "))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Go"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Go", "Go-Regular.TTF"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	list, err := ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go/Go-Regular.TTF"}, list)

	list, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindFontPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Go"), 0o755))
	for _, name := range []string{"Go-Bold.ttf", "Go-Regular.ttf", "Go-BoldItalic.ttf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Go", name), goregular.TTF, 0o644))
	}
	saved := Dirs
	Dirs = []string{dir}
	t.Cleanup(func() { Dirs = saved })

	rel, full, err := FindFont("go")
	require.NoError(t, err)
	assert.Equal(t, "Go/Go-Regular.ttf", rel)
	assert.Equal(t, filepath.Join(dir, "Go", "Go-Regular.ttf"), full)

	rel, _, err = FindFont("go bold")
	require.NoError(t, err)
	assert.Equal(t, "Go/Go-Bold.ttf", rel)

	f, err := Load("Go/Go-Regular.ttf")
	require.NoError(t, err)
	assert.Equal(t, "Go/Go-Regular.ttf", f.Name)
}

func TestFindFontMissing(t *testing.T) {
	_, _, err := FindFont("definitely-not-installed-font")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, _, err = FindFont(" ")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("definitely-not-installed-font")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("junk", []byte("not a font"))
	assert.Error(t, err)
}

func TestOutlines(t *testing.T) {
	f := Default()
	shapes, err := f.Outlines("o", 1.5, 12)
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Len(t, shapes[0], 2, "outer ring and counter")
	for _, c := range shapes[0] {
		assert.GreaterOrEqual(t, len(c), 3)
		for _, p := range c {
			assert.GreaterOrEqual(t, p.Y(), float32(-0.1))
			assert.Less(t, p.Y(), float32(1.5))
		}
	}
}

func TestOutlinesAdvanceAndNewline(t *testing.T) {
	f := Default()
	shapes, err := f.Outlines("l l", 1, 4)
	require.NoError(t, err)
	require.Len(t, shapes, 2, "spaces have no contours")
	assert.Greater(t, minX(shapes[1]), minX(shapes[0]))

	shapes, err = f.Outlines("l\nl", 1, 4)
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.InDelta(t, minX(shapes[0]), minX(shapes[1]), 1e-5)
	assert.Less(t, maxY(shapes[1]), maxY(shapes[0]))
}

func minX(s Shape) float32 {
	m := float32(1e9)
	for _, c := range s {
		for _, p := range c {
			m = min(m, p.X())
		}
	}
	return m
}

func maxY(s Shape) float32 {
	m := float32(-1e9)
	for _, c := range s {
		for _, p := range c {
			m = max(m, p.Y())
		}
	}
	return m
}
