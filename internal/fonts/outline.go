package fonts

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Font is a parsed outline font.
type Font struct {
	Name string
	sf   *sfnt.Font
}

// Parse reads a TrueType or OpenType font.
func Parse(name string, data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse %s: %w", name, err)
	}
	return &Font{Name: name, sf: sf}, nil
}

// Default returns the embedded Go Regular font.
func Default() *Font {
	f, err := Parse("Go Regular", goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

// Load finds a font by name under Dirs, trying SearchCandidates in order.
func Load(search string) (*Font, error) {
	for _, term := range SearchCandidates(search) {
		rel, full, err := FindFont(term)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("fonts: %w", err)
		}
		return Parse(rel, data)
	}
	return nil, fmt.Errorf("fonts: %q: %w", search, os.ErrNotExist)
}

// Contour is a closed polygon; the last point is not repeated.
type Contour []mgl32.Vec2

// Shape is the set of contours of one glyph. Holes are not marked; callers classify
// them by containment since TrueType and CFF wind in opposite directions.
type Shape []Contour

// Outlines lays out text left to right starting at the origin, y up, with the em
// scaled to size. Curves are flattened into curveSegments lines. Newlines start a
// new line below. Runes the font lacks are skipped.
func (f *Font) Outlines(text string, size float32, curveSegments int) ([]Shape, error) {
	var b sfnt.Buffer
	upem := f.sf.UnitsPerEm()
	ppem := fixed.Int26_6(upem) << 6
	scale := size / float32(upem)
	metrics, err := f.sf.Metrics(&b, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fonts: metrics: %w", err)
	}
	lineHeight := float32(metrics.Height) / 64 * scale

	var (
		shapes []Shape
		pen    mgl32.Vec2
		prev   sfnt.GlyphIndex
	)
	for _, r := range norm.NFC.String(text) {
		if r == '\n' {
			pen = mgl32.Vec2{0, pen.Y() - lineHeight}
			prev = 0
			continue
		}
		idx, err := f.sf.GlyphIndex(&b, r)
		if err != nil || idx == 0 {
			continue
		}
		if prev != 0 {
			if k, err := f.sf.Kern(&b, prev, idx, ppem, font.HintingNone); err == nil {
				pen[0] += float32(k) / 64 * scale
			}
		}
		segs, err := f.sf.LoadGlyph(&b, idx, ppem, nil)
		if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
			return nil, fmt.Errorf("fonts: glyph %q: %w", r, err)
		}
		if s := flatten(segs, pen, scale, curveSegments); len(s) > 0 {
			shapes = append(shapes, s)
		}
		adv, err := f.sf.GlyphAdvance(&b, idx, ppem, font.HintingNone)
		if err == nil {
			pen[0] += float32(adv) / 64 * scale
		}
		prev = idx
	}
	return shapes, nil
}

// flatten converts sfnt segments (y down, 26.6) into y-up contours offset by pen.
func flatten(segs sfnt.Segments, pen mgl32.Vec2, scale float32, n int) Shape {
	var (
		shape Shape
		cur   Contour
		last  mgl32.Vec2
	)
	pt := func(p fixed.Point26_6) mgl32.Vec2 {
		return mgl32.Vec2{pen.X() + float32(p.X)/64*scale, pen.Y() - float32(p.Y)/64*scale}
	}
	closeContour := func() {
		if len(cur) > 1 && cur[0].ApproxEqual(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 3 {
			shape = append(shape, cur)
		}
		cur = nil
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			last = pt(s.Args[0])
			cur = Contour{last}
		case sfnt.SegmentOpLineTo:
			last = pt(s.Args[0])
			cur = append(cur, last)
		case sfnt.SegmentOpQuadTo:
			c, p := pt(s.Args[0]), pt(s.Args[1])
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				cur = append(cur, last.Mul(u*u).Add(c.Mul(2*u*t)).Add(p.Mul(t*t)))
			}
			last = p
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2])
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				cur = append(cur, last.Mul(u*u*u).Add(c1.Mul(3*u*u*t)).Add(c2.Mul(3*u*t*t)).Add(p.Mul(t*t*t)))
			}
			last = p
		}
	}
	closeContour()
	return shape
}
