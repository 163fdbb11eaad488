package assets

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/fonts"
	"scene-editor/internal/scene"
)

// Text extrusion defaults, used when the 3DText primitive definition leaves them out.
const (
	TextSize          = 1.5
	TextDepth         = 0.6
	TextCurveSegments = 12
)

// Bevel rounds the rim of extruded text. The caps sit Thickness in front of and behind
// the extrusion, and the sides bulge out by Size, over Segments steps on each side.
type Bevel struct {
	Thickness float32
	Size      float32
	Segments  int
}

// DefaultBevel is the bevel of 3D text objects.
var DefaultBevel = Bevel{Thickness: 0.1, Size: 0.05, Segments: 4}

func (b Bevel) enabled() bool {
	return b.Segments > 0 && (b.Thickness > 0 || b.Size > 0)
}

// layer is one ring of the side surface: contour points pushed out by grow along their
// miter vectors, at depth z.
type layer struct {
	z, grow float32
}

// layers lists the side rings from the back cap to the front cap.
func (b Bevel) layers(depth float32) []layer {
	if !b.enabled() {
		return []layer{{0, 0}, {depth, 0}}
	}
	out := make([]layer, 0, 2*(b.Segments+1))
	for i := 0; i <= b.Segments; i++ {
		t := float32(i) / float32(b.Segments) * math32.Pi / 2
		out = append(out, layer{-b.Thickness * math32.Cos(t), b.Size * math32.Sin(t)})
	}
	for i := b.Segments; i >= 0; i-- {
		t := float32(i) / float32(b.Segments) * math32.Pi / 2
		out = append(out, layer{depth + b.Thickness*math32.Cos(t), b.Size * math32.Sin(t)})
	}
	return out
}

// TextGeometry extrudes the outlines of text along +z by depth, bevels the rim and
// centers the result on its bounding box. Blank text, or text the font has no glyphs
// for, is ErrEmpty.
func TextGeometry(f *fonts.Font, text string, size, depth float32, curveSegments int, bevel Bevel) (*scene.Geometry, error) {
	if f == nil {
		return nil, ErrNoFont
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	shapes, err := f.Outlines(text, size, curveSegments)
	if err != nil {
		return nil, err
	}
	e := extruder{layers: bevel.layers(depth)}
	for _, s := range shapes {
		for _, p := range polygons(s) {
			e.polygon(p)
		}
	}
	if len(e.geo.Indices) == 0 {
		return nil, ErrEmpty
	}
	e.geo.Center()
	return &e.geo, nil
}

type extruder struct {
	geo    scene.Geometry
	layers []layer
}

func (e *extruder) vertex(p mgl32.Vec2, z float32, n mgl32.Vec3) uint32 {
	i := uint32(e.geo.VertexCount())
	e.geo.Positions = append(e.geo.Positions, p.X(), p.Y(), z)
	e.geo.Normals = append(e.geo.Normals, n[0], n[1], n[2])
	return i
}

func (e *extruder) polygon(p polygon) {
	pts, tris := triangulate(p)
	if len(tris) == 0 {
		return
	}
	back, front := e.layers[0].z, e.layers[len(e.layers)-1].z
	fi := make([]uint32, len(pts))
	bi := make([]uint32, len(pts))
	for i, v := range pts {
		fi[i] = e.vertex(v, front, mgl32.Vec3{0, 0, 1})
		bi[i] = e.vertex(v, back, mgl32.Vec3{0, 0, -1})
	}
	for t := 0; t < len(tris); t += 3 {
		a, b, c := tris[t], tris[t+1], tris[t+2]
		e.geo.Indices = append(e.geo.Indices, fi[a], fi[b], fi[c], bi[a], bi[c], bi[b])
	}
	e.sides(p.outer)
	for _, h := range p.holes {
		e.sides(h)
	}
}

// sides adds one flat-shaded quad per contour edge and pair of adjacent layers. Outers
// wind counter-clockwise and holes clockwise, so (dy, -dx) always points away from the
// solid.
func (e *extruder) sides(c fonts.Contour) {
	c = distinct(c)
	if len(c) < 3 {
		return
	}
	off := miters(c)
	at := func(i int, l layer) mgl32.Vec3 {
		p := c[i].Add(off[i].Mul(l.grow))
		return mgl32.Vec3{p.X(), p.Y(), l.z}
	}
	for k := 0; k+1 < len(e.layers); k++ {
		l0, l1 := e.layers[k], e.layers[k+1]
		for i := range c {
			j := (i + 1) % len(c)
			a0, b0, b1, a1 := at(i, l0), at(j, l0), at(j, l1), at(i, l1)
			n := b1.Sub(a0).Cross(a1.Sub(b0))
			if n.Len() == 0 {
				continue
			}
			n = n.Normalize()
			ia0, ib0 := e.vertex3(a0, n), e.vertex3(b0, n)
			ib1, ia1 := e.vertex3(b1, n), e.vertex3(a1, n)
			e.geo.Indices = append(e.geo.Indices, ia0, ib0, ib1, ia0, ib1, ia1)
		}
	}
}

func (e *extruder) vertex3(p, n mgl32.Vec3) uint32 {
	return e.vertex(mgl32.Vec2{p.X(), p.Y()}, p.Z(), n)
}

// distinct drops repeated consecutive points, including a closing point equal to the
// first.
func distinct(c fonts.Contour) fonts.Contour {
	out := make(fonts.Contour, 0, len(c))
	for _, p := range c {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// maxMiter caps how far a sharp corner is pushed out, in units of the bevel size.
const maxMiter = 2

// miters returns, per vertex, the offset that moves both adjacent edges outward by one
// unit.
func miters(c fonts.Contour) []mgl32.Vec2 {
	normal := func(a, b mgl32.Vec2) mgl32.Vec2 {
		d := b.Sub(a)
		return mgl32.Vec2{d.Y(), -d.X()}.Normalize()
	}
	out := make([]mgl32.Vec2, len(c))
	for i := range c {
		prev, next := c[(i+len(c)-1)%len(c)], c[(i+1)%len(c)]
		n1, n2 := normal(prev, c[i]), normal(c[i], next)
		k := 1 + n1.Dot(n2)
		if k < epsilon {
			out[i] = n1
			continue
		}
		m := n1.Add(n2).Mul(1 / k)
		if l := m.Len(); l > maxMiter {
			m = m.Mul(maxMiter / l)
		}
		out[i] = m
	}
	return out
}
