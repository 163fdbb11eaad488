package assets

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/fonts"
)

const epsilon = 1e-9

// polygon is an outer contour wound counter-clockwise plus its holes wound clockwise.
type polygon struct {
	outer fonts.Contour
	holes []fonts.Contour
}

func signedArea(c fonts.Contour) float32 {
	var a float32
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a / 2
}

func reversed(c fonts.Contour) fonts.Contour {
	out := slices.Clone(c)
	slices.Reverse(out)
	return out
}

func inside(c fonts.Contour, p mgl32.Vec2) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) &&
			p.X() < (b.X()-a.X())*(p.Y()-a.Y())/(b.Y()-a.Y())+a.X() {
			in = !in
		}
	}
	return in
}

// polygons groups the contours of a glyph by nesting depth: contours inside an even
// number of others are outlines, the rest are holes of the smallest outline around them.
func polygons(shape fonts.Shape) []polygon {
	depth := make([]int, len(shape))
	for i, c := range shape {
		for j, o := range shape {
			if i != j && inside(o, c[0]) {
				depth[i]++
			}
		}
	}
	var (
		out   []polygon
		index = make(map[int]int)
	)
	for i, c := range shape {
		if depth[i]%2 != 0 {
			continue
		}
		if signedArea(c) < 0 {
			c = reversed(c)
		}
		index[i] = len(out)
		out = append(out, polygon{outer: c})
	}
	for i, c := range shape {
		if depth[i]%2 == 0 {
			continue
		}
		parent, best := -1, float32(0)
		for j, o := range shape {
			if depth[j] != depth[i]-1 || !inside(o, c[0]) {
				continue
			}
			if a := abs(signedArea(o)); parent < 0 || a < best {
				parent, best = j, a
			}
		}
		if parent < 0 {
			continue
		}
		if signedArea(c) > 0 {
			c = reversed(c)
		}
		p := &out[index[parent]]
		p.holes = append(p.holes, c)
	}
	return out
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func cross(o, a, b mgl32.Vec2) float32 {
	return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
}

func inTriangle(p, a, b, c mgl32.Vec2) bool {
	return cross(a, b, p) >= -epsilon && cross(b, c, p) >= -epsilon && cross(c, a, p) >= -epsilon
}

// triangulate returns the vertices of p (outer first, then each hole) and the triangles
// covering its area, wound counter-clockwise.
func triangulate(p polygon) ([]mgl32.Vec2, []uint32) {
	pts := slices.Clone(p.outer)
	ring := make([]int, len(p.outer))
	for i := range ring {
		ring[i] = i
	}
	holes := slices.Clone(p.holes)
	slices.SortFunc(holes, func(a, b fonts.Contour) int {
		ax, bx := a[rightmost(a)].X(), b[rightmost(b)].X()
		switch {
		case ax > bx:
			return -1
		case ax < bx:
			return 1
		}
		return 0
	})
	for _, h := range holes {
		base := len(pts)
		pts = append(pts, h...)
		ring = bridge(pts, ring, base, len(h))
	}
	return pts, earClip(pts, ring)
}

func rightmost(c fonts.Contour) int {
	best := 0
	for i, p := range c {
		if p.X() > c[best].X() {
			best = i
		}
	}
	return best
}

// bridge splices the hole stored at pts[base:base+n] into ring through a pair of
// mutually visible vertices: the hole's rightmost vertex and the ring vertex found by
// casting a ray toward +x.
func bridge(pts []mgl32.Vec2, ring []int, base, n int) []int {
	mi := base + rightmost(fonts.Contour(pts[base:base+n]))
	m := pts[mi]

	hit, hitX := -1, float32(0)
	for i := range ring {
		a, b := pts[ring[i]], pts[ring[(i+1)%len(ring)]]
		if (a.Y() < m.Y() && b.Y() < m.Y()) || (a.Y() > m.Y() && b.Y() > m.Y()) || a.Y() == b.Y() {
			continue
		}
		x := a.X() + (m.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
		if x < m.X() || (hit >= 0 && x >= hitX) {
			continue
		}
		hitX = x
		if a.X() > b.X() {
			hit = i
		} else {
			hit = (i + 1) % len(ring)
		}
	}
	if hit < 0 {
		hit = 0
	}

	// A ring vertex inside the triangle (m, ray hit, candidate) would block the bridge;
	// take the blocking vertex closest in angle to the ray instead.
	cand := pts[ring[hit]]
	ray := mgl32.Vec2{hitX, m.Y()}
	bestCos := float32(-2)
	for i, ri := range ring {
		p := pts[ri]
		if i == hit || p.X() < m.X() {
			continue
		}
		if !inTriangle(p, m, ray, cand) && !inTriangle(p, m, cand, ray) {
			continue
		}
		d := p.Sub(m)
		if l := d.Len(); l > 0 {
			if c := d.X() / l; c > bestCos {
				bestCos, hit = c, i
			}
		}
	}

	out := make([]int, 0, len(ring)+n+2)
	out = append(out, ring[:hit+1]...)
	for k := 0; k <= n; k++ {
		out = append(out, base+(mi-base+k)%n)
	}
	out = append(out, ring[hit])
	return append(out, ring[hit+1:]...)
}

// earClip triangulates the counter-clockwise ring. When no ear is found (degenerate
// input) it clips the first vertex anyway, so it always terminates.
func earClip(pts []mgl32.Vec2, ring []int) []uint32 {
	ring = slices.Clone(ring)
	tris := make([]uint32, 0, 3*len(ring))
	emit := func(a, b, c int) {
		if cross(pts[a], pts[b], pts[c]) > epsilon {
			tris = append(tris, uint32(a), uint32(b), uint32(c))
		}
	}
	for len(ring) > 3 {
		n := len(ring)
		ear := -1
		for i := range ring {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if isEar(pts, ring, a, b, c) {
				ear = i
				break
			}
		}
		if ear < 0 {
			ear = 0
		}
		emit(ring[(ear+n-1)%n], ring[ear], ring[(ear+1)%n])
		ring = slices.Delete(ring, ear, ear+1)
	}
	if len(ring) == 3 {
		emit(ring[0], ring[1], ring[2])
	}
	return tris
}

func isEar(pts []mgl32.Vec2, ring []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if cross(pa, pb, pc) <= epsilon {
		return false
	}
	for _, i := range ring {
		p := pts[i]
		if i == a || i == b || i == c || p == pa || p == pb || p == pc {
			continue
		}
		if inTriangle(p, pa, pb, pc) {
			return false
		}
	}
	return true
}
