package primitives

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

type builder struct {
	g *scene.Geometry
}

func (b *builder) vertex(p, n mgl32.Vec3, u, v float32) uint32 {
	i := uint32(b.g.VertexCount())
	b.g.Positions = append(b.g.Positions, p[0], p[1], p[2])
	b.g.Normals = append(b.g.Normals, n[0], n[1], n[2])
	b.g.UVs = append(b.g.UVs, u, v)
	return i
}

func (b *builder) tri(a, c, d uint32) {
	b.g.Indices = append(b.g.Indices, a, c, d)
}

// Box returns an axis-aligned box centered on the origin with 4 vertices per face.
func Box(w, h, d float32) *scene.Geometry {
	b := builder{g: &scene.Geometry{}}
	// u axis, v axis, normal axis, with signs; one entry per face in +x, -x, +y, -y, +z, -z order.
	faces := []struct {
		u, v, n mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{-1, 0, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	}
	half := mgl32.Vec3{w / 2, h / 2, d / 2}
	scale := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}
	for _, f := range faces {
		center := scale(f.n)
		u, v := scale(f.u), scale(f.v)
		var idx [4]uint32
		for k, c := range [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
			p := center.Add(u.Mul(c[0])).Add(v.Mul(c[1]))
			idx[k] = b.vertex(p, f.n, (c[0]+1)/2, 1-(c[1]+1)/2)
		}
		b.tri(idx[0], idx[2], idx[1])
		b.tri(idx[2], idx[3], idx[1])
	}
	return b.g
}

// Sphere returns a UV sphere of the given radius.
func Sphere(radius float32, widthSegments, heightSegments int) *scene.Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	b := builder{g: &scene.Geometry{}}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := u * 2 * math32.Pi
			theta := v * math32.Pi
			p := mgl32.Vec3{
				-radius * math32.Cos(phi) * math32.Sin(theta),
				radius * math32.Cos(theta),
				radius * math32.Sin(phi) * math32.Sin(theta),
			}
			n := p.Normalize()
			if p.Len() == 0 {
				n = mgl32.Vec3{0, 1, 0}
			}
			row[ix] = b.vertex(p, n, u, 1-v)
		}
		grid[iy] = row
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			c := grid[iy][ix]
			d := grid[iy+1][ix]
			e := grid[iy+1][ix+1]
			if iy != 0 {
				b.tri(a, c, e)
			}
			if iy != heightSegments-1 {
				b.tri(c, d, e)
			}
		}
	}
	return b.g
}

// Cylinder returns a capped cylinder along Y centered on the origin. A zero radius
// skips that cap, which makes a cone.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int) *scene.Geometry {
	radialSegments = max(radialSegments, 3)
	b := builder{g: &scene.Geometry{}}
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	var rows [2][]uint32
	for iy := range 2 {
		v := float32(iy)
		r := v*(radiusBottom-radiusTop) + radiusTop
		row := make([]uint32, radialSegments+1)
		for ix := 0; ix <= radialSegments; ix++ {
			u := float32(ix) / float32(radialSegments)
			theta := u * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			p := mgl32.Vec3{r * sin, -v*height + half, r * cos}
			n := mgl32.Vec3{sin, slope, cos}.Normalize()
			row[ix] = b.vertex(p, n, u, 1-v)
		}
		rows[iy] = row
	}
	for ix := 0; ix < radialSegments; ix++ {
		a, c := rows[0][ix], rows[1][ix]
		d, e := rows[1][ix+1], rows[0][ix+1]
		if radiusTop > 0 {
			b.tri(a, c, e)
		}
		if radiusBottom > 0 {
			b.tri(c, d, e)
		}
	}
	if radiusTop > 0 {
		addCap(&b, radiusTop, half, radialSegments, true)
	}
	if radiusBottom > 0 {
		addCap(&b, radiusBottom, -half, radialSegments, false)
	}
	return b.g
}

func addCap(b *builder, radius, y float32, segments int, top bool) {
	sign := float32(-1)
	if top {
		sign = 1
	}
	n := mgl32.Vec3{0, sign, 0}
	centers := make([]uint32, segments)
	for ix := range segments {
		centers[ix] = b.vertex(mgl32.Vec3{0, y, 0}, n, 0.5, 0.5)
	}
	ring := make([]uint32, segments+1)
	for ix := 0; ix <= segments; ix++ {
		theta := float32(ix) / float32(segments) * 2 * math32.Pi
		sin, cos := math32.Sin(theta), math32.Cos(theta)
		ring[ix] = b.vertex(mgl32.Vec3{radius * sin, y, radius * cos}, n, cos*0.5+0.5, sin*0.5*sign+0.5)
	}
	for ix := range segments {
		if top {
			b.tri(ring[ix], ring[ix+1], centers[ix])
		} else {
			b.tri(ring[ix+1], ring[ix], centers[ix])
		}
	}
}

// Cone returns a cone along Y with its base centered at -height/2.
func Cone(radius, height float32, radialSegments int) *scene.Geometry {
	return Cylinder(0, radius, height, radialSegments)
}

// Plane returns a rectangle in the XY plane facing +Z. Vertices run row by row from the
// top edge, which the water effect relies on to recover grid coordinates.
func Plane(width, height float32, widthSegments, heightSegments int) *scene.Geometry {
	widthSegments = max(widthSegments, 1)
	heightSegments = max(heightSegments, 1)
	b := builder{g: &scene.Geometry{}}
	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)
	n := mgl32.Vec3{0, 0, 1}
	for iy := 0; iy <= heightSegments; iy++ {
		y := height/2 - float32(iy)*segH
		for ix := 0; ix <= widthSegments; ix++ {
			x := float32(ix)*segW - width/2
			b.vertex(mgl32.Vec3{x, y, 0}, n, float32(ix)/float32(widthSegments), 1-float32(iy)/float32(heightSegments))
		}
	}
	row := uint32(widthSegments + 1)
	for iy := uint32(0); iy < uint32(heightSegments); iy++ {
		for ix := uint32(0); ix < uint32(widthSegments); ix++ {
			a := ix + row*iy
			c := ix + row*(iy+1)
			d := ix + 1 + row*(iy+1)
			e := ix + 1 + row*iy
			b.tri(a, c, e)
			b.tri(c, d, e)
		}
	}
	return b.g
}
