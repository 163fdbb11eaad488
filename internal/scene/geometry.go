package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is a vertex buffer set. Positions, Normals and Colors hold 3 floats per vertex,
// UVs hold 2. Indices may be nil for non-indexed triangle lists and point clouds.
// Version increases whenever the buffers change so the renderer knows to re-upload.
type Geometry struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32

	Version  uint64
	disposed bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// Vertex returns vertex i.
func (g *Geometry) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

// SetVertex writes vertex i.
func (g *Geometry) SetVertex(i int, v mgl32.Vec3) {
	g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2] = v[0], v[1], v[2]
}

// TriangleCount returns the number of triangles the geometry draws as a mesh.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return g.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	if g.Indices != nil {
		return int(g.Indices[3*i]), int(g.Indices[3*i+1]), int(g.Indices[3*i+2])
	}
	return 3 * i, 3*i + 1, 3*i + 2
}

// MarkDirty flags the buffers for re-upload.
func (g *Geometry) MarkDirty() { g.Version++ }

// Dispose drops the buffers. Disposing twice is harmless.
func (g *Geometry) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.Positions, g.Normals, g.UVs, g.Colors, g.Indices = nil, nil, nil, nil, nil
	g.Version++
}

// Disposed reports whether Dispose was called.
func (g *Geometry) Disposed() bool { return g.disposed }

// Clone returns a deep copy with its own version counter.
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Positions: slices.Clone(g.Positions),
		Normals:   slices.Clone(g.Normals),
		UVs:       slices.Clone(g.UVs),
		Colors:    slices.Clone(g.Colors),
		Indices:   slices.Clone(g.Indices),
	}
}

// BoundingBox returns the local-space box of all vertices.
func (g *Geometry) BoundingBox() Box3 {
	box := EmptyBox()
	for i := 0; i < g.VertexCount(); i++ {
		box = box.ExpandByPoint(g.Vertex(i))
	}
	return box
}

// Translate moves every vertex by d.
func (g *Geometry) Translate(d mgl32.Vec3) {
	for i := 0; i < g.VertexCount(); i++ {
		g.SetVertex(i, g.Vertex(i).Add(d))
	}
	g.MarkDirty()
}

// Center translates the geometry so its bounding box is centered on the origin.
func (g *Geometry) Center() {
	box := g.BoundingBox()
	if box.IsEmpty() {
		return
	}
	g.Translate(box.Center().Mul(-1))
}

// ComputeVertexNormals recomputes smooth normals by accumulating area-weighted face normals.
func (g *Geometry) ComputeVertexNormals() {
	n := g.VertexCount()
	if len(g.Normals) != 3*n {
		g.Normals = make([]float32, 3*n)
	} else {
		clear(g.Normals)
	}
	for t := 0; t < g.TriangleCount(); t++ {
		ia, ib, ic := g.Triangle(t)
		a, b, c := g.Vertex(ia), g.Vertex(ib), g.Vertex(ic)
		face := b.Sub(a).Cross(c.Sub(a))
		for _, i := range [3]int{ia, ib, ic} {
			g.Normals[3*i] += face[0]
			g.Normals[3*i+1] += face[1]
			g.Normals[3*i+2] += face[2]
		}
	}
	for i := 0; i < n; i++ {
		v := mgl32.Vec3{g.Normals[3*i], g.Normals[3*i+1], g.Normals[3*i+2]}
		if l := v.Len(); l > 0 {
			v = v.Mul(1 / l)
		}
		g.Normals[3*i], g.Normals[3*i+1], g.Normals[3*i+2] = v[0], v[1], v[2]
	}
	g.MarkDirty()
}

// Merge appends the buffers of o transformed by m into g. Used by exporters and the
// text builder to flatten several parts into one buffer set.
func (g *Geometry) Merge(o *Geometry, m mgl32.Mat4) {
	base := uint32(g.VertexCount())
	if g.Indices == nil && base > 0 {
		g.Indices = make([]uint32, base)
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}
	normal := m.Mat3().Inv().Transpose()
	for i := 0; i < o.VertexCount(); i++ {
		p := mgl32.TransformCoordinate(o.Vertex(i), m)
		g.Positions = append(g.Positions, p[0], p[1], p[2])
		if len(o.Normals) == len(o.Positions) {
			nv := normal.Mul3x1(mgl32.Vec3{o.Normals[3*i], o.Normals[3*i+1], o.Normals[3*i+2]}).Normalize()
			g.Normals = append(g.Normals, nv[0], nv[1], nv[2])
		}
		if len(o.UVs) == 2*o.VertexCount() {
			g.UVs = append(g.UVs, o.UVs[2*i], o.UVs[2*i+1])
		}
	}
	for t := 0; t < o.TriangleCount(); t++ {
		a, b, c := o.Triangle(t)
		g.Indices = append(g.Indices, base+uint32(a), base+uint32(b), base+uint32(c))
	}
	// A part without normals or UVs leaves the merged buffers misaligned; drop them.
	if len(g.Normals) != len(g.Positions) {
		g.Normals = nil
	}
	if len(g.UVs) != 2*g.VertexCount() {
		g.UVs = nil
	}
	g.MarkDirty()
}
