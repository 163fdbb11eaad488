package primitives

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefs(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []string{"Cube", "Sphere", "Pyramid", "Cylinder", "Plane"} {
		g, err := r.Geometry(kind)
		require.NoError(t, err, kind)
		assert.Positive(t, g.TriangleCount(), kind)
		assert.Len(t, g.Normals, len(g.Positions), kind)
	}
	d, ok := r.Def("3DText")
	require.True(t, ok)
	assert.Equal(t, float32(0.1), d.Roughness)

	plane, _ := r.Def("Plane")
	assert.False(t, plane.CastShadow)

	_, err := r.Geometry("3DText")
	assert.Error(t, err)
	_, err = r.Geometry("Teapot")
	assert.Error(t, err)
}

func TestMergeOverrides(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Merge([]byte("- type: Sphere\n  shape: sphere\n  size: [2]\n  segments: [8, 4]\n")))
	g, err := r.Geometry("Sphere")
	require.NoError(t, err)
	assert.Equal(t, 9*5, g.VertexCount())
	assert.InDelta(t, 4, g.BoundingBox().Size().Y(), 1e-4)

	assert.Error(t, r.Merge([]byte("- shape: box\n")))
}

func TestBoxBounds(t *testing.T) {
	g := Box(1, 2, 3)
	assert.Equal(t, 24, g.VertexCount())
	assert.Equal(t, 12, g.TriangleCount())
	size := g.BoundingBox().Size()
	assert.InDelta(t, 1, size.X(), 1e-6)
	assert.InDelta(t, 2, size.Y(), 1e-6)
	assert.InDelta(t, 3, size.Z(), 1e-6)
}

func TestBoxFacesPointOutward(t *testing.T) {
	g := Box(1, 1, 1)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		pa, pb, pc := g.Vertex(a), g.Vertex(b), g.Vertex(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		center := pa.Add(pb).Add(pc).Mul(1.0 / 3)
		assert.Positive(t, n.Dot(center), "triangle %d winds inward", i)
	}
}

func TestSphereCounts(t *testing.T) {
	g := Sphere(0.5, 32, 16)
	assert.Equal(t, 33*17, g.VertexCount())
	assert.Equal(t, 32*2+32*14*2, g.TriangleCount())
	assert.InDelta(t, 1, g.BoundingBox().Size().Y(), 1e-5)
}

func TestPyramidIsFourSidedCone(t *testing.T) {
	g := Cone(0.5, 1, 4)
	// four side triangles plus four bottom cap triangles
	assert.Equal(t, 8, g.TriangleCount())
	box := g.BoundingBox()
	assert.InDelta(t, 0.5, box.Max.Y(), 1e-6)
	assert.InDelta(t, -0.5, box.Min.Y(), 1e-6)
}

func TestCylinderCaps(t *testing.T) {
	g := Cylinder(0.5, 0.5, 1, 32)
	assert.Equal(t, 32*2+32*2, g.TriangleCount())
}

func TestPlaneLayout(t *testing.T) {
	g := Plane(100, 100, 50, 50)
	assert.Equal(t, 51*51, g.VertexCount())
	assert.Equal(t, 50*50*2, g.TriangleCount())
	assert.Equal(t, mgl32.Vec3{-50, 50, 0}, g.Vertex(0))
	assert.Equal(t, mgl32.Vec3{50, -50, 0}, g.Vertex(51*51-1))
}
