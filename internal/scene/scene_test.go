package scene

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *Geometry {
	return &Geometry{
		Positions: []float32{-0.5, -0.5, 0, 0.5, -0.5, 0, 0.5, 0.5, 0, -0.5, 0.5, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	a.AddChild(b)
	assert.Panics(t, func() { b.AddChild(a) })
	assert.Panics(t, func() { a.AddChild(a) })
}

func TestReparent(t *testing.T) {
	a, b, c := NewGroup(), NewGroup(), NewGroup()
	a.AddChild(c)
	b.AddChild(c)
	assert.Empty(t, a.Children())
	assert.Equal(t, b, c.Parent())
}

func TestWorldMatrix(t *testing.T) {
	parent := NewGroup()
	parent.Position = mgl32.Vec3{1, 0, 0}
	parent.Scale = mgl32.Vec3{2, 2, 2}
	child := NewGroup()
	child.Position = mgl32.Vec3{0, 1, 0}
	parent.AddChild(child)

	p := child.WorldPosition()
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
}

func TestEulerOrder(t *testing.T) {
	m := EulerMatrix(mgl32.Vec3{0, math.Pi / 2, 0})
	v := mgl32.TransformNormal(mgl32.Vec3{1, 0, 0}, m)
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, -1, v.Z(), 1e-5)
}

func TestDisposeKeepsSharedTexture(t *testing.T) {
	shared := &Texture{Image: image.NewRGBA(image.Rect(0, 0, 2, 2)), Shared: true}
	owned := NewTexture(image.NewRGBA(image.Rect(0, 0, 2, 2)))

	root := NewGroup()
	a := NewMesh(quad(), &Material{Map: shared})
	b := NewMesh(quad(), &Material{Map: owned})
	root.AddChild(a)
	root.AddChild(b)

	holder := NewGroup()
	holder.AddChild(root)
	root.Dispose()

	assert.Nil(t, root.Parent())
	assert.Empty(t, holder.Children())
	assert.True(t, a.Geometry.Disposed())
	assert.True(t, b.Material.Disposed())
	assert.False(t, shared.Disposed())
	assert.NotNil(t, shared.Image)
	assert.True(t, owned.Disposed())
}

func TestComputeVertexNormals(t *testing.T) {
	g := quad()
	v := g.Version
	g.ComputeVertexNormals()
	require.Len(t, g.Normals, 12)
	assert.InDelta(t, 1, g.Normals[2], 1e-6)
	assert.Greater(t, g.Version, v)
}

func TestCenter(t *testing.T) {
	g := quad()
	g.Translate(mgl32.Vec3{3, 4, 5})
	g.Center()
	c := g.BoundingBox().Center()
	assert.InDelta(t, 0, c.Len(), 1e-5)
}

func TestRayTriangle(t *testing.T) {
	r := NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	d, ok := r.IntersectTriangle(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-5)

	_, ok = r.IntersectTriangle(mgl32.Vec3{2, 2, 0}, mgl32.Vec3{3, 2, 0}, mgl32.Vec3{2, 3, 0})
	assert.False(t, ok)
}

func TestRayBox(t *testing.T) {
	b := Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	d, ok := NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}).IntersectBox(b)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-5)
	_, ok = NewRay(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, 0, -1}).IntersectBox(b)
	assert.False(t, ok)
}

func TestRaycastNearestFirst(t *testing.T) {
	near := NewMesh(quad(), NewBasic(colorful.Color{}))
	near.Position = mgl32.Vec3{0, 0, 1}
	far := NewMesh(quad(), NewBasic(colorful.Color{}))
	hidden := NewMesh(quad(), NewBasic(colorful.Color{}))
	hidden.Position = mgl32.Vec3{0, 0, 2}
	hidden.Visible = false

	rc := Raycaster{Ray: NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})}
	hits := rc.IntersectNodes([]*Node{far, near, hidden})
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Node)
	assert.InDelta(t, 9, hits[0].Distance, 1e-4)
}

func TestRaycastScaledMesh(t *testing.T) {
	m := NewMesh(quad(), NewBasic(colorful.Color{}))
	m.Scale = mgl32.Vec3{4, 4, 1}
	rc := Raycaster{Ray: NewRay(mgl32.Vec3{1.5, 1.5, 3}, mgl32.Vec3{0, 0, -1})}
	hits := rc.IntersectNodes([]*Node{m})
	require.Len(t, hits, 1)
	assert.InDelta(t, 3, hits[0].Distance, 1e-4)
}

func TestRaycastSprite(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{0, 0, 10}
	s := NewSprite(&Material{Kind: SpriteMaterial})
	rc := Raycaster{Ray: NewRay(cam.Position, mgl32.Vec3{0, 0, -1}), Camera: cam}
	hits := rc.IntersectNodes([]*Node{s})
	require.Len(t, hits, 1)
	assert.InDelta(t, 10, hits[0].Distance, 1e-4)
}

func TestCameraCenterRay(t *testing.T) {
	cam := NewCamera()
	r := cam.RayFromNDC(0, 0)
	want := cam.Target.Sub(cam.Position).Normalize()
	assert.InDelta(t, 1, r.Dir.Dot(want), 1e-4)
}

func TestPointerToNDC(t *testing.T) {
	x, y := PointerToNDC(0, 0, 800, 600)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)
	x, y = PointerToNDC(400, 300, 800, 600)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y)
}

func TestOrbitDamping(t *testing.T) {
	cam := NewCamera()
	oc := NewOrbitControls(cam)
	dist := cam.Position.Sub(cam.Target).Len()

	oc.Rotate(0.5, 0)
	first := cam.Position
	assert.True(t, oc.Update(1.0/60))
	step1 := cam.Position.Sub(first).Len()
	second := cam.Position
	oc.Update(1.0 / 60)
	step2 := cam.Position.Sub(second).Len()

	assert.Less(t, step2, step1, "motion decays")
	assert.InDelta(t, dist, cam.Position.Sub(cam.Target).Len(), 1e-3)
}

func TestOrbitDisabledIgnoresInput(t *testing.T) {
	cam := NewCamera()
	oc := NewOrbitControls(cam)
	oc.Enabled = false
	oc.Rotate(1, 1)
	before := cam.Position
	oc.Update(1.0 / 60)
	assert.InDelta(t, 0, cam.Position.Sub(before).Len(), 1e-5)
}

func TestFocusTween(t *testing.T) {
	cam := NewCamera()
	oc := NewOrbitControls(cam)
	oc.FocusOn(mgl32.Vec3{2, 0, 0}, 0.5)
	require.True(t, oc.Focusing())
	for range 60 {
		oc.Update(1.0 / 60)
	}
	assert.False(t, oc.Focusing())
	assert.InDelta(t, 2, cam.Target.X(), 1e-4)
}

func TestNewSceneDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, float32(0.8), s.Ambient.Intensity)
	assert.Equal(t, mgl32.Vec3{8, 15, 10}, s.Sun.Position)
	assert.Equal(t, 100, s.Grid.Divisions)
	assert.Empty(t, s.Entities())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#4A90E2")
	require.True(t, ok)
	r, g, b := c.RGB255()
	assert.Equal(t, [3]uint8{0x4a, 0x90, 0xe2}, [3]uint8{r, g, b})

	c, ok = ParseColor("fff")
	assert.True(t, ok)
	assert.Equal(t, White, c)

	_, ok = ParseColor("red")
	assert.False(t, ok)
}
