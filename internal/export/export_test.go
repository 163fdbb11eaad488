package export

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/assets"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

func entities() []*scene.Node {
	a := scene.NewMesh(primitives.Box(1, 1, 1), scene.NewStandard(scene.HexColor("#ff0000"), 0.1, 0.5))
	a.Name = "first"
	b := scene.NewMesh(primitives.Box(2, 1, 1), scene.NewStandard(scene.HexColor("#00ff00"), 0.1, 0.5))
	b.Name = "second"
	b.SetTransform(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{0, math32.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	hidden := scene.NewMesh(primitives.Box(1, 1, 1), scene.NewBasic(scene.White))
	hidden.Position = mgl32.Vec3{100, 0, 0}
	hidden.Visible = false
	return []*scene.Node{a, b, hidden}
}

func assertBox(t *testing.T, want, got scene.Box3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want.Min[i], got.Min[i], 1e-4, "min %d", i)
		assert.InDelta(t, want.Max[i], got.Max[i], 1e-4, "max %d", i)
	}
}

var visibleBox = scene.Box3{Min: mgl32.Vec3{-0.5, -0.5, -1}, Max: mgl32.Vec3{5.5, 0.5, 1}}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"glb": GLB, "GLTF": GLB, " obj ": OBJ} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("fbx")
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, ".glb", GLB.Ext())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, entities(), Format("fbx")), ErrFormat)
	assert.Zero(t, buf.Len())
}

func TestGroupClonesVisibleNodes(t *testing.T) {
	live := scene.New()
	nodes := entities()
	for _, n := range nodes {
		live.Add(n)
	}
	g := Group(nodes)
	require.Len(t, g.Children(), 2)
	assert.NotSame(t, nodes[0], g.Children()[0])
	assert.Same(t, live.Root, nodes[0].Parent(), "live nodes stay in the scene")

	g.Children()[0].Position = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{}, nodes[0].Position)
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entities(), OBJ))
	out := buf.String()

	assert.Contains(t, out, "o first\n")
	assert.Contains(t, out, "o second\n")
	assert.Equal(t, 48, strings.Count(out, "\nv "), "two boxes of 24 vertices")
	assert.Contains(t, out, " 25/25/25", "indices continue across objects")

	node, err := assets.ParseOBJ(buf.Bytes())
	require.NoError(t, err)
	assertBox(t, visibleBox, node.BoundingBox())
}

func TestWriteGLB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entities(), GLB))
	assert.Equal(t, "glTF", buf.String()[:4])

	node, err := assets.ParseGLTF(buf.Bytes(), 0)
	require.NoError(t, err)
	assertBox(t, visibleBox, node.BoundingBox())

	var names []string
	node.Walk(func(n *scene.Node) bool {
		if n.Kind == scene.MeshNode {
			names = append(names, n.Name)
		}
		return true
	})
	assert.ElementsMatch(t, []string{"first", "second"}, names)
}

func TestWriteGLBEmbedsTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := range 4 {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	mat := scene.NewBasic(scene.White)
	mat.Map = scene.NewTexture(img)
	mat.DoubleSided = true
	quad := scene.NewMesh(primitives.Plane(2, 1, 1, 1), mat)
	quad.Name = "picture"
	sprite := scene.NewSprite(scene.NewBasic(scene.White))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []*scene.Node{quad, sprite}, GLB))

	node, err := assets.ParseGLTF(buf.Bytes(), 0)
	require.NoError(t, err)
	var got *scene.Material
	node.Walk(func(n *scene.Node) bool {
		if n.Kind == scene.MeshNode {
			got = n.Material
		}
		return true
	})
	require.NotNil(t, got)
	require.NotNil(t, got.Map)
	w, h := got.Map.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.True(t, got.DoubleSided)
}
