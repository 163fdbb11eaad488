package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/fonts"
	"scene-editor/internal/media"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngDataURI(t *testing.T, w, h int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, w, h))
}

func TestDecodeDataURI(t *testing.T) {
	data, mt, err := DecodeDataURI("data:application/octet-stream;base64,AAEC")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mt)
	assert.Equal(t, []byte{0, 1, 2}, data)

	data, mt, err = DecodeDataURI("data:text/plain,v%201%202%203")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)
	assert.Equal(t, "v 1 2 3", string(data))

	data, mt, err = DecodeDataURI("data:,hello")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)
	assert.Equal(t, "hello", string(data))

	_, _, err = DecodeDataURI("data:text/plain")
	assert.Error(t, err)
	_, _, err = DecodeDataURI("file:///x.png")
	assert.Error(t, err)
	_, _, err = DecodeDataURI("data:;base64,!!!")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	got, err := Resolve(ctx, sceneobj.BinarySource([]byte{9}), nil, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got)

	_, err = Resolve(ctx, sceneobj.Source{}, nil, false)
	assert.ErrorIs(t, err, ErrEmpty)

	got, err = Resolve(ctx, sceneobj.TextSource("v 0 0 0\nv 1 0 0"), nil, true)
	require.NoError(t, err)
	assert.Equal(t, "v 0 0 0\nv 1 0 0", string(got))

	path := filepath.Join(t.TempDir(), "a.obj")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	got, err = Resolve(ctx, sceneobj.TextSource(path), nil, true)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
	got, err = Resolve(ctx, sceneobj.TextSource("file://"+path), nil, false)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	var fetched string
	fetch := func(_ context.Context, url string) ([]byte, error) {
		fetched = url
		return []byte("remote"), nil
	}
	src := sceneobj.TextSource("https://example.com/m.stl")
	assert.True(t, IsRemote(src))
	got, err = Resolve(ctx, src, fetch, false)
	require.NoError(t, err)
	assert.Equal(t, "remote", string(got))
	assert.Equal(t, "https://example.com/m.stl", fetched)

	_, err = Resolve(ctx, src, nil, false)
	assert.ErrorIs(t, err, ErrUnsupported)
}

const quadOBJ = `# quad
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 -1//1
`

func TestParseOBJ(t *testing.T) {
	root, err := ParseOBJ([]byte(quadOBJ))
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	m := root.Children()[0]
	assert.Equal(t, "Quad", m.Name)
	assert.Equal(t, 2, m.Geometry.TriangleCount())
	assert.Equal(t, float32(1), m.Geometry.Normals[2])

	two := "v 0 0 0\nv 1 0 0\nv 0 1 0\ng a\nf 1 2 3\ng b\nf 3 2 1\n"
	root, err = ParseOBJ([]byte(two))
	require.NoError(t, err)
	assert.Len(t, root.Children(), 2)
	assert.Len(t, root.Children()[0].Geometry.Normals, 9, "normals are computed when missing")

	_, err = ParseOBJ([]byte("v 0 0 0\n"))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = ParseOBJ([]byte("v 0 0 0\nf 1 2 3\n"))
	assert.Error(t, err)
}

func TestParseSTL(t *testing.T) {
	ascii := `solid t
facet normal 0 0 1
 outer loop
  vertex 0 0 0
  vertex 1 0 0
  vertex 0 1 0
 endloop
endfacet
endsolid t`
	root, err := ParseSTL([]byte(ascii))
	require.NoError(t, err)
	g := root.Children()[0].Geometry
	assert.Equal(t, 1, g.TriangleCount())
	assert.InDelta(t, 1, g.Normals[2], 1e-6)

	bin := make([]byte, 84+50)
	binary.LittleEndian.PutUint32(bin[80:], 1)
	for i, v := range []float32{0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 2, 0} {
		binary.LittleEndian.PutUint32(bin[84+4*i:], math.Float32bits(v))
	}
	root, err = ParseSTL(bin)
	require.NoError(t, err)
	g = root.Children()[0].Geometry
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, g.Vertex(1))
	assert.InDelta(t, 1, g.Normals[2], 1e-6, "zero facet normals are recomputed")

	_, err = ParseSTL([]byte("solid empty\nendsolid empty"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecodeImage(t *testing.T) {
	img, size, err := DecodeImage(pngBytes(t, 40, 20), 0)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 20), size)
	assert.Equal(t, image.Pt(40, 20), img.Bounds().Size())

	img, size, err = DecodeImage(pngBytes(t, 40, 20), 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 20), size)
	assert.Equal(t, image.Pt(10, 5), img.Bounds().Size())

	_, _, err = DecodeImage([]byte("plain text"), 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFit(t *testing.T) {
	w, h := fit(4000, 1000, 2048)
	assert.Equal(t, 2048, w)
	assert.Equal(t, 512, h)
	w, h = fit(10, 5000, 100)
	assert.Equal(t, 1, w)
	assert.Equal(t, 100, h)
}

func triangleArea(pts []mgl32.Vec2, tris []uint32) float32 {
	var a float32
	for i := 0; i < len(tris); i += 3 {
		a += cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) / 2
	}
	return a
}

func square(x, y, s float32) fonts.Contour {
	return fonts.Contour{{x, y}, {x + s, y}, {x + s, y + s}, {x, y + s}}
}

func TestTriangulateWithHole(t *testing.T) {
	shape := fonts.Shape{reversed(square(0, 0, 4)), square(1, 1, 2)}
	polys := polygons(shape)
	require.Len(t, polys, 1)
	require.Len(t, polys[0].holes, 1)
	assert.Positive(t, signedArea(polys[0].outer))
	assert.Negative(t, signedArea(polys[0].holes[0]))

	pts, tris := triangulate(polys[0])
	assert.InDelta(t, 16-4, triangleArea(pts, tris), 1e-4)
	for i := 0; i < len(tris); i += 3 {
		assert.Positive(t, cross(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]))
	}
}

func TestTriangulateConcave(t *testing.T) {
	// An L shape has one reflex corner.
	l := fonts.Contour{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	pts, tris := triangulate(polygon{outer: l})
	assert.Len(t, tris, 3*4)
	assert.InDelta(t, 3, triangleArea(pts, tris), 1e-5)
}

func TestPolygonsSeparateOutlines(t *testing.T) {
	polys := polygons(fonts.Shape{square(0, 0, 1), square(3, 0, 1)})
	assert.Len(t, polys, 2)
	for _, p := range polys {
		assert.Empty(t, p.holes)
	}
}

func TestTextGeometry(t *testing.T) {
	f := fonts.Default()
	g, err := TextGeometry(f, "Ho", TextSize, TextDepth, TextCurveSegments, DefaultBevel)
	require.NoError(t, err)
	assert.Positive(t, g.TriangleCount())
	assert.Len(t, g.Normals, len(g.Positions))

	box := g.BoundingBox()
	c := box.Center()
	assert.InDelta(t, 0, c.X(), 1e-4)
	assert.InDelta(t, 0, c.Y(), 1e-4)
	assert.InDelta(t, 0, c.Z(), 1e-4)
	assert.InDelta(t, TextDepth+2*DefaultBevel.Thickness, box.Size().Z(), 1e-4)

	_, err = TextGeometry(f, "  ", TextSize, TextDepth, TextCurveSegments, DefaultBevel)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = TextGeometry(nil, "x", TextSize, TextDepth, TextCurveSegments, DefaultBevel)
	assert.ErrorIs(t, err, ErrNoFont)
}

func TestTextBevel(t *testing.T) {
	f := fonts.Default()
	flat, err := TextGeometry(f, "H", TextSize, TextDepth, TextCurveSegments, Bevel{})
	require.NoError(t, err)
	beveled, err := TextGeometry(f, "H", TextSize, TextDepth, TextCurveSegments, DefaultBevel)
	require.NoError(t, err)

	fb, bb := flat.BoundingBox().Size(), beveled.BoundingBox().Size()
	assert.InDelta(t, TextDepth, fb.Z(), 1e-4)
	assert.InDelta(t, fb.Z()+2*DefaultBevel.Thickness, bb.Z(), 1e-4)
	assert.InDelta(t, fb.X()+2*DefaultBevel.Size, bb.X(), 5e-3, "the rim bulges out by the bevel size")
	assert.InDelta(t, fb.Y()+2*DefaultBevel.Size, bb.Y(), 5e-3)
	assert.Greater(t, beveled.TriangleCount(), flat.TriangleCount())

	for i := 0; i < len(beveled.Normals); i += 3 {
		n := mgl32.Vec3{beveled.Normals[i], beveled.Normals[i+1], beveled.Normals[i+2]}
		require.InDelta(t, 1, n.Len(), 1e-4)
	}
}

func TestMiters(t *testing.T) {
	square := fonts.Contour{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	m := miters(distinct(square))
	require.Len(t, m, 4)
	assert.InDelta(t, -1, m[0].X(), 1e-6)
	assert.InDelta(t, -1, m[0].Y(), 1e-6)
	assert.InDelta(t, 1, m[2].X(), 1e-6)
	assert.InDelta(t, 1, m[2].Y(), 1e-6)

	spike := fonts.Contour{{0, 0}, {10, 0.1}, {0, 0.2}}
	for _, v := range miters(spike) {
		assert.LessOrEqual(t, v.Len(), float32(maxMiter)+1e-4)
	}
}

type fakeAudio struct {
	playing bool
	closed  bool
}

func (a *fakeAudio) Play() error   { a.playing = true; return nil }
func (a *fakeAudio) Pause()        { a.playing = false }
func (a *fakeAudio) Playing() bool { return a.playing }
func (a *fakeAudio) Close() error  { a.closed = true; return nil }

type fakeVideo struct {
	w, h   int
	closed bool
}

func (v *fakeVideo) Frame() (*image.RGBA, uint64) {
	return image.NewRGBA(image.Rect(0, 0, v.w, v.h)), 1
}
func (v *fakeVideo) Size() (int, int) { return v.w, v.h }
func (v *fakeVideo) Close() error     { v.closed = true; return nil }

func newTestFactory() *Factory {
	f := NewFactory(primitives.NewRegistry())
	f.Fetch = nil
	return f
}

func object(kind sceneobj.Kind) sceneobj.Object {
	return sceneobj.Object{
		ID:       "object-1",
		Name:     string(kind),
		Kind:     kind,
		Position: mgl32.Vec3{1, 2, 3},
		Scale:    mgl32.Vec3{1, 1, 1},
		Color:    "#ff0000",
	}
}

func TestBuildPrimitives(t *testing.T) {
	f := newTestFactory()
	for _, kind := range []sceneobj.Kind{sceneobj.Cube, sceneobj.Sphere, sceneobj.Plane, sceneobj.Pyramid, sceneobj.Cylinder} {
		t.Run(string(kind), func(t *testing.T) {
			b, job, err := f.Build(object(kind), nil)
			require.NoError(t, err)
			assert.Nil(t, job)
			n := b.Node
			assert.Equal(t, "object-1", n.Tag)
			assert.Equal(t, string(kind), n.TagKind)
			assert.Equal(t, mgl32.Vec3{1, 2, 3}, n.Position)
			assert.Equal(t, scene.StandardMaterial, n.Material.Kind)
			assert.InDelta(t, 1, n.Material.Color.R, 1e-6)
			assert.Equal(t, float32(0.3), n.Material.Metalness)
			assert.Equal(t, float32(0.6), n.Material.Roughness)
			assert.Equal(t, kind != sceneobj.Plane, n.CastShadow)
			assert.True(t, n.ReceiveShadow)
		})
	}
}

func TestBuildHiddenObject(t *testing.T) {
	obj := object(sceneobj.Cube)
	obj.Hidden = true
	b, _, err := newTestFactory().Build(obj, nil)
	require.NoError(t, err)
	assert.False(t, b.Node.Visible)
}

func TestBuildText(t *testing.T) {
	f := newTestFactory()
	obj := object(sceneobj.Text3D)
	obj.Text = "Hi"

	_, _, err := f.Build(obj, nil)
	assert.ErrorIs(t, err, ErrNoFont)
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "object-1", ae.ID)
	assert.Equal(t, sceneobj.Text3D, ae.Kind)

	b, _, err := f.Build(obj, fonts.Default())
	require.NoError(t, err)
	assert.Equal(t, float32(0), b.Node.Material.Metalness)
	assert.Equal(t, float32(0.1), b.Node.Material.Roughness)
	assert.Positive(t, b.Node.Geometry.TriangleCount())
}

func TestBuildUnsupported(t *testing.T) {
	f := newTestFactory()
	for _, kind := range []sceneobj.Kind{sceneobj.Skybox, sceneobj.ParticleSystem, "Teapot"} {
		_, _, err := f.Build(object(kind), nil)
		assert.ErrorIs(t, err, ErrUnsupported, kind)
	}
}

func TestBuildImage(t *testing.T) {
	f := newTestFactory()
	obj := object(sceneobj.Image)
	obj.Scale = mgl32.Vec3{5, 5, 1}
	obj.Src = sceneobj.TextSource(pngDataURI(t, 40, 20))

	b, job, err := f.Build(obj, nil)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, scene.BasicMaterial, b.Node.Material.Kind)
	assert.True(t, b.Node.Material.DoubleSided)
	assert.Nil(t, b.Node.Material.Map)

	patch, err := job(context.Background()).Apply(b)
	require.NoError(t, err)
	require.NotNil(t, b.Node.Material.Map)
	assert.Equal(t, 40, b.Node.Material.Map.Image.Bounds().Dx())

	// The patch uses the Y scale current when it is applied.
	obj.Scale = mgl32.Vec3{5, 3, 1}
	patch(&obj)
	assert.Equal(t, mgl32.Vec3{6, 3, 1}, obj.Scale)
}

func TestBuildImageFailure(t *testing.T) {
	obj := object(sceneobj.Image)
	obj.Src = sceneobj.TextSource("data:text/plain,hello")
	b, job, err := newTestFactory().Build(obj, nil)
	require.NoError(t, err)
	_, err = job(context.Background()).Apply(b)
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestBuildVideo(t *testing.T) {
	f := newTestFactory()
	clip := &fakeVideo{w: 1920, h: 1080}
	f.OpenVideo = func([]byte) (media.Video, error) { return clip, nil }
	obj := object(sceneobj.Video)
	obj.Scale = mgl32.Vec3{5, 5, 1}
	obj.Src = sceneobj.BinarySource([]byte{1})

	b, job, err := f.Build(obj, nil)
	require.NoError(t, err)
	c := job(context.Background())
	patch, err := c.Apply(b)
	require.NoError(t, err)
	assert.Same(t, clip, b.Video)
	assert.Equal(t, uint64(1), b.Node.Material.Map.Revision())
	patch(&obj)
	assert.InDelta(t, 5*1920.0/1080.0, obj.Scale.X(), 1e-4)

	other := &fakeVideo{w: 1, h: 1}
	f.OpenVideo = func([]byte) (media.Video, error) { return other, nil }
	_, job, err = f.Build(obj, nil)
	require.NoError(t, err)
	job(context.Background()).Discard()
	assert.True(t, other.closed)
}

func TestBuildWithoutMediaBackends(t *testing.T) {
	f := NewFactory(primitives.NewRegistry())
	assert.Nil(t, f.OpenVideo)
	assert.Nil(t, f.OpenAudio)

	obj := object(sceneobj.Video)
	obj.Src = sceneobj.BinarySource([]byte{1})
	b, job, err := f.Build(obj, nil)
	require.NoError(t, err)
	assert.Nil(t, job, "a video without a decoder stays a blank screen")
	assert.Nil(t, b.Video)
	assert.NotNil(t, b.Node)
}

func TestBuildAudio(t *testing.T) {
	f := newTestFactory()
	obj := object(sceneobj.Audio)

	b, job, err := f.Build(obj, nil)
	require.NoError(t, err)
	assert.Nil(t, job, "no source, no handle")
	assert.Equal(t, scene.SpriteNode, b.Node.Kind)
	assert.True(t, b.Node.Material.Map.Shared)

	first, second := &fakeAudio{}, &fakeAudio{}
	opened := []*fakeAudio{first, second}
	f.OpenAudio = func([]byte) (media.Audio, error) {
		a := opened[0]
		opened = opened[1:]
		return a, nil
	}
	obj.Src = sceneobj.BinarySource([]byte("RIFF"))
	b, job, err = f.Build(obj, nil)
	require.NoError(t, err)
	_, err = job(context.Background()).Apply(b)
	require.NoError(t, err)
	assert.Same(t, first, b.Audio)

	_, err = job(context.Background()).Apply(b)
	require.NoError(t, err)
	assert.Same(t, first, b.Audio, "an existing handle is kept")
	assert.True(t, second.closed)
}

func TestBuildModelOBJ(t *testing.T) {
	obj := object(sceneobj.Model)
	obj.Format = "obj"
	obj.Src = sceneobj.TextSource(quadOBJ)

	b, job, err := newTestFactory().Build(obj, nil)
	require.NoError(t, err)
	assert.Nil(t, job)
	require.Len(t, b.Node.Children(), 1)
	pivot := b.Node.Children()[0]
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, 0}, pivot.Position)
	mesh := pivot.Children()[0].Children()[0]
	assert.True(t, mesh.CastShadow)
	assert.True(t, mesh.ReceiveShadow)

	b.Node.Position = mgl32.Vec3{}
	c := b.Node.BoundingBox().Center()
	assert.InDelta(t, 0, c.Len(), 1e-5)
}

func TestBuildModelErrors(t *testing.T) {
	f := newTestFactory()
	obj := object(sceneobj.Model)
	obj.Format = "obj"
	_, _, err := f.Build(obj, nil)
	assert.ErrorIs(t, err, ErrEmpty)

	obj.Src = sceneobj.TextSource(quadOBJ)
	obj.Format = "fbx"
	_, _, err = f.Build(obj, nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func triangleGLB(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  gltf.Float(0.25),
			RoughnessFactor: gltf.Float(0.75),
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float64{10, 0, 0}, Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix, Children: []uint32{1}},
		{Name: "child", Mesh: gltf.Index(0), Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestParseGLTF(t *testing.T) {
	root, err := ParseGLTF(triangleGLB(t), 0)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	m := root.Children()[0]
	assert.Equal(t, "child", m.Name)
	assert.Equal(t, mgl32.Vec3{12, 0, 0}, m.Geometry.Vertex(1), "parent transform is baked in")
	assert.InDelta(t, 1, m.Material.Color.R, 1e-6)
	assert.InDelta(t, 0, m.Material.Color.G, 1e-6)
	assert.Equal(t, float32(0.25), m.Material.Metalness)
	assert.Equal(t, float32(0.75), m.Material.Roughness)

	_, err = ParseGLTF([]byte("not gltf"), 0)
	assert.Error(t, err)
}

func TestParseGLTFRejectsDanglingNode(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "only", Rotation: gltf.DefaultRotation, Scale: gltf.DefaultScale, Matrix: gltf.DefaultMatrix}}
	doc.Scenes[0].Nodes = []uint32{0, 7}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))

	_, err := ParseGLTF(buf.Bytes(), 0)
	assert.ErrorContains(t, err, "node 7 out of range")
}

func TestBuildModelGLBIsAsync(t *testing.T) {
	obj := object(sceneobj.Model)
	obj.Format = "glb"
	obj.Src = sceneobj.BinarySource(triangleGLB(t))

	b, job, err := newTestFactory().Build(obj, nil)
	require.NoError(t, err)
	require.NotNil(t, job)
	pivot := b.Node.Children()[0]
	assert.Empty(t, pivot.Children())

	_, err = job(context.Background()).Apply(b)
	require.NoError(t, err)
	require.Len(t, pivot.Children(), 1)
	assert.InDelta(t, -11, pivot.Position.X(), 1e-5)
	assert.InDelta(t, -1, pivot.Position.Y(), 1e-5)
}

func TestPanorama(t *testing.T) {
	f := newTestFactory()
	tex, err := f.Panorama(pngDataURI(t, 8, 4))(context.Background())
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)

	_, err = f.Panorama("")(context.Background())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFingerprint(t *testing.T) {
	a := object(sceneobj.Model)
	a.Src = sceneobj.BinarySource([]byte{1, 2})
	b := a
	b.Position = mgl32.Vec3{9, 9, 9}
	b.Color = "#000000"
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Src = sceneobj.BinarySource([]byte{1, 3})
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}
