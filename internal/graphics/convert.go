package graphics

import (
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"scene-editor/internal/scene"
)

// toMatrix converts a column-major mgl32 matrix to raylib's layout. Both store
// translation in elements 12..14, so the names map one to one.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

func vec3(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

// rgba converts a colour and an opacity to 8-bit RGBA.
func rgba(c colorful.Color, opacity float32) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: unit8(opacity)}
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// flatMesh is a geometry expanded to a plain triangle list, the layout raylib draws
// without an index buffer. raylib indices are 16 bit, too small for imported models.
type flatMesh struct {
	positions []float32
	normals   []float32
	uvs       []float32
	colors    []uint8
}

func (f *flatMesh) vertexCount() int { return len(f.positions) / 3 }

// flatten expands g. Missing normals become face normals and missing UVs zero, since
// raylib always binds both attributes.
func flatten(g *scene.Geometry) *flatMesh {
	n := g.TriangleCount() * 3
	f := &flatMesh{
		positions: make([]float32, 0, n*3),
		normals:   make([]float32, 0, n*3),
		uvs:       make([]float32, 0, n*2),
	}
	hasNormals := len(g.Normals) == len(g.Positions)
	hasUVs := len(g.UVs)/2 == g.VertexCount()
	hasColors := len(g.Colors) == len(g.Positions)
	if hasColors {
		f.colors = make([]uint8, 0, n*4)
	}
	for t := range g.TriangleCount() {
		a, b, c := g.Triangle(t)
		face := g.Vertex(b).Sub(g.Vertex(a)).Cross(g.Vertex(c).Sub(g.Vertex(a)))
		if face.Len() > 0 {
			face = face.Normalize()
		}
		for _, i := range [3]int{a, b, c} {
			f.positions = append(f.positions, g.Positions[3*i:3*i+3]...)
			if hasNormals {
				f.normals = append(f.normals, g.Normals[3*i:3*i+3]...)
			} else {
				f.normals = append(f.normals, face[0], face[1], face[2])
			}
			if hasUVs {
				f.uvs = append(f.uvs, g.UVs[2*i:2*i+2]...)
			} else {
				f.uvs = append(f.uvs, 0, 0)
			}
			if hasColors {
				f.colors = append(f.colors, unit8(g.Colors[3*i]), unit8(g.Colors[3*i+1]), unit8(g.Colors[3*i+2]), 255)
			}
		}
	}
	return f
}

// pixels returns img as the RGBA slice raylib uploads, without copying when the
// image is tightly packed.
func pixels(img *image.RGBA) []color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	if img.Stride == 4*w && len(img.Pix) >= 4*w*h {
		return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), w*h)
	}
	out := make([]color.RGBA, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, img.RGBAAt(x, y))
		}
	}
	return out
}

// gridLine is one line of the floor grid.
type gridLine struct {
	from, to mgl32.Vec3
	major    bool
}

// gridMajorEvery marks every tenth line as a major line.
const gridMajorEvery = 10

// gridLines lays out g on the XZ plane: Divisions+1 lines each way across Size.
func gridLines(g scene.Grid) []gridLine {
	if g.Divisions <= 0 || g.Size <= 0 {
		return nil
	}
	half := g.Size / 2
	step := g.Size / float32(g.Divisions)
	out := make([]gridLine, 0, 2*(g.Divisions+1))
	for i := 0; i <= g.Divisions; i++ {
		p := -half + float32(i)*step
		major := (i-g.Divisions/2)%gridMajorEvery == 0
		out = append(out,
			gridLine{from: mgl32.Vec3{p, 0, -half}, to: mgl32.Vec3{p, 0, half}, major: major},
			gridLine{from: mgl32.Vec3{-half, 0, p}, to: mgl32.Vec3{half, 0, p}, major: major},
		)
	}
	return out
}
