package graphics

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/commands"
	"scene-editor/internal/editor"
	"scene-editor/internal/engineconfig"
	"scene-editor/internal/scene"
)

func headless(t *testing.T) *editor.Editor {
	t.Helper()
	prefs := engineconfig.Default()
	prefs.Seed = 3
	e := editor.New(editor.Options{Prefs: prefs, Headless: true})
	t.Cleanup(e.Close)
	return e
}

func TestToMatrix(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(4, 5, 6))
	rm := toMatrix(m)
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{rm.M12, rm.M13, rm.M14})
	assert.Equal(t, [3]float32{4, 5, 6}, [3]float32{rm.M0, rm.M5, rm.M10})
	assert.Equal(t, float32(1), rm.M15)
}

func TestFlattenIndexed(t *testing.T) {
	g := &scene.Geometry{
		Positions: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	f := flatten(g)
	require.Equal(t, 6, f.vertexCount())
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 1, 1, 0}, f.positions[:9])
	assert.Equal(t, []float32{0, 0, 1}, f.normals[:3], "face normal for a counter-clockwise quad")
	assert.Len(t, f.uvs, 12)
	assert.Equal(t, []uint8{255, 0, 0, 255}, f.colors[:4])
	assert.Equal(t, []uint8{0, 0, 255, 255}, f.colors[8:12])
}

func TestFlattenKeepsNormalsAndUVs(t *testing.T) {
	g := &scene.Geometry{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0},
		UVs:       []float32{0, 0, 1, 0, 0, 1},
	}
	f := flatten(g)
	assert.Equal(t, g.Normals, f.normals)
	assert.Equal(t, g.UVs, f.uvs)
	assert.Nil(t, f.colors)
}

func TestPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(1, 0, color.RGBA{R: 9, A: 255})
	px := pixels(img)
	require.Len(t, px, 2)
	assert.Equal(t, color.RGBA{R: 9, A: 255}, px[1])

	sub := image.NewRGBA(image.Rect(0, 0, 4, 4))
	sub.SetRGBA(2, 2, color.RGBA{G: 7, A: 255})
	px = pixels(sub.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA))
	require.Len(t, px, 4)
	assert.Equal(t, color.RGBA{G: 7, A: 255}, px[3])

	assert.Nil(t, pixels(image.NewRGBA(image.Rectangle{})))
}

func TestRGBA(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 128}, rgba(colorful.Color{R: 1, G: 0.5, B: 0}, 0.5))
	assert.Equal(t, uint8(255), rgba(colorful.Color{R: 2}, 2).R)
}

func TestGridLines(t *testing.T) {
	lines := gridLines(scene.Grid{Size: 20, Divisions: 20})
	require.Len(t, lines, 42)
	assert.Equal(t, mgl32.Vec3{-10, 0, -10}, lines[0].from)
	assert.Equal(t, mgl32.Vec3{-10, 0, 10}, lines[0].to)
	assert.True(t, lines[0].major)
	assert.False(t, lines[2].major)
	assert.True(t, lines[20].major, "the centre line")
	assert.Nil(t, gridLines(scene.Grid{}))
}

func TestShortcutsAreConsoleCommands(t *testing.T) {
	e := headless(t)
	e.LoadDemo()
	e.Sync()
	for _, s := range shortcuts {
		line := s.action(e)
		require.NotEmpty(t, line)
		args, err := commands.Parse(line)
		require.NoError(t, err)
		_, ok := e.Commands.Lookup(args[0])
		assert.True(t, ok, line)
	}

	e.Store().Select("")
	e.Sync()
	assert.Empty(t, withSelection("focus")(e), "focus needs a selection")
	assert.Equal(t, "tool move", constant("tool move")(e))
}

func TestShortcutToggles(t *testing.T) {
	e := headless(t)
	e.LoadDemo()
	e.Sync()
	find := func(line string) shortcut {
		for _, s := range shortcuts {
			if s.action(e) == line {
				return s
			}
		}
		t.Fatalf("no shortcut for %q", line)
		return shortcut{}
	}
	assert.Equal(t, "hide", find("hide").action(e))

	assert.Equal(t, "grid off", find("grid off").action(e))
	e.SetGrid(false)
	assert.Equal(t, "grid on", find("grid on").action(e))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "/tmp/a.png", quote("/tmp/a.png"))
	for _, p := range []string{"/tmp/my file.png", "/tmp/it's.png"} {
		args, err := commands.Parse("import " + quote(p))
		require.NoError(t, err)
		assert.Equal(t, []string{"import", p}, args)
	}
}

func TestStatsLines(t *testing.T) {
	e := headless(t)
	e.LoadDemo()
	e.Sync()
	lines := statsLines(e, FrameStats{Meshes: 4})
	require.Len(t, lines, 4)
	assert.Equal(t, "Entities: 4  Particles: 0", lines[0])
	assert.Equal(t, "Draws: 4 meshes  0 points  0 sprites", lines[2])
}
