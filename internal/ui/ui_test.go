package ui

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/sceneobj"
)

func TestParseCSS(t *testing.T) {
	sheet, err := ParseCSS(`
/* comment { not a rule } */
.a, #b { color: #fff; width: 10px }
div { color: #000; }
.c{padding:2;;bogus}
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)
	assert.Equal(t, ".a", sheet.Rules[0].Selector)
	assert.Equal(t, "#b", sheet.Rules[1].Selector)
	assert.Equal(t, "10px", sheet.Rules[1].Props["width"])
	assert.Equal(t, map[string]string{"padding": "2"}, sheet.Rules[2].Props)

	_, err = ParseCSS(".a { color: red;")
	assert.ErrorContains(t, err, "unclosed")
	_, err = ParseCSS(".a {} stray")
	assert.ErrorContains(t, err, "trailing")
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]color.NRGBA{
		"#fff":        {R: 255, G: 255, B: 255, A: 255},
		"#4285F4":     {R: 0x42, G: 0x85, B: 0xf4, A: 255},
		"#4285f455":   {R: 0x42, G: 0x85, B: 0xf4, A: 0x55},
		"transparent": {},
	} {
		got, ok := ParseColor(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"red", "#12", "#zzzzzz", "#123456zz"} {
		_, ok := ParseColor(bad)
		assert.False(t, ok, bad)
	}
}

func TestResolveProps(t *testing.T) {
	s := ResolveProps(map[string]string{"left": "50%", "top": "12px", "width": "100", "padding": "-3", "font-size": "22"})
	assert.True(t, s.HasLeft)
	assert.Equal(t, int32(50), s.LeftPct)
	assert.True(t, s.HasTop)
	assert.Equal(t, int32(12), s.Top)
	assert.Equal(t, int32(-1), s.TopPct)
	assert.Equal(t, int32(4), s.Padding, "negative padding ignored")
	assert.Equal(t, int32(22), s.FontSize)
}

func TestStyleCascade(t *testing.T) {
	e := New()
	row := e.StyleOf("row")
	sel := e.StyleOf("row selected")
	assert.Equal(t, row.Height, sel.Height)
	assert.NotEqual(t, row.Background, sel.Background)
	assert.Equal(t, uint8(0x55), sel.Background.A)
}

func TestLoadCSSAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.css")
	require.NoError(t, os.WriteFile(path, []byte(".row { height: 40 }"), 0o644))
	e := New()
	before := e.StyleOf("row")
	require.NoError(t, e.LoadCSS(path))
	after := e.StyleOf("row")
	assert.Equal(t, int32(40), after.Height)
	assert.Equal(t, before.Color, after.Color)

	assert.Error(t, e.LoadCSS(filepath.Join(t.TempDir(), "missing.css")))
}

func TestLayoutPositions(t *testing.T) {
	e := &Engine{}
	sheet, err := ParseCSS(`.right { left: 100%; top: 50%; width: 100; height: 20 } .fixed { left: 5; }`)
	require.NoError(t, err)
	e.SetStylesheet(sheet)

	a := NewNode("panel", "right", "", "")
	b := NewNode("label", "fixed", "", "x")
	b.Bounds = Rect{X: 1, Y: 7, W: 3, H: 3}
	c := NewNode("label", "", "", "")
	c.Bounds = Rect{X: 2, Y: 2, W: 1, H: 1}
	boxes := e.Layout([]*Node{a, b, c}, 800, 600)
	assert.Equal(t, Rect{X: 700, Y: 290, W: 100, H: 20}, boxes[0].Rect)
	assert.Equal(t, Rect{X: 5, Y: 7, W: 3, H: 3}, boxes[1].Rect)
	assert.Equal(t, c.Bounds, boxes[2].Rect)
}

func TestHitTestTopmostAction(t *testing.T) {
	e := &Engine{}
	e.SetStylesheet(&Stylesheet{})
	under := &Node{Bounds: Rect{W: 50, H: 50}, Action: "under"}
	over := &Node{Bounds: Rect{X: 10, Y: 10, W: 10, H: 10}, Action: "over"}
	inert := &Node{Bounds: Rect{W: 100, H: 100}}
	e.Layout([]*Node{under, over, inert}, 100, 100)

	n, ok := e.HitTest(15, 15)
	require.True(t, ok)
	assert.Equal(t, "over", n.Action)
	n, ok = e.HitTest(40, 40)
	require.True(t, ok)
	assert.Equal(t, "under", n.Action)
	_, ok = e.HitTest(80, 80)
	assert.False(t, ok)
	assert.False(t, e.Covers(80, 80))
	assert.True(t, e.Covers(5, 5))
}

func demo() sceneobj.State {
	st := sceneobj.DemoState()
	st.Objects = append(st.Objects, sceneobj.Object{ID: "a1", Name: "beep", Kind: sceneobj.Audio, Hidden: true, Scale: mgl32.Vec3{1, 1, 1}})
	return st
}

func actions(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Action != "" {
			out = append(out, n.Action)
		}
	}
	return out
}

func TestPanels(t *testing.T) {
	e := New()
	p := NewPanels(e)
	st := demo()
	nodes := p.Nodes(st, 1280)
	acts := actions(nodes)

	assert.Contains(t, acts, "tool none", "active tool clears")
	assert.Contains(t, acts, "tool Rotate")
	assert.Contains(t, acts, "select initial-cube-1")
	assert.Contains(t, acts, "hide initial-sphere-1")
	assert.Contains(t, acts, "show a1")
	assert.Contains(t, acts, "play a1")
	assert.Contains(t, acts, "dup")

	var texts []string
	for _, n := range nodes {
		if n.HasClass("inspector-line") {
			texts = append(texts, n.Text)
		}
		if n.HasClass("row") && n.Action == "select initial-cube-1" {
			assert.True(t, n.HasClass("selected"))
		}
	}
	assert.Contains(t, texts, "Name: Blue Cube")
	assert.Contains(t, texts, "Rotation: 0.0, 45.0, 0.0")
	assert.Contains(t, texts, "Time of day: 12.0 h")

	st.Selected = ""
	for _, n := range p.Nodes(st, 1280) {
		assert.False(t, n.HasClass("inspector"), "no inspector without selection")
		assert.NotEqual(t, "dup", n.Action)
	}
}

func TestPanelClickRoundTrip(t *testing.T) {
	e := New()
	p := NewPanels(e)
	e.Layout(p.Nodes(demo(), 1280), 1280, 720)
	// Second row of the outline: title row, then the cube.
	ps := e.StyleOf("outline")
	rowH := float32(e.StyleOf("row").Height)
	n, ok := e.HitTest(float32(ps.Left)+20, float32(ps.Top)+rowH*1.5)
	require.True(t, ok)
	assert.Equal(t, "select initial-cube-1", n.Action)
}
