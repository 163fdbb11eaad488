package ui

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/sceneobj"
)

var tools = []struct {
	tool  sceneobj.Tool
	label string
}{
	{sceneobj.ToolMove, "Move"},
	{sceneobj.ToolRotate, "Rotate"},
	{sceneobj.ToolScale, "Scale"},
}

// Panels builds the editor chrome for one frame: the toolbar, the object list on the
// left and, when something is selected, the inspector on the right.
type Panels struct {
	eng *Engine
}

// NewPanels returns panels styled by eng.
func NewPanels(eng *Engine) *Panels {
	return &Panels{eng: eng}
}

// Nodes returns every panel node for st in draw order.
func (p *Panels) Nodes(st sceneobj.State, screenW int) []*Node {
	var out []*Node
	out = p.Toolbar(out, st)
	out = p.Outline(out, st)
	out = p.Inspector(out, st, screenW)
	return out
}

// Toolbar appends the tool buttons. The active tool gets the "active" class; clicking it
// again clears the tool.
func (p *Panels) Toolbar(dst []*Node, st sceneobj.State) []*Node {
	bar := NewNode("panel", "toolbar", "", "")
	btn := p.eng.StyleOf("button")
	barStyle := p.eng.StyleOf("toolbar")
	x := float32(barStyle.Left + barStyle.Padding)
	y := float32(barStyle.Top + barStyle.Padding)
	var buttons []*Node
	for _, t := range tools {
		n := NewNode("button", "button", "", t.label)
		n.Action = "tool " + string(t.tool)
		if st.Tool == t.tool {
			n.Class = "button active"
			n.Action = "tool none"
		}
		n.Bounds = Rect{X: x, Y: y, W: float32(btn.Width), H: float32(btn.Height)}
		x += float32(btn.Width + barStyle.Padding)
		buttons = append(buttons, n)
	}
	for _, b := range []struct{ label, action string }{{"Focus", "focus"}, {"Duplicate", "dup"}, {"Delete", "delete"}} {
		if st.Selected == "" {
			break
		}
		n := NewNode("button", "button", "", b.label)
		n.Action = b.action
		n.Bounds = Rect{X: x, Y: y, W: float32(btn.Width), H: float32(btn.Height)}
		x += float32(btn.Width + barStyle.Padding)
		buttons = append(buttons, n)
	}
	bar.Bounds = Rect{X: float32(barStyle.Left), Y: float32(barStyle.Top), W: x - float32(barStyle.Left), H: float32(btn.Height + 2*barStyle.Padding)}
	dst = append(dst, bar)
	return append(dst, buttons...)
}

// Outline appends the object list. Each row selects its object; the side buttons toggle
// visibility and, for audio, playback.
func (p *Panels) Outline(dst []*Node, st sceneobj.State) []*Node {
	panel := NewNode("panel", "outline", "", "")
	ps := p.eng.StyleOf("outline")
	rs := p.eng.StyleOf("row")
	side := p.eng.StyleOf("row-button")
	x, y := float32(ps.Left), float32(ps.Top)
	rowH := float32(rs.Height)

	title := NewNode("label", "outline-title", "", fmt.Sprintf("Scene (%d)", len(st.Objects)))
	title.Bounds = Rect{X: x, Y: y, W: float32(ps.Width), H: rowH}
	nodes := []*Node{title}
	y += rowH

	for _, o := range st.Objects {
		class := "row"
		if o.ID == st.Selected {
			class += " selected"
		}
		if !o.Visible() {
			class += " hidden"
		}
		row := NewNode("button", class, "", fmt.Sprintf("%s  [%s]", o.Name, o.Kind))
		row.Action = "select " + o.ID
		row.Bounds = Rect{X: x, Y: y, W: float32(ps.Width), H: rowH}
		nodes = append(nodes, row)

		bx := x + float32(ps.Width-side.Width-ps.Padding)
		eye := NewNode("button", "row-button", "", "hide")
		eye.Action = "hide " + o.ID
		if !o.Visible() {
			eye.Text, eye.Action = "show", "show "+o.ID
		}
		if o.Kind != sceneobj.Skybox {
			eye.Bounds = Rect{X: bx, Y: y + 2, W: float32(side.Width), H: rowH - 4}
			nodes = append(nodes, eye)
		}
		if o.Kind == sceneobj.Audio {
			play := NewNode("button", "row-button", "", "play")
			play.Action = "play " + o.ID
			play.Bounds = Rect{X: bx - float32(side.Width+ps.Padding), Y: y + 2, W: float32(side.Width), H: rowH - 4}
			nodes = append(nodes, play)
		}
		y += rowH
	}
	panel.Bounds = Rect{X: float32(ps.Left), Y: float32(ps.Top), W: float32(ps.Width), H: y - float32(ps.Top) + float32(ps.Padding)}
	dst = append(dst, panel)
	return append(dst, nodes...)
}

// Inspector appends the property panel of the selected object, anchored to the right edge.
// Nothing is appended without a selection.
func (p *Panels) Inspector(dst []*Node, st sceneobj.State, screenW int) []*Node {
	o, ok := st.SelectedObject()
	if !ok {
		return dst
	}
	ps := p.eng.StyleOf("inspector")
	ls := p.eng.StyleOf("inspector-line")
	x := float32(ps.Left)
	if ps.LeftPct >= 0 {
		x = (float32(screenW) - float32(ps.Width)) * float32(ps.LeftPct) / 100
	}
	y := float32(ps.Top)
	lineH := float32(ls.Height)

	rot := mgl32.Vec3{mgl32.RadToDeg(o.Rotation[0]), mgl32.RadToDeg(o.Rotation[1]), mgl32.RadToDeg(o.Rotation[2])}
	lines := []string{
		"Name: " + o.Name,
		"Type: " + string(o.Kind),
		fmt.Sprintf("Position: %.2f, %.2f, %.2f", o.Position[0], o.Position[1], o.Position[2]),
		fmt.Sprintf("Rotation: %.1f, %.1f, %.1f", rot[0], rot[1], rot[2]),
		fmt.Sprintf("Scale: %.2f, %.2f, %.2f", o.Scale[0], o.Scale[1], o.Scale[2]),
		"Color: " + o.Color,
	}
	switch o.Kind {
	case sceneobj.Text3D:
		lines = append(lines, "Text: "+o.Text)
	case sceneobj.ParticleSystem:
		lines = append(lines, "Effect: "+string(o.ParticleType))
	case sceneobj.Model:
		lines = append(lines, "Format: "+o.Format)
	}
	if !o.Visible() {
		lines = append(lines, "Hidden")
	}
	lines = append(lines, fmt.Sprintf("Time of day: %.1f h", st.SkyTime))

	panel := NewNode("panel", "inspector", "", "")
	panel.Bounds = Rect{X: x, Y: y, W: float32(ps.Width), H: lineH*float32(len(lines)+1) + float32(ps.Padding)}
	title := NewNode("label", "inspector-title", "", "Inspector")
	title.Bounds = Rect{X: x, Y: y, W: float32(ps.Width), H: lineH}
	dst = append(dst, panel, title)
	for i, l := range lines {
		n := NewNode("label", "inspector-line", "", l)
		n.Bounds = Rect{X: x, Y: y + lineH*float32(i+1), W: float32(ps.Width), H: lineH}
		dst = append(dst, n)
	}
	return dst
}
