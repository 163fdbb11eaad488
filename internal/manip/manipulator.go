// Package manip binds an interactive transform manipulator to the selected entity and
// writes every manipulated transform back to the object store.
package manip

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// Mode is the kind of transform a drag applies.
type Mode int

const (
	Translate Mode = iota
	Rotate
	Scale
)

func (m Mode) String() string {
	switch m {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	}
	return "unknown"
}

// Axis identifies a handle. AxisAll is the center handle: a view-plane move in
// translate mode and a uniform scale in scale mode.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
	AxisAll
)

func (a Axis) vector() mgl32.Vec3 {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}
	case AxisY:
		return mgl32.Vec3{0, 1, 0}
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{}
}

// Handle sizes as fractions of the camera distance, so handles keep their size on screen.
const (
	handleScale = 0.15
	pickScale   = 0.02
	minScale    = 1e-3
)

// Handle is one axis line for drawing.
type Handle struct {
	Axis     Axis
	From, To mgl32.Vec3
}

// Manipulator drags the transform of one node. It is driven by world rays; the
// binder turns pointer events into rays and persists the results.
type Manipulator struct {
	Camera *scene.Camera

	// OnChange runs after every transform change made through the manipulator.
	OnChange func(n *scene.Node)
	// OnDragging runs when a drag starts (true) and ends (false).
	OnDragging func(dragging bool)

	node     *scene.Node
	mode     Mode
	axis     Axis
	dragging bool
	drag     dragStart
}

type dragStart struct {
	pos, rot, scale mgl32.Vec3
	center          mgl32.Vec3
	// param and point are what the drag is measured against: an axis parameter, a
	// plane hit, or the distance of that hit from center.
	param float32
	point mgl32.Vec3
}

// NewManipulator returns a detached manipulator in translate mode.
func NewManipulator(cam *scene.Camera) *Manipulator {
	return &Manipulator{Camera: cam}
}

// Attach binds n in mode. A drag on a previous node is ended first.
func (m *Manipulator) Attach(n *scene.Node, mode Mode) {
	if m.node != n {
		m.End()
	}
	m.node = n
	m.SetMode(mode)
}

// Detach ends any drag and unbinds the node.
func (m *Manipulator) Detach() {
	m.End()
	m.node = nil
}

// Node returns the bound node, or nil.
func (m *Manipulator) Node() *scene.Node { return m.node }

func (m *Manipulator) Mode() Mode { return m.mode }

// SetMode switches the transform kind. Switching mid-drag ends the drag.
func (m *Manipulator) SetMode(mode Mode) {
	if mode != m.mode {
		m.End()
	}
	m.mode = mode
}

func (m *Manipulator) Dragging() bool { return m.dragging }

// Axis returns the handle being dragged.
func (m *Manipulator) Axis() Axis { return m.axis }

// HandleLength is the world length of the axis handles at the node's current distance.
func (m *Manipulator) HandleLength() float32 {
	if m.node == nil || m.Camera == nil {
		return 1
	}
	d := m.Camera.Position.Sub(m.node.WorldPosition()).Len()
	if d == 0 {
		return 1
	}
	return d * handleScale
}

func (m *Manipulator) pickRadius() float32 {
	return m.HandleLength() / handleScale * pickScale
}

// Handles returns the axis lines of the bound node, or nil when detached.
func (m *Manipulator) Handles() []Handle {
	if m.node == nil {
		return nil
	}
	c := m.node.WorldPosition()
	l := m.HandleLength()
	out := make([]Handle, 0, 3)
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		out = append(out, Handle{Axis: a, From: c, To: c.Add(a.vector().Mul(l))})
	}
	return out
}

// PickAxis returns the handle under r. The center handle wins over the axes where
// they overlap; rotate mode has no center handle.
func (m *Manipulator) PickAxis(r scene.Ray) Axis {
	if m.node == nil {
		return AxisNone
	}
	c := m.node.WorldPosition()
	radius := m.pickRadius()
	if m.mode != Rotate && r.DistanceSqToPoint(c) <= radius*radius {
		return AxisAll
	}
	l := m.HandleLength()
	best, bestD := AxisNone, radius*radius
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		t, ok := axisParam(r, c, a.vector())
		if !ok {
			continue
		}
		q := c.Add(a.vector().Mul(mgl32.Clamp(t, 0, l)))
		if d := r.DistanceSqToPoint(q); d <= bestD {
			best, bestD = a, d
		}
	}
	return best
}

// Begin starts a drag if r hits a handle.
func (m *Manipulator) Begin(r scene.Ray) bool {
	if m.node == nil || m.dragging {
		return false
	}
	return m.BeginAxis(m.PickAxis(r), r)
}

// BeginAxis starts a drag on a known handle.
func (m *Manipulator) BeginAxis(a Axis, r scene.Ray) bool {
	if m.node == nil || m.dragging || a == AxisNone || (a == AxisAll && m.mode == Rotate) {
		return false
	}
	n := m.node
	s := dragStart{pos: n.Position, rot: n.Rotation, scale: n.Scale, center: n.WorldPosition()}
	switch {
	case m.mode == Rotate:
		p, ok := planeHit(r, s.center, a.vector())
		if !ok || p.Sub(s.center).Len() == 0 {
			return false
		}
		s.point = p
	case a == AxisAll:
		p, ok := planeHit(r, s.center, m.viewNormal(r))
		if !ok {
			return false
		}
		s.point = p
		s.param = p.Sub(s.center).Len()
		if m.mode == Scale && s.param == 0 {
			return false
		}
	default:
		t, ok := axisParam(r, s.center, a.vector())
		if !ok || (m.mode == Scale && math32.Abs(t) < 1e-6) {
			return false
		}
		s.param = t
	}
	m.drag = s
	m.axis = a
	m.dragging = true
	if m.OnDragging != nil {
		m.OnDragging(true)
	}
	return true
}

// Drag moves the active drag to r. It returns false when nothing changed.
func (m *Manipulator) Drag(r scene.Ray) bool {
	if !m.dragging {
		return false
	}
	s := m.drag
	pos, rot, scale := s.pos, s.rot, s.scale
	u := m.axis.vector()
	switch {
	case m.mode == Rotate:
		p, ok := planeHit(r, s.center, u)
		if !ok {
			return false
		}
		v0, v1 := s.point.Sub(s.center), p.Sub(s.center)
		angle := math32.Atan2(u.Dot(v0.Cross(v1)), v0.Dot(v1))
		rot[m.axis-AxisX] += angle
	case m.axis == AxisAll:
		p, ok := planeHit(r, s.center, m.viewNormal(r))
		if !ok {
			return false
		}
		if m.mode == Translate {
			pos = pos.Add(p.Sub(s.point))
		} else {
			f := max(p.Sub(s.center).Len()/s.param, minScale)
			scale = scale.Mul(f)
		}
	default:
		t, ok := axisParam(r, s.center, u)
		if !ok {
			return false
		}
		if m.mode == Translate {
			pos = pos.Add(u.Mul(t - s.param))
		} else {
			scale[m.axis-AxisX] *= max(t/s.param, minScale)
		}
	}
	return m.set(pos, rot, scale)
}

// End finishes the active drag.
func (m *Manipulator) End() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.axis = AxisNone
	if m.OnDragging != nil {
		m.OnDragging(false)
	}
}

// Translate moves the bound node by d.
func (m *Manipulator) Translate(d mgl32.Vec3) bool {
	if m.node == nil {
		return false
	}
	return m.set(m.node.Position.Add(d), m.node.Rotation, m.node.Scale)
}

// Rotate adds d, in radians, to the bound node's Euler angles.
func (m *Manipulator) Rotate(d mgl32.Vec3) bool {
	if m.node == nil {
		return false
	}
	return m.set(m.node.Position, m.node.Rotation.Add(d), m.node.Scale)
}

// ScaleBy multiplies the bound node's scale component-wise by f.
func (m *Manipulator) ScaleBy(f mgl32.Vec3) bool {
	if m.node == nil {
		return false
	}
	s := m.node.Scale
	return m.set(m.node.Position, m.node.Rotation, mgl32.Vec3{s[0] * f[0], s[1] * f[1], s[2] * f[2]})
}

func (m *Manipulator) set(pos, rot, scale mgl32.Vec3) bool {
	n := m.node
	if n.Position == pos && n.Rotation == rot && n.Scale == scale {
		return false
	}
	n.SetTransform(pos, rot, scale)
	if m.OnChange != nil {
		m.OnChange(n)
	}
	return true
}

func (m *Manipulator) viewNormal(r scene.Ray) mgl32.Vec3 {
	if m.Camera != nil {
		return m.Camera.Forward()
	}
	return r.Dir
}

// axisParam returns the parameter along the line c + t·u closest to r.
func axisParam(r scene.Ray, c, u mgl32.Vec3) (float32, bool) {
	w := r.Origin.Sub(c)
	b := r.Dir.Dot(u)
	den := 1 - b*b
	if den < 1e-6 {
		return 0, false
	}
	return (u.Dot(w) - b*r.Dir.Dot(w)) / den, true
}

func planeHit(r scene.Ray, p, n mgl32.Vec3) (mgl32.Vec3, bool) {
	den := n.Dot(r.Dir)
	if math32.Abs(den) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := n.Dot(p.Sub(r.Origin)) / den
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}
