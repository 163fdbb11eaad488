package manip

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/logger"
	"scene-editor/internal/reconcile"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

// Store receives manipulated transforms.
type Store interface {
	SetTransform(id string, pos, rot, scale mgl32.Vec3) bool
}

// Entities looks up live entities by object id.
type Entities interface {
	Entity(id string) (*reconcile.Entity, bool)
}

// Binder keeps the manipulator attached to the selected entity. It is attached exactly
// when there is a selection, a tool, and a visible live entity for the selection.
type Binder struct {
	manip    *Manipulator
	store    Store
	entities Entities
	controls *scene.OrbitControls
	log      *slog.Logger

	id string
}

// NewBinder wires m to write through st. controls may be nil; when set, orbiting is
// suspended for the length of every drag.
func NewBinder(m *Manipulator, st Store, ents Entities, controls *scene.OrbitControls, log *slog.Logger) *Binder {
	b := &Binder{manip: m, store: st, entities: ents, controls: controls, log: logger.OrDiscard(log)}
	m.OnChange = b.write
	m.OnDragging = b.dragging
	return b
}

// ModeFor maps a tool to its manipulator mode.
func ModeFor(t sceneobj.Tool) (Mode, bool) {
	switch t {
	case sceneobj.ToolMove:
		return Translate, true
	case sceneobj.ToolRotate:
		return Rotate, true
	case sceneobj.ToolScale:
		return Scale, true
	}
	return 0, false
}

// Sync attaches, detaches or re-modes the manipulator for st. Call it after every
// reconciliation pass.
func (b *Binder) Sync(st sceneobj.State) {
	mode, ok := ModeFor(st.Tool)
	if !ok || st.Selected == "" {
		b.detach()
		return
	}
	e, ok := b.entities.Entity(st.Selected)
	if !ok || !e.Node.Visible {
		b.detach()
		return
	}
	if b.id != st.Selected || b.manip.Node() != e.Node {
		b.detach()
		b.log.Debug("manipulator attached", "id", e.ID, "mode", mode.String())
	}
	b.id = e.ID
	b.manip.Attach(e.Node, mode)
}

// Release detaches the manipulator if it is bound to id. The reconciler calls it
// before destroying an entity.
func (b *Binder) Release(id string) {
	if id != "" && id == b.id {
		b.detach()
	}
}

// Bound returns the id the manipulator is attached to.
func (b *Binder) Bound() (string, bool) {
	return b.id, b.id != ""
}

func (b *Binder) Manipulator() *Manipulator { return b.manip }

func (b *Binder) detach() {
	if b.id == "" && b.manip.Node() == nil {
		return
	}
	b.manip.Detach()
	b.id = ""
}

func (b *Binder) write(n *scene.Node) {
	if b.id == "" {
		return
	}
	if !b.store.SetTransform(b.id, n.Position, n.Rotation, n.Scale) {
		b.log.Warn("manipulated object is gone", "id", b.id)
	}
}

func (b *Binder) dragging(on bool) {
	if b.controls != nil {
		b.controls.Enabled = !on
	}
}
