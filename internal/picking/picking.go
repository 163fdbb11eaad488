// Package picking turns pointer events into selection changes and manipulator drags.
package picking

import (
	"log/slog"

	"scene-editor/internal/logger"
	"scene-editor/internal/manip"
	"scene-editor/internal/media"
	"scene-editor/internal/reconcile"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

// Entities is the live scene as seen by picking.
type Entities interface {
	// Nodes returns the roots of visible entities.
	Nodes() []*scene.Node
	Entity(id string) (*reconcile.Entity, bool)
}

// Selector receives the picked selection.
type Selector interface {
	Select(id string)
}

// Result says what a pointer-down did.
type Result int

const (
	// Ignored means a drag was already running.
	Ignored Result = iota
	// Grabbed means the pointer landed on a manipulator handle and started a drag.
	Grabbed
	Selected
	Cleared
)

// Picker resolves pointer coordinates against the visible entities.
type Picker struct {
	Camera *scene.Camera

	entities Entities
	store    Selector
	manip    *manip.Manipulator
	log      *slog.Logger
}

// New returns a picker. m may be nil when no manipulator is in use.
func New(cam *scene.Camera, ents Entities, store Selector, m *manip.Manipulator, log *slog.Logger) *Picker {
	return &Picker{Camera: cam, entities: ents, store: store, manip: m, log: logger.OrDiscard(log)}
}

// Pick returns the id of the object under the NDC point (x, y), without side effects.
func (p *Picker) Pick(x, y float32) (string, bool) {
	rc := scene.Raycaster{Ray: p.Camera.RayFromNDC(x, y), Camera: p.Camera}
	hits := rc.IntersectNodes(p.entities.Nodes())
	if len(hits) == 0 {
		return "", false
	}
	return Owner(hits[0].Node)
}

// Owner walks from n up to the first node tagged with an object id. Parts of an
// imported model are untagged; their model root carries the id.
func Owner(n *scene.Node) (string, bool) {
	for ; n != nil; n = n.Parent() {
		if n.Tag != "" {
			return n.Tag, true
		}
	}
	return "", false
}

// PointerDown handles a press at NDC (x, y). A press on a manipulator handle starts a
// drag; otherwise the hit object becomes the selection, or the selection is cleared.
// Picking an Audio object also toggles its playback.
func (p *Picker) PointerDown(x, y float32) Result {
	if p.manip != nil {
		if p.manip.Dragging() {
			return Ignored
		}
		if p.manip.Begin(p.Camera.RayFromNDC(x, y)) {
			return Grabbed
		}
	}
	id, ok := p.Pick(x, y)
	if !ok {
		p.store.Select("")
		return Cleared
	}
	p.store.Select(id)
	if e, ok := p.entities.Entity(id); ok && e.Kind == sceneobj.Audio && e.Audio != nil {
		if err := media.Toggle(e.Audio); err != nil {
			p.log.Warn("audio playback", "id", id, "err", err)
		}
	}
	return Selected
}

// PointerMove continues a manipulator drag.
func (p *Picker) PointerMove(x, y float32) bool {
	if p.manip == nil || !p.manip.Dragging() {
		return false
	}
	return p.manip.Drag(p.Camera.RayFromNDC(x, y))
}

// PointerUp ends a manipulator drag.
func (p *Picker) PointerUp() {
	if p.manip != nil {
		p.manip.End()
	}
}
