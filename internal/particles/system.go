// Package particles implements the procedural effects a ParticleSystem object can show:
// fire, rain, snow, steam, fog, magic and water. Each effect owns fixed-size flat buffers
// allocated at creation and mutated in place on every tick.
package particles

import (
	"math/rand/v2"

	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

// tick is the fixed per-frame step the effects integrate with, independent of real frame time.
const tick = 0.016

// effect is implemented by every particle kind. The set is closed: New switches over
// all of sceneobj.ParticleTypes.
type effect interface {
	node() *scene.Node
	update(elapsed float32)
	count() int
}

// yawing effects turn their emitter about Y on every tick.
type yawing interface {
	yaws() bool
}

// System is a live particle effect. Node is what gets attached to the scene.
type System struct {
	Type sceneobj.ParticleType
	Node *scene.Node
	fx   effect
}

// New builds the effect for pt using rng for every random draw. An unknown type yields
// an empty point cloud that updates as a no-op.
func New(pt sceneobj.ParticleType, rng *rand.Rand) *System {
	var fx effect
	switch pt {
	case sceneobj.Fire:
		fx = newFire(rng)
	case sceneobj.Rain:
		fx = newPrecipitation(rng, false)
	case sceneobj.Snow:
		fx = newPrecipitation(rng, true)
	case sceneobj.Steam:
		fx = newSteam(rng)
	case sceneobj.Fog:
		fx = newFog(rng)
	case sceneobj.Magic:
		fx = newMagic(rng)
	case sceneobj.Water:
		fx = newWater()
	default:
		fx = empty{n: scene.NewPoints(&scene.Geometry{}, &scene.Material{Kind: scene.PointsMaterial, Opacity: 1})}
	}
	return &System{Type: pt, Node: fx.node(), fx: fx}
}

// Update advances the effect to elapsed seconds since the loop started.
func (s *System) Update(elapsed float32) { s.fx.update(elapsed) }

// Count returns the number of particles (or vertices, for water).
func (s *System) Count() int { return s.fx.count() }

// OwnsYaw reports whether the effect drives the Y rotation of Node itself, so only X
// and Z should come from the object.
func (s *System) OwnsYaw() bool {
	y, ok := s.fx.(yawing)
	return ok && y.yaws()
}

// Dispose detaches the node and releases its buffers. Shared textures survive.
func (s *System) Dispose() { s.Node.Dispose() }

type empty struct{ n *scene.Node }

func (e empty) node() *scene.Node { return e.n }
func (empty) update(float32)      {}
func (empty) count() int          { return 0 }

// spread returns a value uniform in [-w/2, w/2).
func spread(rng *rand.Rand, w float32) float32 {
	return (rng.Float32() - 0.5) * w
}

func pointsMaterial(size float32) *scene.Material {
	return &scene.Material{
		Kind:        scene.PointsMaterial,
		Color:       scene.White,
		Size:        size,
		Opacity:     1,
		Transparent: true,
		DepthWrite:  false,
	}
}
