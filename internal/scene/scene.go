// Package scene is the retained 3D scene graph the editor renders: nodes with geometry
// and materials, lights, a perspective camera with orbit controls, and ray casting.
// It holds no GPU state; the graphics package uploads what it needs and watches the
// Version counters for changes.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Editor helper defaults.
const (
	GridSize      = 1000
	GridDivisions = 100
	GridOpacity   = 0.15
	// groundY sits just under y=0 so the shadow catcher never z-fights with planes placed on the grid.
	groundY = -0.01
)

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     colorful.Color
	Intensity float32
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color      colorful.Color
	Intensity  float32
	Position   mgl32.Vec3
	CastShadow bool
}

// Direction returns the unit vector from the surface toward the light.
func (d DirectionalLight) Direction() mgl32.Vec3 {
	if d.Position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Position.Normalize()
}

// Grid is the editor floor grid.
type Grid struct {
	Size      float32
	Divisions int
	Opacity   float32
	Visible   bool
}

// Scene is the root of everything that gets drawn.
type Scene struct {
	Root *Node
	// Background is the clear color used while no panorama is set.
	Background colorful.Color
	// Panorama, when set, replaces Background and doubles as the environment map.
	Panorama *Texture
	Ambient  AmbientLight
	Sun      DirectionalLight
	Grid     Grid
	Ground   *Node
}

// New returns a scene with default lights, the floor grid and the shadow catcher ground.
func New() *Scene {
	white := colorful.Color{R: 1, G: 1, B: 1}
	s := &Scene{
		Root:       NewGroup(),
		Background: colorful.Color{R: 0.07, G: 0.07, B: 0.09},
		Ambient:    AmbientLight{Color: white, Intensity: 0.8},
		Sun: DirectionalLight{
			Color:      white,
			Intensity:  1.2,
			Position:   mgl32.Vec3{8, 15, 10},
			CastShadow: true,
		},
		Grid: Grid{Size: GridSize, Divisions: GridDivisions, Opacity: GridOpacity, Visible: true},
	}
	s.Root.Name = "scene"

	ground := NewMesh(PlaneXZ(GridSize), &Material{Kind: ShadowMaterial, Opacity: 0.3, Transparent: true})
	ground.Name = "ground"
	ground.Position = mgl32.Vec3{0, groundY, 0}
	ground.ReceiveShadow = true
	s.Ground = ground
	return s
}

// Add attaches n to the root.
func (s *Scene) Add(n *Node) { s.Root.AddChild(n) }

// Remove detaches n from wherever it is in the tree.
func (s *Scene) Remove(n *Node) { n.RemoveFromParent() }

// Entities returns the tagged top-level nodes.
func (s *Scene) Entities() []*Node {
	var out []*Node
	for _, c := range s.Root.Children() {
		if c.Tag != "" {
			out = append(out, c)
		}
	}
	return out
}

// PlaneXZ returns a flat square of side size lying on y=0, facing up.
func PlaneXZ(size float32) *Geometry {
	h := size / 2
	return &Geometry{
		Positions: []float32{-h, 0, -h, h, 0, -h, h, 0, h, -h, 0, h},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		UVs:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
	}
}
