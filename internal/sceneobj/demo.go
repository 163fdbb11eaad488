package sceneobj

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DemoState is the scene a fresh editor opens with: four primitives, the cube selected,
// the Move tool active and the sun at noon.
func DemoState() State {
	return State{
		Objects: []Object{
			{
				ID: "initial-cube-1", Name: "Blue Cube", Kind: Cube,
				Position: mgl32.Vec3{-2, 0.5, 0},
				Rotation: mgl32.Vec3{0, math.Pi / 4, 0},
				Scale:    mgl32.Vec3{1, 1, 1},
				Color:    "#4285F4",
			},
			{
				ID: "initial-sphere-1", Name: "Red Sphere", Kind: Sphere,
				Position: mgl32.Vec3{2, 0.75, 1},
				Scale:    mgl32.Vec3{1.5, 1.5, 1.5},
				Color:    "#DB4437",
			},
			{
				ID: "initial-plane-1", Name: "Green Plane", Kind: Plane,
				Position: mgl32.Vec3{0, 0.01, -2},
				Rotation: mgl32.Vec3{-math.Pi / 2, 0, 0},
				Scale:    mgl32.Vec3{3, 2, 1},
				Color:    "#0F9D58",
			},
			{
				ID: "initial-cylinder-1", Name: "Yellow Cylinder", Kind: Cylinder,
				Position: mgl32.Vec3{0, 0.5, 2},
				Scale:    mgl32.Vec3{0.5, 1, 0.5},
				Color:    "#F4B400",
			},
		},
		Selected: "initial-cube-1",
		Tool:     ToolMove,
		SkyTime:  DefaultSkyTime,
	}
}
