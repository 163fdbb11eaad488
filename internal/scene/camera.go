package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults for the editor viewport.
const (
	DefaultFov  = 75
	DefaultNear = 0.1
	DefaultFar  = 2000
)

// Camera is a perspective camera looking from Position at Target.
// Fov is the vertical field of view in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Fov      float32
	Near     float32
	Far      float32
	Aspect   float32
}

// NewCamera returns the editor camera at (5,5,15) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{5, 5, 15},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      DefaultFov,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Aspect:   16.0 / 9.0,
	}
}

// SetViewport updates the aspect ratio after a resize. Zero sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit right vector of the view.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

// RayFromNDC returns the world ray through a point in normalized device coordinates,
// x and y in [-1, 1] with +y up.
func (c *Camera) RayFromNDC(x, y float32) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{x, y, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{x, y, 1}, inv)
	return NewRay(near, far.Sub(near))
}

// Project maps a world point to NDC.
func (c *Camera) Project(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, c.Projection().Mul4(c.View()))
}

// PointerToNDC converts pixel coordinates within a viewport to NDC.
func PointerToNDC(px, py float32, width, height int) (float32, float32) {
	return px/float32(width)*2 - 1, -(py/float32(height))*2 + 1
}
