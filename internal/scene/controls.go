package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDamping is the fraction of pending motion applied per update.
const DefaultDamping = 0.05

const (
	minPolar = 1e-6
	maxPolar = math32.Pi - 1e-6
)

// OrbitControls turns pointer input into camera motion around a target point.
// Input only queues motion; Update applies a damped share of it once per frame.
type OrbitControls struct {
	Camera        *Camera
	Enabled       bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	pan        mgl32.Vec3

	focus [3]*gween.Tween
}

// NewOrbitControls attaches controls to cam with the editor damping.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        cam,
		Enabled:       true,
		DampingFactor: DefaultDamping,
		MinDistance:   0.5,
		MaxDistance:   1000,
		scale:         1,
	}
}

// Rotate queues an orbit by the given azimuth and polar angles in radians.
func (o *OrbitControls) Rotate(dTheta, dPhi float32) {
	if !o.Enabled {
		return
	}
	o.deltaTheta -= dTheta
	o.deltaPhi -= dPhi
}

// Pan queues a screen-space move of the target, in world units.
func (o *OrbitControls) Pan(dx, dy float32) {
	if !o.Enabled {
		return
	}
	right := o.Camera.Right()
	up := right.Cross(o.Camera.Forward()).Normalize()
	o.pan = o.pan.Add(right.Mul(-dx)).Add(up.Mul(dy))
}

// Dolly queues a zoom; factors below 1 move the camera closer.
func (o *OrbitControls) Dolly(factor float32) {
	if !o.Enabled || factor <= 0 {
		return
	}
	o.scale *= factor
}

// FocusOn tweens the orbit target to p over duration seconds.
func (o *OrbitControls) FocusOn(p mgl32.Vec3, duration float32) {
	t := o.Camera.Target
	for i := range 3 {
		o.focus[i] = gween.New(t[i], p[i], duration, ease.OutCubic)
	}
}

// Focusing reports whether a focus tween is running.
func (o *OrbitControls) Focusing() bool { return o.focus[0] != nil }

// Update applies damped motion and advances the focus tween by dt seconds.
// It returns true when the camera moved.
func (o *OrbitControls) Update(dt float32) bool {
	cam := o.Camera
	before := cam.Position

	if o.focus[0] != nil {
		shift := cam.Target
		done := true
		for i := range 3 {
			v, finished := o.focus[i].Update(dt)
			shift[i] = v
			done = done && finished
		}
		delta := shift.Sub(cam.Target)
		cam.Target = shift
		cam.Position = cam.Position.Add(delta)
		if done {
			o.focus = [3]*gween.Tween{}
		}
	}

	offset := cam.Position.Sub(cam.Target)
	radius := offset.Len()
	if radius == 0 {
		return false
	}
	theta := math32.Atan2(offset.X(), offset.Z())
	phi := math32.Acos(mgl32.Clamp(offset.Y()/radius, -1, 1))

	d := o.DampingFactor
	theta += o.deltaTheta * d
	phi = mgl32.Clamp(phi+o.deltaPhi*d, minPolar, maxPolar)
	radius = mgl32.Clamp(radius*(1+(o.scale-1)*d), o.MinDistance, o.MaxDistance)
	cam.Target = cam.Target.Add(o.pan.Mul(d))

	sinPhi := math32.Sin(phi)
	offset = mgl32.Vec3{
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
		radius * sinPhi * math32.Cos(theta),
	}
	cam.Position = cam.Target.Add(offset)

	o.deltaTheta *= 1 - d
	o.deltaPhi *= 1 - d
	o.pan = o.pan.Mul(1 - d)
	o.scale = 1 + (o.scale-1)*(1-d)

	return cam.Position.Sub(before).Len() > 1e-6
}
