// Package environment drives the scene's lighting from a time of day and swaps the
// background between the theme color and a panoramic skybox.
package environment

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"scene-editor/internal/scene"
)

// SunRadius is the distance of the directional light from the origin.
const SunRadius = 20

// Keyframe is one point of the day cycle.
type Keyframe struct {
	Time      float32
	Color     colorful.Color
	Intensity float32
	Ambient   float32
}

var (
	night   = scene.HexColor("#0d1a2f")
	dawn    = scene.HexColor("#ff8c61")
	morning = scene.HexColor("#ffead8")
)

// Keyframes is the sun cycle, ordered by time and spanning 0 to 24.
var Keyframes = []Keyframe{
	{0, night, 0.1, 0.05},
	{5, night, 0.1, 0.05},
	{6, dawn, 1.0, 0.4},
	{8, morning, 1.2, 0.8},
	{12, scene.White, 1.5, 1.0},
	{16, morning, 1.2, 0.8},
	{18, dawn, 1.0, 0.4},
	{20, night, 0.1, 0.05},
	{24, night, 0.1, 0.05},
}

// Lighting is the sun state for a time of day.
type Lighting struct {
	Color     colorful.Color
	Intensity float32
	Ambient   float32
	Position  mgl32.Vec3
}

// At interpolates the keyframes for time t, clamped to [0,24]. The sun rises at 6,
// peaks at 12 and sets at 18.
func At(t float32) Lighting {
	t = math32.Min(math32.Max(t, 0), 24)
	lo, hi := bracket(t)
	var f float32
	if span := hi.Time - lo.Time; span > 0 {
		f = (t - lo.Time) / span
	}
	angle := (t/24 - 0.25) * math32.Pi * 2
	return Lighting{
		Color:     lerpColor(lo.Color, hi.Color, f),
		Intensity: lo.Intensity + (hi.Intensity-lo.Intensity)*f,
		Ambient:   lo.Ambient + (hi.Ambient-lo.Ambient)*f,
		Position:  mgl32.Vec3{0, math32.Sin(angle) * SunRadius, math32.Cos(angle) * SunRadius},
	}
}

// bracket returns the last keyframe at or before t and the one after it. At t=24 both
// are the final keyframe.
func bracket(t float32) (Keyframe, Keyframe) {
	lo := 0
	for i, k := range Keyframes {
		if k.Time <= t {
			lo = i
		}
	}
	hi := min(lo+1, len(Keyframes)-1)
	return Keyframes[lo], Keyframes[hi]
}

// lerpColor blends in linear RGB. Keyframe colors are returned as is.
func lerpColor(a, b colorful.Color, f float32) colorful.Color {
	switch {
	case f <= 0:
		return a
	case f >= 1:
		return b
	}
	return a.BlendLinearRgb(b, float64(f))
}

// Apply writes the lighting onto the scene's sun and ambient light.
func (l Lighting) Apply(s *scene.Scene) {
	s.Sun.Color = l.Color
	s.Sun.Intensity = l.Intensity
	s.Sun.Position = l.Position
	s.Ambient.Intensity = l.Ambient
}
