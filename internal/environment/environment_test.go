package environment

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/scene"
)

func TestNoon(t *testing.T) {
	l := At(12)
	assert.Equal(t, scene.White, l.Color)
	assert.InDelta(t, 1.5, l.Intensity, 1e-6)
	assert.InDelta(t, 1.0, l.Ambient, 1e-6)
	assert.InDelta(t, 20, l.Position.Y(), 1e-4, "zenith")
	assert.InDelta(t, 0, l.Position.Z(), 1e-4)
}

func TestSunriseAndSunset(t *testing.T) {
	rise := At(6)
	assert.InDelta(t, 0, rise.Position.Y(), 1e-4)
	assert.InDelta(t, 20, rise.Position.Z(), 1e-4)
	assert.InDelta(t, 1.0, rise.Intensity, 1e-6)

	set := At(18)
	assert.InDelta(t, 0, set.Position.Y(), 1e-4)
	assert.InDelta(t, -20, set.Position.Z(), 1e-4)
}

func TestInterpolation(t *testing.T) {
	l := At(7)
	assert.InDelta(t, 1.1, l.Intensity, 1e-5)
	assert.InDelta(t, 0.6, l.Ambient, 1e-5)
	want := dawn.BlendLinearRgb(morning, 0.5)
	assert.InDelta(t, want.R, l.Color.R, 1e-6)
	assert.InDelta(t, want.G, l.Color.G, 1e-6)
	assert.InDelta(t, want.B, l.Color.B, 1e-6)
	assert.Greater(t, l.Color.B, dawn.BlendRgb(morning, 0.5).B, "linear blending is lighter mid-way")
}

func TestEndsAndClamp(t *testing.T) {
	assert.InDelta(t, 0.05, At(24).Ambient, 1e-6)
	assert.Equal(t, At(0), At(-3))
	assert.Equal(t, At(24), At(30))
}

func TestApply(t *testing.T) {
	s := scene.New()
	At(20).Apply(s)
	assert.InDelta(t, 0.1, s.Sun.Intensity, 1e-6)
	assert.InDelta(t, 0.05, s.Ambient.Intensity, 1e-6)
}

type queue chan func()

func (q queue) post(fn func()) { q <- fn }

// wait runs the next posted completion.
func (q queue) wait() { (<-q)() }

func loader(err error) PanoramaLoader {
	return func(context.Context) (*scene.Texture, error) {
		if err != nil {
			return nil, err
		}
		return scene.NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 2))), nil
	}
}

func TestSkyboxTransitions(t *testing.T) {
	s := scene.New()
	theme := colorful.Color{R: 0.1, G: 0.1, B: 0.1}
	q := make(queue, 4)
	e := New(s, theme, loader(nil), q.post, nil)
	assert.Equal(t, theme, s.Background)

	e.SetSkybox(true)
	assert.True(t, e.Loading())
	e.SetSkybox(true)
	q.wait()
	require.True(t, e.Shown())
	tex := s.Panorama
	require.NotNil(t, tex)

	e.SetTheme(colorful.Color{R: 1})
	assert.Equal(t, theme, s.Background, "panorama stays in front")

	e.SetSkybox(false)
	assert.False(t, e.Shown())
	assert.Nil(t, s.Panorama)
	assert.True(t, tex.Disposed())
	assert.Equal(t, colorful.Color{R: 1}, s.Background)
}

func TestStaleSkyboxLoadDropped(t *testing.T) {
	s := scene.New()
	q := make(queue, 4)
	e := New(s, scene.White, loader(nil), q.post, nil)

	e.SetSkybox(true)
	e.SetSkybox(false)
	q.wait()
	assert.False(t, e.Shown())
	assert.Nil(t, s.Panorama)
}

func TestSkyboxLoadError(t *testing.T) {
	s := scene.New()
	q := make(queue, 4)
	e := New(s, scene.White, loader(errors.New("offline")), q.post, nil)
	e.SetSkybox(true)
	q.wait()
	assert.False(t, e.Shown())
	assert.False(t, e.Loading())
}
