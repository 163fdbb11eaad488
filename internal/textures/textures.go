// Package textures builds the procedural textures shared by every particle system and
// audio billboard. Each is rasterized once per process on first use and marked Shared,
// so disposing an entity never frees it.
package textures

import (
	"image"
	"image/color"
	"sync"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"scene-editor/internal/scene"
)

const (
	particleSize = 128
	speakerSize  = 64
)

var (
	dotOnce, sparkOnce, smokeOnce, speakerOnce sync.Once
	dot, spark, smoke, speaker                 *scene.Texture
)

// Dot is a filled blue disc used by rain and snow.
func Dot() *scene.Texture {
	dotOnce.Do(func() { dot = shared("dot", renderDot()) })
	return dot
}

// Spark is a white-hot radial glow fading through yellow and orange, used by fire and magic.
func Spark() *scene.Texture {
	sparkOnce.Do(func() {
		spark = shared("spark", renderRadial([]stop{
			{0, rgba(255, 255, 255, 1)},
			{0.2, rgba(255, 255, 0, 1)},
			{0.4, rgba(255, 165, 0, 0.5)},
			{1, rgba(255, 255, 255, 0)},
		}))
	})
	return spark
}

// Smoke is a soft grey puff used by steam and fog.
func Smoke() *scene.Texture {
	smokeOnce.Do(func() {
		smoke = shared("smoke", renderRadial([]stop{
			{0.3, rgba(128, 128, 128, 0.6)},
			{1, rgba(128, 128, 128, 0)},
		}))
	})
	return smoke
}

// Speaker is the billboard icon of audio objects.
func Speaker() *scene.Texture {
	speakerOnce.Do(func() { speaker = shared("speaker", renderSpeaker()) })
	return speaker
}

func shared(name string, img *image.RGBA) *scene.Texture {
	return &scene.Texture{Name: name, Image: img, Shared: true}
}

type stop struct {
	at float32
	c  straight
}

// straight is a non-premultiplied color.
type straight struct {
	col colorful.Color
	a   float64
}

func rgba(r, g, b uint8, a float64) straight {
	return straight{col: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, a: a}
}

func (s straight) premultiplied() color.RGBA {
	r, g, b := s.col.Clamped().RGB255()
	return color.RGBA{
		R: uint8(float64(r) * s.a),
		G: uint8(float64(g) * s.a),
		B: uint8(float64(b) * s.a),
		A: uint8(s.a*255 + 0.5),
	}
}

// sample evaluates a gradient the way a 2D canvas does: clamp before the first and after the last stop.
func sample(stops []stop, t float32) straight {
	if t <= stops[0].at {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].at {
			a, b := stops[i-1], stops[i]
			f := float64((t - a.at) / (b.at - a.at))
			return straight{col: a.c.col.BlendRgb(b.c.col, f), a: a.c.a + (b.c.a-a.c.a)*f}
		}
	}
	return stops[len(stops)-1].c
}

func renderRadial(stops []stop) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, particleSize, particleSize))
	c := float32(particleSize) / 2
	for y := range particleSize {
		for x := range particleSize {
			dx, dy := float32(x)+0.5-c, float32(y)+0.5-c
			t := math32.Sqrt(dx*dx+dy*dy) / c
			img.SetRGBA(x, y, sample(stops, t).premultiplied())
		}
	}
	return img
}

func renderDot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, particleSize, particleSize))
	z := vector.NewRasterizer(particleSize, particleSize)
	circle(z, 64, 64, 60)
	z.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0x4A, 0x90, 0xE2, 0xFF}), image.Point{})
	return img
}

func renderSpeaker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, speakerSize, speakerSize))
	body := []float32{12, 22, 24, 22, 36, 12, 36, 52, 24, 42, 12, 42}

	fill := vector.NewRasterizer(speakerSize, speakerSize)
	polygon(fill, body)
	fill.Draw(img, img.Bounds(), image.NewUniform(straight{colorful.Color{R: 220.0 / 255, G: 220.0 / 255, B: 220.0 / 255}, 0.9}.premultiplied()), image.Point{})

	stroke := vector.NewRasterizer(speakerSize, speakerSize)
	for i := 0; i < len(body); i += 2 {
		j := (i + 2) % len(body)
		segment(stroke, body[i], body[i+1], body[j], body[j+1], 1.5)
	}
	arc(stroke, 40, 32, 6, -math32.Pi/2.5, math32.Pi/2.5, 1.5)
	arc(stroke, 40, 32, 12, -math32.Pi/2.5, math32.Pi/2.5, 1.5)
	stroke.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{})
	return img
}

func polygon(z *vector.Rasterizer, pts []float32) {
	z.MoveTo(pts[0], pts[1])
	for i := 2; i < len(pts); i += 2 {
		z.LineTo(pts[i], pts[i+1])
	}
	z.ClosePath()
}

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	const steps = 64
	z.MoveTo(cx+r, cy)
	for i := 1; i < steps; i++ {
		a := float32(i) / steps * 2 * math32.Pi
		z.LineTo(cx+r*math32.Cos(a), cy+r*math32.Sin(a))
	}
	z.ClosePath()
}

// segment adds a line of width 2*half as a quad.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, half float32) {
	dx, dy := x1-x0, y1-y0
	l := math32.Sqrt(dx*dx + dy*dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	polygon(z, []float32{x0 + nx, y0 + ny, x1 + nx, y1 + ny, x1 - nx, y1 - ny, x0 - nx, y0 - ny})
}

// arc adds a stroked circular arc as a ring sector.
func arc(z *vector.Rasterizer, cx, cy, r, from, to, half float32) {
	const steps = 16
	pts := make([]float32, 0, 4*(steps+1))
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float32(i)/steps
		pts = append(pts, cx+(r+half)*math32.Cos(a), cy+(r+half)*math32.Sin(a))
	}
	for i := steps; i >= 0; i-- {
		a := from + (to-from)*float32(i)/steps
		pts = append(pts, cx+(r-half)*math32.Cos(a), cy+(r-half)*math32.Sin(a))
	}
	polygon(z, pts)
}
