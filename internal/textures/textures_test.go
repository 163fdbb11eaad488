package textures

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedSingletons(t *testing.T) {
	assert.Same(t, Dot(), Dot())
	assert.Same(t, Spark(), Spark())
	assert.Same(t, Smoke(), Smoke())
	assert.Same(t, Speaker(), Speaker())
	assert.True(t, Dot().Shared)
	assert.True(t, Speaker().Shared)
}

func TestDotPixels(t *testing.T) {
	img := Dot().Image
	assert.Equal(t, 128, img.Bounds().Dx())
	center := img.RGBAAt(64, 64)
	assert.Equal(t, uint8(0x4A), center.R)
	assert.Equal(t, uint8(0xE2), center.B)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A, "corners stay clear")
}

func TestSparkGradient(t *testing.T) {
	img := Spark().Image
	center := img.RGBAAt(64, 64)
	assert.Greater(t, center.A, uint8(250))
	assert.Greater(t, center.B, uint8(200), "white-hot core")
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestSmokePlateau(t *testing.T) {
	img := Smoke().Image
	c := img.RGBAAt(64, 64)
	assert.InDelta(t, 153, int(c.A), 1)
	assert.InDelta(t, int(img.RGBAAt(70, 64).A), int(c.A), 1, "flat inside the first stop")
}

func TestSpeakerSize(t *testing.T) {
	img := Speaker().Image
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Positive(t, img.RGBAAt(20, 32).A)
}
