package scene

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// MaterialKind selects the shading model.
type MaterialKind int

const (
	// StandardMaterial is lit with metalness/roughness.
	StandardMaterial MaterialKind = iota
	// BasicMaterial ignores lighting.
	BasicMaterial
	// PointsMaterial draws one textured square per vertex.
	PointsMaterial
	// SpriteMaterial draws a camera-facing quad.
	SpriteMaterial
	// ShadowMaterial only shows shadows cast onto it.
	ShadowMaterial
)

// Blending is the framebuffer blend mode.
type Blending int

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

// Material describes how a node is shaded.
type Material struct {
	Kind         MaterialKind
	Color        colorful.Color
	Metalness    float32
	Roughness    float32
	Opacity      float32
	Transparent  bool
	DoubleSided  bool
	VertexColors bool
	Blending     Blending
	DepthWrite   bool
	// Size is the point size in world units for PointsMaterial.
	Size float32
	Map  *Texture

	// Version increases when a value the renderer caches changes.
	Version  uint64
	disposed bool
}

// NewStandard returns a lit opaque material.
func NewStandard(c colorful.Color, metalness, roughness float32) *Material {
	return &Material{Kind: StandardMaterial, Color: c, Metalness: metalness, Roughness: roughness, Opacity: 1, DepthWrite: true}
}

// NewBasic returns an unlit material.
func NewBasic(c colorful.Color) *Material {
	return &Material{Kind: BasicMaterial, Color: c, Opacity: 1, DepthWrite: true}
}

// SetColor changes the base color.
func (m *Material) SetColor(c colorful.Color) {
	if m.Color == c {
		return
	}
	m.Color = c
	m.Version++
}

// SetOpacity changes the opacity.
func (m *Material) SetOpacity(o float32) {
	m.Opacity = o
	m.Version++
}

// Dispose releases the material and its texture unless the texture is shared.
func (m *Material) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	if m.Map != nil && !m.Map.Shared {
		m.Map.Dispose()
	}
	m.Version++
}

// Disposed reports whether Dispose was called.
func (m *Material) Disposed() bool { return m.disposed }

// FrameSource supplies changing texture content, such as decoded video frames.
// Frame returns the latest image and a counter that changes with each new frame.
type FrameSource interface {
	Frame() (*image.RGBA, uint64)
}

// Texture is image data a material samples. A texture has either a static Image or
// a Frames source. Shared textures are process-wide and are never disposed by a material.
type Texture struct {
	Name   string
	Image  *image.RGBA
	Frames FrameSource
	Shared bool

	Version  uint64
	disposed bool
}

// NewTexture wraps a static image.
func NewTexture(img *image.RGBA) *Texture { return &Texture{Image: img} }

// Size returns the pixel dimensions of the current content.
func (t *Texture) Size() (w, h int) {
	img := t.Current()
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Current returns the image to sample right now.
func (t *Texture) Current() *image.RGBA {
	if t.Frames != nil {
		img, _ := t.Frames.Frame()
		return img
	}
	return t.Image
}

// Revision combines the texture version with the frame counter of a dynamic source.
func (t *Texture) Revision() uint64 {
	if t.Frames != nil {
		_, n := t.Frames.Frame()
		return t.Version + n
	}
	return t.Version
}

// Dispose drops the image data.
func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.Image = nil
	t.Frames = nil
	t.Version++
}

// Disposed reports whether Dispose was called.
func (t *Texture) Disposed() bool { return t.disposed }
