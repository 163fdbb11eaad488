// Package assets builds live scene nodes from declarative objects: primitive meshes,
// extruded text, image and video quads, the audio billboard and imported models.
// Anything slow (decoding, parsing, fetching) is split off as a Job the caller runs
// on a goroutine; its Completion is applied back on the loop thread.
package assets

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/download"
	"scene-editor/internal/environment"
	"scene-editor/internal/fonts"
	"scene-editor/internal/media"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
	"scene-editor/internal/textures"
)

// DefaultMaxTextureSize bounds decoded image textures on either side.
const DefaultMaxTextureSize = 2048

// Built is what the factory made for one object.
type Built struct {
	// Node is the tagged root, already carrying the object's transform and visibility.
	Node  *scene.Node
	Audio media.Audio
	Video media.Video
}

// Patch edits the declarative object once a build learns something about its
// content, such as the aspect ratio of an image.
type Patch func(*sceneobj.Object)

// Job is the slow half of a build. It must not touch the scene graph.
type Job func(ctx context.Context) Completion

// Completion is a finished Job, applied on the loop thread. Apply installs the result
// into the entity it was started for and may return a store patch. Discard releases the
// result when the entity is gone by the time the completion is drained.
type Completion interface {
	Apply(b *Built) (Patch, error)
	Discard()
}

// Factory builds nodes for objects. The zero value is not usable; use NewFactory.
type Factory struct {
	Primitives     *primitives.Registry
	OpenAudio      func(data []byte) (media.Audio, error)
	OpenVideo      func(data []byte) (media.Video, error)
	Fetch          Fetcher
	MaxTextureSize int
}

// NewFactory returns a factory using reg for primitive definitions and remote fetches
// via the download package. Audio and Video objects stay empty until OpenAudio and
// OpenVideo are set.
func NewFactory(reg *primitives.Registry) *Factory {
	return &Factory{
		Primitives:     reg,
		Fetch:          download.Fetch,
		MaxTextureSize: DefaultMaxTextureSize,
	}
}

// Build creates the node for obj. The returned Job, when not nil, finishes the build
// asynchronously. font may be nil; Text3D objects then fail with ErrNoFont.
// Skybox and ParticleSystem objects are not built here.
func (f *Factory) Build(obj sceneobj.Object, font *fonts.Font) (*Built, Job, error) {
	var (
		b   = &Built{}
		job Job
		err error
	)
	switch {
	case obj.Kind.IsPrimitive():
		b.Node, err = f.primitive(obj)
	case obj.Kind == sceneobj.Text3D:
		b.Node, err = f.text(obj, font)
	case obj.Kind == sceneobj.Image:
		b.Node, job = f.image(obj)
	case obj.Kind == sceneobj.Video:
		b.Node, job = f.video(obj)
	case obj.Kind == sceneobj.Audio:
		b.Node, job = f.audio(obj)
	case obj.Kind == sceneobj.Model:
		b.Node, job, err = f.model(obj)
	default:
		err = fmt.Errorf("%w: kind %q", ErrUnsupported, obj.Kind)
	}
	if err != nil {
		return nil, nil, wrap(obj, err)
	}
	b.Node.Tag = obj.ID
	b.Node.TagKind = string(obj.Kind)
	b.Node.Name = obj.Name
	b.Node.SetTransform(obj.Position, obj.Rotation, obj.Scale)
	b.Node.Visible = obj.Visible()
	if job != nil {
		job = f.wrapJob(obj, job)
	}
	return b, job, nil
}

func (f *Factory) wrapJob(obj sceneobj.Object, job Job) Job {
	return func(ctx context.Context) Completion {
		c := job(ctx)
		if fc, ok := c.(failed); ok {
			return failed{wrap(obj, fc.err)}
		}
		return c
	}
}

func (f *Factory) primitive(obj sceneobj.Object) (*scene.Node, error) {
	def, ok := f.Primitives.Def(string(obj.Kind))
	if !ok {
		return nil, fmt.Errorf("%w: no primitive definition for %q", ErrUnsupported, obj.Kind)
	}
	geo, err := f.Primitives.Geometry(string(obj.Kind))
	if err != nil {
		return nil, err
	}
	mesh := scene.NewMesh(geo, scene.NewStandard(scene.HexColor(obj.Color), def.Metalness, def.Roughness))
	mesh.CastShadow = def.CastShadow
	mesh.ReceiveShadow = true
	return mesh, nil
}

func (f *Factory) text(obj sceneobj.Object, font *fonts.Font) (*scene.Node, error) {
	def, _ := f.Primitives.Def(string(sceneobj.Text3D))
	bevel := Bevel{
		Thickness: def.Dim(2, DefaultBevel.Thickness),
		Size:      def.Dim(3, DefaultBevel.Size),
		Segments:  def.Segs(1, DefaultBevel.Segments),
	}
	geo, err := TextGeometry(font, obj.Text, def.Dim(0, TextSize), def.Dim(1, TextDepth), def.Segs(0, TextCurveSegments), bevel)
	if err != nil {
		return nil, err
	}
	mesh := scene.NewMesh(geo, scene.NewStandard(scene.HexColor(obj.Color), def.Metalness, def.Roughness))
	mesh.CastShadow, mesh.ReceiveShadow = true, true
	return mesh, nil
}

// quad is the double-sided unlit unit plane images and videos are drawn on.
func quad() *scene.Node {
	m := scene.NewBasic(scene.White)
	m.DoubleSided = true
	return scene.NewMesh(primitives.Plane(1, 1, 1, 1), m)
}

// aspect keeps the object's current height and sets its width from the content size.
func aspect(w, h int) Patch {
	if w <= 0 || h <= 0 {
		return nil
	}
	r := float32(w) / float32(h)
	return func(o *sceneobj.Object) {
		sy := o.Scale.Y()
		o.Scale = mgl32.Vec3{sy * r, sy, 1}
	}
}

func (f *Factory) image(obj sceneobj.Object) (*scene.Node, Job) {
	n := quad()
	if obj.Src.IsZero() {
		return n, nil
	}
	src, limit := obj.Src, f.MaxTextureSize
	return n, func(ctx context.Context) Completion {
		data, err := Resolve(ctx, src, f.Fetch, false)
		if err != nil {
			return failed{err}
		}
		img, size, err := DecodeImage(data, limit)
		if err != nil {
			return failed{err}
		}
		return imageDone{tex: scene.NewTexture(img), w: size.X, h: size.Y}
	}
}

type imageDone struct {
	tex  *scene.Texture
	w, h int
}

func (d imageDone) Apply(b *Built) (Patch, error) {
	setMap(b.Node, d.tex)
	return aspect(d.w, d.h), nil
}

func (d imageDone) Discard() { d.tex.Dispose() }

func setMap(n *scene.Node, t *scene.Texture) {
	if n.Material.Map != nil && !n.Material.Map.Shared {
		n.Material.Map.Dispose()
	}
	n.Material.Map = t
	n.Material.Version++
}

func (f *Factory) video(obj sceneobj.Object) (*scene.Node, Job) {
	n := quad()
	if obj.Src.IsZero() || f.OpenVideo == nil {
		return n, nil
	}
	src, open := obj.Src, f.OpenVideo
	return n, func(ctx context.Context) Completion {
		data, err := Resolve(ctx, src, f.Fetch, false)
		if err != nil {
			return failed{err}
		}
		clip, err := open(data)
		if err != nil {
			return failed{err}
		}
		return videoDone{clip}
	}
}

type videoDone struct{ clip media.Video }

func (d videoDone) Apply(b *Built) (Patch, error) {
	if b.Video != nil {
		_ = b.Video.Close()
	}
	b.Video = d.clip
	setMap(b.Node, &scene.Texture{Name: "video", Frames: d.clip})
	return aspect(d.clip.Size()), nil
}

func (d videoDone) Discard() { _ = d.clip.Close() }

func (f *Factory) audio(obj sceneobj.Object) (*scene.Node, Job) {
	n := scene.NewSprite(&scene.Material{
		Kind:        scene.SpriteMaterial,
		Color:       scene.White,
		Opacity:     1,
		Transparent: true,
		DepthWrite:  true,
		Map:         textures.Speaker(),
	})
	if obj.Src.IsZero() || f.OpenAudio == nil {
		return n, nil
	}
	src, open := obj.Src, f.OpenAudio
	return n, func(ctx context.Context) Completion {
		data, err := Resolve(ctx, src, f.Fetch, false)
		if err != nil {
			return failed{err}
		}
		a, err := open(data)
		if err != nil {
			return failed{err}
		}
		return audioDone{a}
	}
}

type audioDone struct{ a media.Audio }

// Apply keeps an already registered handle and drops the new one.
func (d audioDone) Apply(b *Built) (Patch, error) {
	if b.Audio != nil {
		_ = d.a.Close()
		return nil, nil
	}
	b.Audio = d.a
	return nil, nil
}

func (d audioDone) Discard() { _ = d.a.Close() }

// Model formats.
const (
	FormatGLTF = "gltf"
	FormatGLB  = "glb"
	FormatOBJ  = "obj"
	FormatSTL  = "stl"
)

// model returns a tagged root holding a pivot; the parsed model hangs under the pivot,
// which is offset so the model's bounding-box center sits at the root origin.
func (f *Factory) model(obj sceneobj.Object) (*scene.Node, Job, error) {
	if obj.Src.IsZero() {
		return nil, nil, ErrEmpty
	}
	format := strings.ToLower(strings.TrimPrefix(obj.Format, "."))
	switch format {
	case FormatGLTF, FormatGLB, FormatOBJ, FormatSTL:
	default:
		return nil, nil, fmt.Errorf("%w: model format %q", ErrUnsupported, obj.Format)
	}
	root, pivot := scene.NewGroup(), scene.NewGroup()
	pivot.Name = "pivot"
	root.AddChild(pivot)

	parse := func(ctx context.Context) (*scene.Node, error) {
		data, err := Resolve(ctx, obj.Src, f.Fetch, format == FormatOBJ)
		if err != nil {
			return nil, err
		}
		return f.parseModel(format, data)
	}
	if (format == FormatOBJ || format == FormatSTL) && !IsRemote(obj.Src) {
		m, err := parse(context.Background())
		if err != nil {
			return nil, nil, err
		}
		mount(pivot, m)
		return root, nil, nil
	}
	return root, func(ctx context.Context) Completion {
		m, err := parse(ctx)
		if err != nil {
			return failed{err}
		}
		return modelDone{m}
	}, nil
}

func (f *Factory) parseModel(format string, data []byte) (*scene.Node, error) {
	switch format {
	case FormatOBJ:
		return ParseOBJ(data)
	case FormatSTL:
		return ParseSTL(data)
	}
	return ParseGLTF(data, f.MaxTextureSize)
}

func mount(pivot, model *scene.Node) {
	model.Walk(func(n *scene.Node) bool {
		if n.Kind == scene.MeshNode {
			n.CastShadow, n.ReceiveShadow = true, true
		}
		return true
	})
	box := model.BoundingBox()
	if !box.IsEmpty() {
		pivot.Position = box.Center().Mul(-1)
	}
	pivot.AddChild(model)
}

type modelDone struct{ model *scene.Node }

func (d modelDone) Apply(b *Built) (Patch, error) {
	pivot := b.Node.Children()
	if len(pivot) == 0 {
		return nil, fmt.Errorf("%w: model root without pivot", ErrUnsupported)
	}
	mount(pivot[0], d.model)
	return nil, nil
}

func (d modelDone) Discard() { d.model.Dispose() }

// failed carries a job error to the loop thread, where Apply reports it.
type failed struct{ err error }

func (c failed) Apply(*Built) (Patch, error) { return nil, c.err }
func (failed) Discard()                      {}

// Panorama returns a loader for the equirectangular skybox image at source.
func (f *Factory) Panorama(source string) environment.PanoramaLoader {
	return func(ctx context.Context) (*scene.Texture, error) {
		data, err := Resolve(ctx, sceneobj.TextSource(source), f.Fetch, false)
		if err != nil {
			return nil, err
		}
		img, _, err := DecodeImage(data, f.MaxTextureSize)
		if err != nil {
			return nil, err
		}
		t := scene.NewTexture(img)
		t.Name = "panorama"
		return t, nil
	}
}

// Fingerprint identifies the content an object was built from. Two objects with the
// same fingerprint build the same thing, apart from transform and color.
func Fingerprint(obj sceneobj.Object) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(obj.Src.Text))
	_, _ = h.Write(obj.Src.Binary)
	return fmt.Sprintf("%s|%s|%s|%x", obj.Kind, obj.Format, obj.Text, h.Sum64())
}
