package picking

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/assets"
	"scene-editor/internal/loop"
	"scene-editor/internal/manip"
	"scene-editor/internal/media"
	"scene-editor/internal/primitives"
	"scene-editor/internal/reconcile"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

type fakeAudio struct{ playing bool }

func (a *fakeAudio) Play() error   { a.playing = true; return nil }
func (a *fakeAudio) Pause()        { a.playing = false }
func (a *fakeAudio) Playing() bool { return a.playing }
func (a *fakeAudio) Close() error  { return nil }

type world struct {
	store  *sceneobj.Store
	rec    *reconcile.Reconciler
	queue  *loop.Queue
	cam    *scene.Camera
	picker *Picker
	audio  *fakeAudio
}

func newWorld(t *testing.T, m func(*scene.Camera) *manip.Manipulator) *world {
	t.Helper()
	w := &world{
		store: sceneobj.NewStoreWithRand(rand.New(rand.NewPCG(5, 6))),
		queue: loop.NewQueue(),
		cam:   scene.NewCamera(),
		audio: &fakeAudio{},
	}
	w.cam.Position = mgl32.Vec3{0, 0, 10}
	f := assets.NewFactory(primitives.NewRegistry())
	f.OpenAudio = func([]byte) (media.Audio, error) { return w.audio, nil }
	w.rec = reconcile.New(scene.New(), f, w.store, w.queue.Post, reconcile.Options{})
	t.Cleanup(w.rec.Close)
	var mp *manip.Manipulator
	if m != nil {
		mp = m(w.cam)
	}
	w.picker = New(w.cam, w.rec, w.store, mp, nil)
	return w
}

func (w *world) add(t *testing.T, kind sceneobj.Kind, pos mgl32.Vec3, opts sceneobj.AddOptions) string {
	t.Helper()
	o, ok := w.store.Add(kind, opts)
	require.True(t, ok)
	w.store.SetTransform(o.ID, pos, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	w.rec.Reconcile(w.store.Snapshot())
	w.rec.Wait()
	w.queue.Drain()
	return o.ID
}

// ndc projects a world point to pointer coordinates.
func (w *world) ndc(p mgl32.Vec3) (float32, float32) {
	v := w.cam.Project(p)
	return v.X(), v.Y()
}

func TestPickIsDeterministic(t *testing.T) {
	w := newWorld(t, nil)
	cube := w.add(t, sceneobj.Cube, mgl32.Vec3{}, sceneobj.AddOptions{})

	for range 3 {
		id, ok := w.picker.Pick(w.ndc(mgl32.Vec3{0.1, 0.1, 0}))
		assert.True(t, ok)
		assert.Equal(t, cube, id)
	}
	_, ok := w.picker.Pick(0.9, 0.9)
	assert.False(t, ok)
}

func TestPickNearest(t *testing.T) {
	w := newWorld(t, nil)
	w.add(t, sceneobj.Cube, mgl32.Vec3{}, sceneobj.AddOptions{})
	front := w.add(t, sceneobj.Cube, mgl32.Vec3{0, 0, 3}, sceneobj.AddOptions{})
	id, ok := w.picker.Pick(0, 0)
	require.True(t, ok)
	assert.Equal(t, front, id)
}

func TestHiddenEntitiesAreNotPicked(t *testing.T) {
	w := newWorld(t, nil)
	back := w.add(t, sceneobj.Cube, mgl32.Vec3{}, sceneobj.AddOptions{})
	front := w.add(t, sceneobj.Cube, mgl32.Vec3{0, 0, 3}, sceneobj.AddOptions{})
	w.store.SetVisible(front, false)
	w.rec.Reconcile(w.store.Snapshot())
	id, ok := w.picker.Pick(0, 0)
	require.True(t, ok)
	assert.Equal(t, back, id)
}

func TestPickResolvesModelRoot(t *testing.T) {
	w := newWorld(t, nil)
	quad := "v -1 -1 0\nv 1 -1 0\nv 1 1 0\nv -1 1 0\nf 1 2 3 4\n"
	model := w.add(t, sceneobj.Model, mgl32.Vec3{0, 3, 0}, sceneobj.AddOptions{Name: "quad.obj", Format: "obj", Src: sceneobj.TextSource(quad)})

	e, ok := w.rec.Entity(model)
	require.True(t, ok)
	require.NotEmpty(t, e.Node.Children())

	id, ok := w.picker.Pick(w.ndc(mgl32.Vec3{0.1, 3.1, 0}))
	require.True(t, ok)
	assert.Equal(t, model, id)
}

func TestOwner(t *testing.T) {
	root := scene.NewGroup()
	root.Tag = "m1"
	pivot := scene.NewGroup()
	part := scene.NewMesh(&scene.Geometry{}, scene.NewBasic(scene.White))
	root.AddChild(pivot)
	pivot.AddChild(part)

	id, ok := Owner(part)
	assert.True(t, ok)
	assert.Equal(t, "m1", id)

	_, ok = Owner(scene.NewGroup())
	assert.False(t, ok)
}

func TestPointerDownSelectsAndClears(t *testing.T) {
	w := newWorld(t, nil)
	cube := w.add(t, sceneobj.Cube, mgl32.Vec3{}, sceneobj.AddOptions{})
	w.store.Select("")

	assert.Equal(t, Selected, w.picker.PointerDown(0, 0))
	assert.Equal(t, cube, w.store.Snapshot().Selected)

	assert.Equal(t, Cleared, w.picker.PointerDown(0.9, 0.9))
	assert.Empty(t, w.store.Snapshot().Selected)
}

func TestPickingAudioTogglesPlayback(t *testing.T) {
	w := newWorld(t, nil)
	speaker := w.add(t, sceneobj.Audio, mgl32.Vec3{3, 0, 0}, sceneobj.AddOptions{Name: "beep.wav", Src: sceneobj.BinarySource([]byte("RIFF"))})
	e, _ := w.rec.Entity(speaker)
	require.NotNil(t, e.Audio)

	x, y := w.ndc(mgl32.Vec3{3.1, 0.1, 0})
	assert.Equal(t, Selected, w.picker.PointerDown(x, y))
	assert.Equal(t, speaker, w.store.Snapshot().Selected)
	assert.True(t, w.audio.playing)

	w.picker.PointerDown(x, y)
	assert.False(t, w.audio.playing)
}

func TestPointerDownOnHandleStartsDrag(t *testing.T) {
	var m *manip.Manipulator
	w := newWorld(t, func(cam *scene.Camera) *manip.Manipulator {
		m = manip.NewManipulator(cam)
		return m
	})
	cube := w.add(t, sceneobj.Cube, mgl32.Vec3{}, sceneobj.AddOptions{})
	e, _ := w.rec.Entity(cube)
	m.Attach(e.Node, manip.Translate)
	w.store.Select("")

	assert.Equal(t, Grabbed, w.picker.PointerDown(0, 0))
	assert.Empty(t, w.store.Snapshot().Selected, "a handle press does not pick")
	assert.Equal(t, Ignored, w.picker.PointerDown(0.9, 0.9), "presses during a drag are ignored")

	assert.True(t, w.picker.PointerMove(w.ndc(mgl32.Vec3{1, 1, 0})))
	assert.InDelta(t, 1, e.Node.Position.X(), 1e-3)
	assert.InDelta(t, 1, e.Node.Position.Y(), 1e-3)
	w.picker.PointerUp()
	assert.False(t, m.Dragging())
	assert.False(t, w.picker.PointerMove(0.5, 0.5))
}
