// Package editor wires the object store to the live scene: reconciler, manipulator
// binding, picking, environment and the frame loop. It owns no window; the graphics
// package drives Loop and draws Scene, and the headless export path uses it as is.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/assets"
	"scene-editor/internal/codec"
	"scene-editor/internal/commands"
	"scene-editor/internal/engineconfig"
	"scene-editor/internal/environment"
	"scene-editor/internal/export"
	"scene-editor/internal/fonts"
	"scene-editor/internal/logger"
	"scene-editor/internal/loop"
	"scene-editor/internal/manip"
	"scene-editor/internal/media"
	"scene-editor/internal/picking"
	"scene-editor/internal/primitives"
	"scene-editor/internal/reconcile"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

// focusDuration is how long the camera takes to glide to the selection, in seconds.
const focusDuration = 0.6

// Options configures an Editor. Zero values pick the defaults.
type Options struct {
	Prefs engineconfig.EnginePrefs
	Log   *slog.Logger
	// Out receives console command output.
	Out        io.Writer
	Primitives *primitives.Registry
	// OpenAudio opens audio tracks. Nil leaves Audio objects silent.
	OpenAudio func(data []byte) (media.Audio, error)
	// OpenVideo decodes video clips. Nil leaves Video objects as blank screens.
	OpenVideo func(data []byte) (media.Video, error)
	// Fetch overrides remote downloads.
	Fetch assets.Fetcher
	// FontLoader finds the font for 3D text. Defaults to LoadFont.
	FontLoader func(ctx context.Context, name string) (*fonts.Font, error)
	// Headless skips the skybox panorama download.
	Headless bool
	Now      func() time.Time
}

// Editor is the editing session. Apart from Store, which is safe for concurrent use,
// every method must be called on the loop thread.
type Editor struct {
	Prefs      engineconfig.EnginePrefs
	Scene      *scene.Scene
	Camera     *scene.Camera
	Controls   *scene.OrbitControls
	Queue      *loop.Queue
	Loop       *loop.Loop
	Env        *environment.Environment
	Factory    *assets.Factory
	Reconciler *reconcile.Reconciler
	Binder     *manip.Binder
	Picker     *picking.Picker
	Commands   *commands.Registry

	store      *sceneobj.Store
	log        *slog.Logger
	fontLoader func(ctx context.Context, name string) (*fonts.Font, error)
	showFPS    bool

	state  sceneobj.State
	synced uint64
	// known holds the last payload read from or written to each scene file, so the
	// watcher can ignore the editor's own writes.
	known map[string][]byte

	ctx      context.Context
	cancel   context.CancelFunc
	jobs     sync.WaitGroup
	watchers sync.WaitGroup
}

// New assembles an editor with an empty scene.
func New(opts Options) *Editor {
	prefs := opts.Prefs
	if prefs.MaxTextureSize == 0 {
		prefs = engineconfig.Default()
	}
	log := logger.OrDiscard(opts.Log)
	seed := prefs.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	reg := opts.Primitives
	if reg == nil {
		reg = primitives.NewRegistry()
	}

	e := &Editor{
		Prefs:      prefs,
		Scene:      scene.New(),
		Camera:     scene.NewCamera(),
		Queue:      loop.NewQueue(),
		store:      sceneobj.NewStoreWithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		log:        log,
		fontLoader: opts.FontLoader,
		showFPS:    prefs.ShowFPS,
		known:      make(map[string][]byte),
	}
	if e.fontLoader == nil {
		e.fontLoader = LoadFont
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.Scene.Grid.Visible = prefs.GridVisible
	e.Camera.SetViewport(prefs.Window.Width, prefs.Window.Height)
	e.Controls = scene.NewOrbitControls(e.Camera)

	e.Factory = assets.NewFactory(reg)
	e.Factory.MaxTextureSize = prefs.MaxTextureSize
	e.Factory.OpenAudio = opts.OpenAudio
	e.Factory.OpenVideo = opts.OpenVideo
	if opts.Fetch != nil {
		e.Factory.Fetch = opts.Fetch
	}

	var panorama environment.PanoramaLoader
	if !opts.Headless {
		panorama = e.Factory.Panorama(prefs.Skybox)
	}
	e.Env = environment.New(e.Scene, scene.HexColor(prefs.Theme.Background()), panorama, e.Queue.Post, log)

	m := manip.NewManipulator(e.Camera)
	e.Reconciler = reconcile.New(e.Scene, e.Factory, e.store, e.Queue.Post, reconcile.Options{
		Environment: e.Env,
		Log:         log,
		Seed:        seed,
		OnDestroy:   func(id string) { e.Binder.Release(id) },
	})
	e.Binder = manip.NewBinder(m, e.store, e.Reconciler, e.Controls, log)
	e.Picker = picking.New(e.Camera, e.Reconciler, e.store, m, log)

	e.Loop = &loop.Loop{
		Queue:    e.Queue,
		Now:      opts.Now,
		Sync:     e.Sync,
		Controls: e.Controls,
		Sims:     []loop.Simulation{e.Reconciler},
	}

	e.Commands = commands.NewRegistry()
	e.Commands.Out = opts.Out
	commands.Register(e.Commands, e)
	return e
}

// Store returns the object store.
func (e *Editor) Store() *sceneobj.Store { return e.store }

// State returns the snapshot the live scene was last reconciled against.
func (e *Editor) State() sceneobj.State { return e.state }

// LoadDemo replaces the session with the starter scene.
func (e *Editor) LoadDemo() { e.store.Load(sceneobj.DemoState()) }

// Sync reconciles the scene when the store changed or the reconciler asked for a pass,
// then rebinds the manipulator. The loop calls it every frame.
func (e *Editor) Sync() {
	if rev := e.store.Revision(); rev != e.synced || e.Reconciler.Stale() || e.state.Objects == nil {
		e.state = e.store.Snapshot()
		e.synced = e.state.Revision
		rep := e.Reconciler.Reconcile(e.state)
		if !rep.Empty() {
			e.log.Debug("reconciled", "revision", e.synced,
				"created", len(rep.Created), "updated", len(rep.Updated),
				"rebuilt", len(rep.Rebuilt), "destroyed", len(rep.Destroyed), "failed", len(rep.Failed))
		}
	}
	e.Binder.Sync(e.state)
}

// Resize updates the camera aspect for a new viewport size.
func (e *Editor) Resize(width, height int) { e.Camera.SetViewport(width, height) }

// Save writes the object list to path as a .cyb payload.
func (e *Editor) Save(path string) error {
	if filepath.Ext(path) == "" {
		path += codec.Extension
	}
	data, err := codec.Export(e.store)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("editor: save: %w", err)
	}
	e.known[filepath.Clean(path)] = data
	e.log.Info("scene saved", "path", path, "objects", len(e.state.Objects))
	return nil
}

// Load replaces the object list with the scene file at path. On error nothing changes.
func (e *Editor) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("editor: load: %w", err)
	}
	if err := e.importPayload(path, data); err != nil {
		return err
	}
	e.log.Info("scene loaded", "path", path)
	return nil
}

func (e *Editor) importPayload(path string, data []byte) error {
	if err := codec.Import(e.store, data); err != nil {
		return fmt.Errorf("editor: load %s: %w", path, err)
	}
	e.known[filepath.Clean(path)] = data
	return nil
}

// Export writes the visible entities to path in format f.
func (e *Editor) Export(path string, f export.Format) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, e.Reconciler.Nodes(), f); err != nil {
		return fmt.Errorf("editor: export: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("editor: export: %w", err)
	}
	e.log.Info("scene exported", "path", path, "format", string(f), "bytes", buf.Len())
	return nil
}

// Play toggles playback of the Audio object id.
func (e *Editor) Play(id string) error {
	ent, ok := e.Reconciler.Entity(id)
	if !ok || ent.Kind != sceneobj.Audio {
		return fmt.Errorf("editor: %s is not a loaded audio object", id)
	}
	if ent.Audio == nil {
		return fmt.Errorf("editor: %s is still loading", id)
	}
	return media.Toggle(ent.Audio)
}

// Focus glides the camera target to the selected entity. It reports false when there
// is nothing to focus on.
func (e *Editor) Focus() bool {
	st := e.store.Snapshot()
	ent, ok := e.Reconciler.Entity(st.Selected)
	if !ok {
		if ps, ok := e.Reconciler.Particles(st.Selected); ok {
			e.Controls.FocusOn(ps.Node.WorldPosition(), focusDuration)
			return true
		}
		return false
	}
	target := ent.Node.WorldPosition()
	if b := ent.Node.BoundingBox(); !b.IsEmpty() {
		target = b.Center()
	}
	e.Controls.FocusOn(target, focusDuration)
	return true
}

// SetGrid shows or hides the floor grid.
func (e *Editor) SetGrid(on bool) { e.Scene.Grid.Visible = on }

// SetFPS shows or hides the frame counter.
func (e *Editor) SetFPS(on bool) { e.showFPS = on }

// ShowFPS reports whether the frame counter is on.
func (e *Editor) ShowFPS() bool { return e.showFPS }

// Nudge moves, rotates or scales the object bound to the manipulator by d. It reports
// false when nothing is bound.
func (e *Editor) Nudge(mode manip.Mode, d mgl32.Vec3) bool {
	e.Sync()
	m := e.Binder.Manipulator()
	if m.Node() == nil {
		return false
	}
	switch mode {
	case manip.Translate:
		m.Translate(d)
	case manip.Rotate:
		m.Rotate(d)
	case manip.Scale:
		m.ScaleBy(d)
	}
	return true
}

// Run executes one console line and logs its error, if any.
func (e *Editor) Run(line string) error {
	err := e.Commands.Run(line)
	if err != nil {
		e.log.Warn("command failed", "line", line, "err", err)
	}
	return err
}

// Close stops background work and releases every live resource.
func (e *Editor) Close() {
	e.cancel()
	e.watchers.Wait()
	e.jobs.Wait()
	e.Reconciler.Close()
	e.Queue.Drain()
}
