package environment

import (
	"context"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"scene-editor/internal/logger"
	"scene-editor/internal/scene"
)

// DefaultPanorama is the equirectangular image shown when a Skybox object exists and no
// other source is configured.
const DefaultPanorama = "https://raw.githubusercontent.com/mrdoob/three.js/master/examples/textures/equirectangular/2294472375_24a3b8ef46_o.jpg"

// PanoramaLoader fetches and decodes the skybox texture. It runs off the loop thread.
type PanoramaLoader func(ctx context.Context) (*scene.Texture, error)

// Environment owns the scene background. Every method must be called on the loop
// thread; completions of the panorama load come back through post.
type Environment struct {
	scene *scene.Scene
	load  PanoramaLoader
	post  func(func())
	log   *slog.Logger

	theme   colorful.Color
	wanted  bool
	shown   bool
	pending bool
	gen     uint64
}

// New returns an environment showing the theme background.
// post schedules a function onto the loop thread.
func New(s *scene.Scene, theme colorful.Color, load PanoramaLoader, post func(func()), log *slog.Logger) *Environment {
	e := &Environment{scene: s, load: load, post: post, log: logger.OrDiscard(log), theme: theme}
	s.Background = theme
	return e
}

// SetTime applies the lighting for a time of day.
func (e *Environment) SetTime(t float32) { At(t).Apply(e.scene) }

// SetTheme changes the flat background color. It is only visible while no panorama is shown.
func (e *Environment) SetTheme(c colorful.Color) {
	e.theme = c
	if !e.shown {
		e.scene.Background = c
	}
}

// Shown reports whether the panorama is the current background.
func (e *Environment) Shown() bool { return e.shown }

// SetSkybox reacts to a Skybox object appearing or disappearing. Work happens only on a
// transition; calling it every reconciliation is cheap.
func (e *Environment) SetSkybox(present bool) {
	if present == e.wanted {
		return
	}
	e.wanted = present
	e.gen++
	if !present {
		e.pending = false
		e.clear()
		return
	}
	if e.load == nil {
		return
	}
	e.pending = true
	gen := e.gen
	go func() {
		tex, err := e.load(context.Background())
		e.post(func() { e.finish(gen, tex, err) })
	}()
}

func (e *Environment) finish(gen uint64, tex *scene.Texture, err error) {
	if gen != e.gen || !e.wanted {
		if tex != nil {
			tex.Dispose()
		}
		return
	}
	e.pending = false
	if err != nil {
		e.log.Warn("skybox load failed", "error", err)
		return
	}
	e.scene.Panorama = tex
	e.shown = true
}

func (e *Environment) clear() {
	if e.scene.Panorama != nil {
		e.scene.Panorama.Dispose()
		e.scene.Panorama = nil
	}
	e.shown = false
	e.scene.Background = e.theme
}

// Loading reports whether a panorama load is in flight.
func (e *Environment) Loading() bool { return e.pending }
