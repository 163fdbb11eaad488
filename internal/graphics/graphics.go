// Package graphics owns the raylib window. It drives the editor's frame loop, draws the
// scene, the panels, the console and the debug overlay, and feeds mouse and keyboard
// input back into the editor.
package graphics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/debug"
	"scene-editor/internal/editor"
	"scene-editor/internal/logger"
	"scene-editor/internal/terminal"
	"scene-editor/internal/ui"
)

// WindowTitle is shown in the title bar.
const WindowTitle = "Scene Editor"

// Options configures Run.
type Options struct {
	// Log backs the console history.
	Log *logger.Logger
	// ScenePath is where Ctrl+S saves. Empty disables the shortcut.
	ScenePath string
	// CSSPath is an optional stylesheet layered over the built-in panel styles.
	CSSPath string
	// FontPath is an optional TTF file for the panels and console.
	FontPath string
}

// Run opens the window sized from the editor preferences and runs the frame loop until
// the window is closed. ESC toggles the console, so it never quits.
func Run(e *editor.Editor, opts Options) error {
	eng := ui.New()
	if opts.CSSPath != "" {
		if err := eng.LoadCSS(opts.CSSPath); err != nil {
			return err
		}
	}
	panels := ui.NewPanels(eng)
	lg := opts.Log
	if lg == nil {
		lg = logger.New("")
	}

	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if e.Prefs.Window.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(flags)
	w, h := e.Prefs.Window.Width, e.Prefs.Window.Height
	if e.Prefs.Window.Fullscreen {
		w, h = rl.GetMonitorWidth(0), rl.GetMonitorHeight(0)
	}
	rl.InitWindow(int32(w), int32(h), WindowTitle)
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return fmt.Errorf("graphics: cannot open a %dx%d window", w, h)
	}
	rl.SetExitKey(rl.KeyNull) // ESC is used to toggle the console, not to quit; close via window button
	rl.SetTargetFPS(60)

	font := rl.GetFontDefault()
	if opts.FontPath != "" {
		if f := rl.LoadFont(opts.FontPath); f.Texture.ID != 0 {
			font = f
			defer rl.UnloadFont(f)
		}
	}

	r := NewRenderer()
	defer r.Close()
	term := terminal.New(lg, e.Commands.Run)
	term.SetFont(font)
	dbg := debug.New()
	dbg.ShowStats = e.Prefs.ShowStats
	dbg.Stats = func() []string { return statsLines(e, r.Stats()) }
	in := newInput(e, eng, opts.ScenePath)

	e.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	var boxes []ui.Box
	e.Loop.Render = func() {
		rl.BeginDrawing()
		r.Draw(e.Scene, e.Camera, e.Binder.Manipulator())
		drawBoxes(boxes, font)
		term.Draw()
		dbg.ShowFPS = e.ShowFPS()
		dbg.ShowMemAlloc = dbg.ShowStats
		dbg.Draw()
		rl.EndDrawing()
	}
	defer func() { e.Loop.Render = nil }()

	for !rl.WindowShouldClose() {
		sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()
		if rl.IsWindowResized() {
			e.Resize(sw, sh)
		}
		boxes = eng.Layout(panels.Nodes(e.State(), sw), sw, sh)

		term.Update()
		if !term.IsOpen() {
			in.keys()
		}
		in.mouse()
		in.drops()
		e.Loop.Tick()
	}
	return nil
}

func statsLines(e *editor.Editor, fs FrameStats) []string {
	st := e.Reconciler.Stats()
	return []string{
		fmt.Sprintf("Entities: %d  Particles: %d", st.Entities, st.Particles),
		fmt.Sprintf("Pending: %d  Failed: %d", st.Pending, st.Failed),
		fmt.Sprintf("Draws: %d meshes  %d points  %d sprites", fs.Meshes, fs.Points, fs.Sprites),
		fmt.Sprintf("GPU: %d meshes  %d textures", fs.GPUMeshes, fs.GPUTextures),
	}
}
