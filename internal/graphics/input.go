package graphics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/editor"
	"scene-editor/internal/picking"
	"scene-editor/internal/scene"
	"scene-editor/internal/ui"
)

const (
	// rotateSpeed is radians of orbit per dragged pixel.
	rotateSpeed = 0.005
	// panSpeed is the fraction of the camera distance panned per dragged pixel.
	panSpeed = 0.0015
	// wheelStep is the dolly factor of one wheel notch.
	wheelStep = 0.9
)

// shortcut binds a key to a console line. action returns "" when the key does nothing
// in the current state.
type shortcut struct {
	key    int32
	ctrl   bool
	action func(e *editor.Editor) string
}

var shortcuts = []shortcut{
	{key: rl.KeyQ, action: constant("tool none")},
	{key: rl.KeyW, action: constant("tool move")},
	{key: rl.KeyE, action: constant("tool rotate")},
	{key: rl.KeyR, action: constant("tool scale")},
	{key: rl.KeyF, action: withSelection("focus")},
	{key: rl.KeyDelete, action: withSelection("delete")},
	{key: rl.KeyD, ctrl: true, action: withSelection("dup")},
	{key: rl.KeyH, action: func(e *editor.Editor) string {
		o, ok := e.State().SelectedObject()
		switch {
		case !ok:
			return ""
		case o.Hidden:
			return "show"
		}
		return "hide"
	}},
	{key: rl.KeyG, action: func(e *editor.Editor) string {
		if e.Scene.Grid.Visible {
			return "grid off"
		}
		return "grid on"
	}},
}

func constant(line string) func(*editor.Editor) string {
	return func(*editor.Editor) string { return line }
}

func withSelection(line string) func(*editor.Editor) string {
	return func(e *editor.Editor) string {
		if e.State().Selected == "" {
			return ""
		}
		return line
	}
}

// input turns mouse and keyboard state into editor actions. Clicks on the panels run
// their console action; clicks in the viewport go to the picker, and drags that did
// not grab a handle orbit the camera.
type input struct {
	e         *editor.Editor
	ui        *ui.Engine
	scenePath string

	grabbed  bool
	orbiting bool
	panning  bool
}

func newInput(e *editor.Editor, eng *ui.Engine, scenePath string) *input {
	return &input{e: e, ui: eng, scenePath: scenePath}
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func (in *input) keys() {
	ctrl := ctrlDown()
	if ctrl && rl.IsKeyPressed(rl.KeyS) && in.scenePath != "" {
		_ = in.e.Run("save " + quote(in.scenePath))
		return
	}
	for _, s := range shortcuts {
		if s.ctrl != ctrl || !rl.IsKeyPressed(s.key) {
			continue
		}
		if line := s.action(in.e); line != "" {
			_ = in.e.Run(line)
		}
	}
}

func (in *input) mouse() {
	pos := rl.GetMousePosition()
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	delta := rl.GetMouseDelta()
	overUI := in.ui.Covers(pos.X, pos.Y)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if overUI {
			if n, ok := in.ui.HitTest(pos.X, pos.Y); ok {
				_ = in.e.Run(n.Action)
			}
		} else {
			in.e.Sync()
			x, y := scene.PointerToNDC(pos.X, pos.Y, w, h)
			if in.e.Picker.PointerDown(x, y) == picking.Grabbed {
				in.grabbed = true
			} else {
				in.orbiting = true
			}
		}
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		switch {
		case in.grabbed:
			x, y := scene.PointerToNDC(pos.X, pos.Y, w, h)
			in.e.Picker.PointerMove(x, y)
		case in.orbiting && (delta.X != 0 || delta.Y != 0):
			in.e.Controls.Rotate(delta.X*rotateSpeed, delta.Y*rotateSpeed)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		if in.grabbed {
			in.e.Picker.PointerUp()
		}
		in.grabbed, in.orbiting = false, false
	}

	if !overUI && (rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsMouseButtonPressed(rl.MouseButtonMiddle)) {
		in.panning = true
	}
	if in.panning && (delta.X != 0 || delta.Y != 0) {
		cam := in.e.Camera
		d := cam.Position.Sub(cam.Target).Len() * panSpeed
		in.e.Controls.Pan(delta.X*d, delta.Y*d)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) || rl.IsMouseButtonReleased(rl.MouseButtonMiddle) {
		in.panning = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overUI {
		in.e.Controls.Dolly(math32.Pow(wheelStep, wheel))
	}
}

// drops imports every file dragged onto the window.
func (in *input) drops() {
	if !rl.IsFileDropped() {
		return
	}
	for _, path := range rl.LoadDroppedFiles() {
		_ = in.e.Run("import " + quote(path))
	}
	rl.UnloadDroppedFiles()
}

// quote wraps a path for the console parser when it contains spaces or quotes.
func quote(s string) string {
	for _, r := range s {
		if r == ' ' || r == '"' || r == '\'' || r == '\\' || r == '\t' {
			return "'" + escapeSingle(s) + "'"
		}
	}
	return s
}

func escapeSingle(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, `'\''`...)
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
