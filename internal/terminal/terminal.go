package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/logger"
)

const (
	BarHeight = 40
	// Lift off the bottom edge in windowed mode.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	// Number of log lines drawn above the input bar when the console is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineLength    = 200
	maxHistory       = 100
)

var (
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console input bar at the bottom of the screen. It is shown/hidden with ESC.
// When open, it captures the keyboard; every submitted line is echoed to the log and
// run as an editor command. Up and Down walk through earlier lines.
type Terminal struct {
	log     *logger.Logger
	run     func(line string) error
	history *History

	inputBuf string
	open     bool
	font     rl.Font // zero means the raylib default font
}

// New returns a Terminal that logs lines to log and executes them with run. It starts closed.
func New(log *logger.Logger, run func(line string) error) *Terminal {
	return &Terminal{log: log, run: run, history: NewHistory(maxHistory)}
}

// IsOpen reports whether the console is capturing the keyboard.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the console.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Submit echoes line and runs it, logging the error if any. Blank lines do nothing.
func (t *Terminal) Submit(line string) {
	if line == "" {
		return
	}
	t.history.Add(line)
	t.log.Log(prompt + line)
	if err := t.run(line); err != nil {
		t.log.Log(err.Error())
	}
}

// Update handles ESC (toggle open/closed), and when open: typing, paste, history, backspace, enter.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	// Ctrl+V, or Cmd+V on macOS
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += pasted
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		t.inputBuf = t.history.Prev(t.inputBuf)
	case rl.IsKeyPressed(rl.KeyDown):
		t.inputBuf = t.history.Next()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
}

// Draw draws the input bar at the bottom of the screen and the recent log lines above it.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	for i, line := range Tail(t.log.Lines(), maxLinesOnScreen) {
		t.drawText(Clip(line, maxLineLength), chatY+i*lineHeight+padding, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.drawText(prompt+t.inputBuf+"|", barY+padding, rl.White)
}

func (t *Terminal) drawText(text string, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, text, rl.NewVector2(float32(padding), float32(y)), float32(fontSize), 1, c)
		return
	}
	rl.DrawText(text, int32(padding), int32(y), int32(fontSize), c)
}

// Tail returns the last n lines.
func Tail(lines []string, n int) []string {
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

// Clip shortens line to at most n bytes, ending in "..." when cut, without splitting a rune.
func Clip(line string, n int) string {
	if len(line) <= n {
		return line
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}
