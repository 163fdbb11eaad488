package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh the overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds runtime debugging overlays (FPS, heap, scene counters). All are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	// Stats is called on refresh frames while ShowStats is on; each string is one line.
	Stats func() []string

	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastStats    []string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Visible reports whether any overlay is on.
func (d *Debug) Visible() bool { return d.ShowFPS || d.ShowMemAlloc || d.ShowStats }

// Draw renders the enabled overlays top-right in green, one line each: FPS, heap
// allocation, then the Stats lines. Call last in the draw loop.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0 ||
		d.ShowFPS && d.lastFpsText == "" ||
		d.ShowMemAlloc && d.lastMemText == "" ||
		d.ShowStats && d.lastStats == nil
	if update {
		d.refresh()
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		d.drawLine(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		d.drawLine(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.ShowStats {
		for _, line := range d.lastStats {
			d.drawLine(line, y)
			y += fpsLineHeight
		}
	}
}

func (d *Debug) refresh() {
	if d.ShowFPS {
		d.lastFpsText = FormatFPS(rl.GetFPS())
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.lastMemStats)
		d.lastMemText = FormatMem(d.lastMemStats.Alloc)
	}
	if d.ShowStats && d.Stats != nil {
		d.lastStats = d.Stats()
		if d.lastStats == nil {
			d.lastStats = []string{}
		}
	}
}

func (d *Debug) drawLine(text string, y int32) {
	if text == "" {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	if d.font.Texture.ID != 0 {
		sz := float32(fpsFontSize)
		pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(fpsPadding), float32(y))
		rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
		return
	}
	w := rl.MeasureText(text, fpsFontSize)
	rl.DrawText(text, screenW-w-fpsPadding, y, fpsFontSize, rl.Green)
}

// FormatFPS is the FPS line.
func FormatFPS(fps int32) string { return fmt.Sprintf("FPS: %d", fps) }

// FormatMem is the heap line, in MiB.
func FormatMem(alloc uint64) string {
	return fmt.Sprintf("Mem: %.2f MiB", float64(alloc)/(1024*1024))
}
