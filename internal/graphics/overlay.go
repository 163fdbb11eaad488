package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/ui"
)

// textSpacing is the extra advance between glyphs, as in raylib's own DrawText.
const textSpacing = 1

func nrgba(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

// drawBoxes paints laid-out panel boxes in order: background, border, then the label
// vertically centred and clipped to the box.
func drawBoxes(boxes []ui.Box, font rl.Font) {
	for _, b := range boxes {
		r, st := b.Rect, b.Style
		x, y, w, h := int32(r.X), int32(r.Y), int32(r.W), int32(r.H)
		if st.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, nrgba(st.Background))
		}
		if st.HasBorder {
			rl.DrawRectangleLines(x, y, w, h, nrgba(st.Border))
		}
		if b.Node.Text == "" || w <= 0 || h <= 0 {
			continue
		}
		size := float32(st.FontSize)
		text := fitText(font, b.Node.Text, size, r.W-float32(2*st.Padding))
		ty := r.Y + (r.H-size)/2
		rl.DrawTextEx(font, text, rl.NewVector2(r.X+float32(st.Padding), ty), size, textSpacing, nrgba(st.Color))
	}
}

// fitText shortens s with an ellipsis until it is at most width pixels wide.
func fitText(font rl.Font, s string, size, width float32) string {
	if width <= 0 || rl.MeasureTextEx(font, s, size, textSpacing).X <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "..."
		if rl.MeasureTextEx(font, t, size, textSpacing).X <= width {
			return t
		}
	}
	return ""
}
