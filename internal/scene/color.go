package scene

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// White is the fallback for unparsable colors.
var White = colorful.Color{R: 1, G: 1, B: 1}

// ParseColor parses "#rrggbb" or "#rgb", case-insensitive. A missing leading '#' is
// tolerated. Anything else yields White and false.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return White, false
	}
	return c, true
}

// HexColor is ParseColor without the ok flag.
func HexColor(s string) colorful.Color {
	c, _ := ParseColor(s)
	return c
}
