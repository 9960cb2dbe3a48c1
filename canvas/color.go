package canvas

import (
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS-style colour: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa" or an SVG colour keyword. The alpha is multiplied by opacity.
// It returns nil for "", "none" and "transparent", which mean "do not paint".
func ParseColor(s string, opacity float64) color.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return nil
	}
	var c color.NRGBA
	if named, ok := colornames.Map[s]; ok {
		c = color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}
	} else {
		c = gg.Hex(s).Color().(color.NRGBA)
	}
	if opacity < 1 {
		c.A = uint8(float64(c.A)*max(opacity, 0) + 0.5)
	}
	return c
}

// IsColor reports whether ParseColor understands s. Empty strings and the
// "do not paint" keywords count as valid.
func IsColor(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return true
	}
	if _, ok := colornames.Map[s]; ok {
		return true
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return false
	}
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
