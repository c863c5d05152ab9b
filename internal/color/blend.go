// Package color implements the liquid color math: volume-weighted blending
// of hex colors and stable colors for ingredients the catalog doesn't know.
package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Neutral is the channel value substituted for colors that don't parse.
// Ingredient colors are catalog data, so a bad value should tint the drink
// gray rather than stop it.
const Neutral = 200

// RGB parses a "#rrggbb" (or "#rgb") color. ok is false when the value
// is not a hex color, in which case the neutral gray is returned.
func RGB(hex string) (r, g, b uint8, ok bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Neutral, Neutral, Neutral, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}

// Hex formats 8-bit channels as a lowercase "#rrggbb" string.
func Hex(r, g, b uint8) string {
	return colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.Hex()
}

// Blend mixes colorA (weightA ml) with colorB (weightB ml). Each channel is
// the rounded weighted mean. With zero total weight colorA is returned
// untouched.
func Blend(colorA string, weightA float64, colorB string, weightB float64) string {
	total := weightA + weightB
	if total == 0 {
		return colorA
	}

	r1, g1, b1, _ := RGB(colorA)
	r2, g2, b2, _ := RGB(colorB)

	mix := func(x, y uint8) uint8 {
		v := math.Round((float64(x)*weightA + float64(y)*weightB) / total)
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return Hex(mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// Distance returns the largest per-channel difference between two colors.
// Useful for comparing blends that may differ only by rounding.
func Distance(a, b string) int {
	r1, g1, b1, _ := RGB(a)
	r2, g2, b2, _ := RGB(b)
	d := absDiff(r1, r2)
	if v := absDiff(g1, g2); v > d {
		d = v
	}
	if v := absDiff(b1, b2); v > d {
		d = v
	}
	return d
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
