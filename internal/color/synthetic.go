package color

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// FromName derives a vivid, stable color for an ingredient name the
// catalog can't resolve. The result depends on the name only.
//
// The hash walks UTF-16 code units with hash = unit + (hash<<5) - hash.
// The shift operates on the 32-bit truncation of the running value while
// the subtraction keeps full width, so the value can leave int32 range;
// that is carried in an int64.
func FromName(name string) string {
	h := nameHash(name)
	h32 := int32(h)

	hue := abs64(h) % 360
	sat := 60 + abs64(int64(h32>>8))%20
	light := 45 + abs64(int64(h32>>16))%15

	return hslHex(float64(hue), float64(sat), float64(light))
}

// hslHex converts hue in degrees and saturation and lightness in percent.
// Each channel is rounded on its own, so a value sitting exactly on .5 goes
// up.
func hslHex(h, s, l float64) string {
	l /= 100
	a := s * min(l, 1-l) / 100
	channel := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		c := l - a*max(min(k-3, 9-k, 1), -1)
		return uint8(math.Round(255 * c))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(0), channel(8), channel(4))
}

func nameHash(name string) int64 {
	var h int64
	for _, unit := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(uint32(int32(h)) << 5))
		h = int64(unit) + shifted - h
	}
	return h
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
