package color

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		name    string
		a       string
		wa      float64
		b       string
		wb      float64
		want    string
		maxDiff int
	}{
		{"red and blue equal parts", "#FF0000", 50, "#0000FF", 50, "#800080", 1},
		{"all weight on first", "#123456", 10, "#FFFFFF", 0, "#123456", 0},
		{"all weight on second", "#123456", 0, "#abcdef", 10, "#abcdef", 0},
		{"three to one", "#000000", 30, "#FFFFFF", 10, "#404040", 1},
		{"lowercase input", "#ff0000", 1, "#00ff00", 1, "#808000", 1},
		{"invalid first is gray", "rgb(1,2,3)", 1, "#C8C8C8", 1, "#c8c8c8", 0},
		{"invalid both is gray", "", 5, "teal", 5, "#c8c8c8", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.a, tt.wa, tt.b, tt.wb)
			if d := Distance(got, tt.want); d > tt.maxDiff {
				t.Fatalf("Blend(%s,%v,%s,%v) = %s, want %s (±%d), off by %d",
					tt.a, tt.wa, tt.b, tt.wb, got, tt.want, tt.maxDiff, d)
			}
		})
	}
}

func TestBlendZeroWeightReturnsFirstUnchanged(t *testing.T) {
	// Not normalised: the original string comes back as-is.
	for _, c := range []string{"#ABCDEF", "not a color", ""} {
		if got := Blend(c, 0, "#000000", 0); got != c {
			t.Fatalf("Blend(%q, 0, ..., 0) = %q, want input unchanged", c, got)
		}
	}
}

func TestBlendOutputIsLowercaseHex(t *testing.T) {
	got := Blend("#FF0000", 1, "#00FF00", 3)
	if got != strings.ToLower(got) || len(got) != 7 || got[0] != '#' {
		t.Fatalf("unexpected format %q", got)
	}
	if _, _, _, ok := RGB(got); !ok {
		t.Fatalf("blend output %q does not parse", got)
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"#F5F5F5", 245, 245, 245, true},
		{"#1a0500", 26, 5, 0, true},
		{"#fff", 255, 255, 255, true},
		{"F5F5F5", Neutral, Neutral, Neutral, false},
		{"", Neutral, Neutral, Neutral, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, ok := RGB(tt.in)
			if ok != tt.ok || r != tt.r || g != tt.g || b != tt.b {
				t.Fatalf("RGB(%q) = (%d,%d,%d,%v), want (%d,%d,%d,%v)", tt.in, r, g, b, ok, tt.r, tt.g, tt.b, tt.ok)
			}
		})
	}
}

func TestFromNameIsStable(t *testing.T) {
	names := []string{"月光糖浆", "Moonlight Syrup", "a", "", "自制山楂糖浆"}
	for _, n := range names {
		first := FromName(n)
		second := FromName(n)
		if first != second {
			t.Fatalf("FromName(%q) not stable: %s vs %s", n, first, second)
		}
		if _, _, _, ok := RGB(first); !ok {
			t.Fatalf("FromName(%q) = %q is not a hex color", n, first)
		}
	}
}

func TestFromNameStaysInPalette(t *testing.T) {
	for _, n := range []string{"月光糖浆", "Moonlight Syrup", "桂花酒", "smoked pear cordial"} {
		c, err := colorful.Hex(FromName(n))
		if err != nil {
			t.Fatalf("parse %q: %v", n, err)
		}
		_, s, l := c.Hsl()
		// Rounding to 8-bit channels moves these slightly.
		if s < 0.58 || s > 0.82 {
			t.Errorf("%q: saturation %.3f outside 60-80%%", n, s)
		}
		if l < 0.43 || l > 0.62 {
			t.Errorf("%q: lightness %.3f outside 45-60%%", n, l)
		}
	}
}

func TestFromNameChannelRounding(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		// hsl(270, 70%, 50%): the red channel lands on 127.5.
		{"ingredient-120-", "#8026d9"},
		{"月光糖浆", "#33e665"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromName(tt.name); got != tt.want {
				t.Fatalf("FromName(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestHSLHex(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    string
	}{
		{0, 100, 50, "#ff0000"},
		{120, 100, 25, "#008000"},
		{240, 100, 50, "#0000ff"},
		{0, 0, 100, "#ffffff"},
	}
	for _, tt := range tests {
		if got := hslHex(tt.h, tt.s, tt.l); got != tt.want {
			t.Errorf("hslHex(%v, %v, %v) = %s, want %s", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

func TestFromNameDistinguishesNames(t *testing.T) {
	if FromName("月光糖浆") == FromName("星光糖浆") {
		t.Fatal("expected different names to produce different colors")
	}
}

func TestNameHashMatchesStringHash(t *testing.T) {
	// Short ASCII names never leave int32 range, so the classic
	// 31*h + c recurrence gives the same value.
	for _, n := range []string{"a", "gin", "lime"} {
		var want int32
		for _, c := range n {
			want = 31*want + int32(c)
		}
		if got := nameHash(n); got != int64(want) {
			t.Fatalf("nameHash(%q) = %d, want %d", n, got, want)
		}
	}
}
