package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
)

// Glass outlines.
const (
	wallLeft   = "│"
	wallRight  = "│"
	iceMark    = "❄"
	garnishTag = "✿"
	gaugeWidth = 20
)

var (
	glassStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa"))
	gaugeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0"))
	overflowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5")).Bold(true)
)

// shape is the drawn size of a glass, in terminal cells.
type shape struct {
	width, height int
}

func glassShape(g domain.GlassType) shape {
	switch g {
	case domain.GlassHighball:
		return shape{width: 8, height: 12}
	case domain.GlassMartini:
		return shape{width: 14, height: 5}
	case domain.GlassCoupe:
		return shape{width: 14, height: 4}
	default:
		return shape{width: 12, height: 7}
	}
}

// band is a run of rows filled with one color, counted from the bottom.
type band struct {
	color string
	from  int
	to    int // exclusive
}

// bands splits the glass height between the layers in proportion to their
// volume. Once mixed the whole drink is one band of the blended color.
// Layers too thin to reach a row are not drawn.
func bands(state domain.DrinkState, height int) []band {
	if state.CurrentVolume <= 0 || state.MaxVolume <= 0 || height <= 0 {
		return nil
	}

	rows := func(volume float64) int {
		return min(int(math.Round(volume/state.MaxVolume*float64(height))), height)
	}

	if state.IsMixed {
		return []band{{color: state.MixedColor, from: 0, to: max(rows(state.CurrentVolume), 1)}}
	}

	var out []band
	cum, prev := 0.0, 0
	for i, l := range state.Layers {
		cum += l.Amount
		bound := rows(cum)
		if i == len(state.Layers)-1 {
			bound = max(bound, 1)
		}
		if bound > prev {
			out = append(out, band{color: l.Color, from: prev, to: bound})
			prev = bound
		}
	}
	return out
}

// RenderGlass draws the drink: colored layers (or the blend once mixed)
// inside the glass outline, ice and garnish markers, and a volume gauge.
// cat is used for garnish names and may be nil.
func RenderGlass(state domain.DrinkState, cat domain.Catalog) string {
	sh := glassShape(state.Glass)
	bs := bands(state, sh.height)

	var b strings.Builder

	if len(state.Garnish) > 0 {
		names := make([]string, 0, len(state.Garnish))
		for _, id := range state.Garnish {
			names = append(names, garnishName(id, cat))
		}
		b.WriteString(" " + garnishTag + " " + strings.Join(names, " "+garnishTag+" "))
		b.WriteByte('\n')
	}

	for row := sh.height - 1; row >= 0; row-- {
		b.WriteString(glassStyle.Render(wallLeft))
		b.WriteString(fillRow(bs, row, sh.width, state.Ice && row == topRow(bs)))
		b.WriteString(glassStyle.Render(wallRight))
		b.WriteByte('\n')
	}
	b.WriteString(glassStyle.Render("╰" + strings.Repeat("─", sh.width) + "╯"))
	b.WriteByte('\n')
	b.WriteString(state.Glass.Label())
	b.WriteByte('\n')
	b.WriteString(Gauge(state))
	return b.String()
}

// fillRow renders one row of the glass interior.
func fillRow(bs []band, row, width int, ice bool) string {
	for _, bd := range bs {
		if row < bd.from || row >= bd.to {
			continue
		}
		text := strings.Repeat(" ", width)
		if ice {
			text = iceRow(width)
		}
		return lipgloss.NewStyle().Background(lipgloss.Color(bd.color)).Render(text)
	}
	return strings.Repeat(" ", width)
}

// topRow is the highest filled row, or -1 for an empty glass.
func topRow(bs []band) int {
	if len(bs) == 0 {
		return -1
	}
	return bs[len(bs)-1].to - 1
}

func iceRow(width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i%3 == 1 {
			b.WriteString(iceMark)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Gauge renders "▇▇▇░░░ 85/250ml", flagged when the glass overflows.
func Gauge(state domain.DrinkState) string {
	frac := 0.0
	if state.MaxVolume > 0 {
		frac = min(state.CurrentVolume/state.MaxVolume, 1)
	}
	filled := int(math.Round(frac * gaugeWidth))
	bar := strings.Repeat("▇", filled) + strings.Repeat("░", gaugeWidth-filled)
	text := fmt.Sprintf("%s %s/%sml", bar,
		drink.FormatAmount(state.CurrentVolume), drink.FormatAmount(state.MaxVolume))
	if drink.Overflowing(state) {
		return overflowStyle.Render(text + " 溢出!")
	}
	return gaugeStyle.Render(text)
}

// RenderStats formats the derived numbers on one line.
func RenderStats(s domain.Stats) string {
	return fmt.Sprintf("ABV %v%% · 密度 %v · %s · %sml", s.ABV, s.Density, s.Temperature, drink.FormatAmount(s.Volume))
}

func garnishName(id string, cat domain.Catalog) string {
	if cat != nil {
		if ing, err := cat.ByID(id); err == nil {
			return domain.BaseName(ing.Name)
		}
	}
	return id
}
