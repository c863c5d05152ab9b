package drink

import (
	"math"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

// Temperature labels shown alongside the stats.
const (
	TempIced    = "4.2°C"
	TempShaken  = "6.5°C"
	TempNeutral = "18.2°C"
)

// Stats derives the volume-weighted ABV and density of the drink. ABV is
// rounded to one decimal and density to three; an empty glass reads 0%
// and 1.000.
func Stats(state domain.DrinkState) domain.Stats {
	var total, alcohol, mass float64
	for _, l := range state.Layers {
		total += l.Amount
		alcohol += l.ABV * l.Amount
		mass += l.Density * l.Amount
	}

	s := domain.Stats{
		Density:     1,
		Volume:      state.CurrentVolume,
		Temperature: temperature(state),
	}
	if total > 0 {
		s.ABV = round(alcohol/total, 1)
		s.Density = round(mass/total, 3)
	}
	return s
}

// Shaken reports whether any step shook the drink.
func Shaken(state domain.DrinkState) bool {
	for _, s := range state.Steps {
		if s.Action == domain.ActionShake {
			return true
		}
	}
	return false
}

func temperature(state domain.DrinkState) string {
	switch {
	case state.Ice:
		return TempIced
	case Shaken(state):
		return TempShaken
	default:
		return TempNeutral
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
