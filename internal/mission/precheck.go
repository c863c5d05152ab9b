package mission

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
)

// Alcohol level targets.
const (
	LevelNonAlcoholic = "non_alcoholic"
	LevelBoozy        = "boozy"
)

// Precheck lists the requirements the drink visibly misses, without
// asking the judge. An empty result does not mean the mission passes;
// flavor is only estimated and the judge has the final word.
func (e *Evaluator) Precheck(state domain.DrinkState, m domain.Mission) []string {
	stats := drink.Stats(state)
	var misses []string

	for _, req := range m.Requirements {
		switch req.Type {
		case domain.RequireIngredient:
			got := pouredAmount(state, req.Target)
			if got < req.Value || (req.Value == 0 && got == 0) {
				misses = append(misses, fmt.Sprintf("需要至少 %sml %s，当前 %sml",
					drink.FormatAmount(req.Value), req.Target, drink.FormatAmount(got)))
			}

		case domain.RequireGlass:
			want, ok := domain.GlassFromString(req.Target)
			if ok && want != state.Glass {
				misses = append(misses, fmt.Sprintf("需要使用%s，当前是%s", want.Label(), state.Glass.Label()))
			}

		case domain.RequireAlcoholLevel:
			switch req.Target {
			case LevelNonAlcoholic:
				if stats.ABV > req.Value {
					misses = append(misses, fmt.Sprintf("需要无酒精，当前酒精度 %.1f%%", stats.ABV))
				}
			case LevelBoozy:
				if stats.ABV < req.Value {
					misses = append(misses, fmt.Sprintf("酒精度需至少 %.1f%%，当前 %.1f%%", req.Value, stats.ABV))
				}
			}

		case domain.RequireFlavor:
			if e.catalog == nil {
				continue
			}
			flavor := EstimateFlavor(state, e.catalog)
			if got, ok := axis(flavor, req.Target); ok && got < req.Value {
				misses = append(misses, fmt.Sprintf("%s 风味需达到 %s，估计为 %.1f",
					req.Target, drink.FormatAmount(req.Value), got))
			}
		}
	}
	return misses
}

// EstimateFlavor averages the flavor of the poured ingredients by volume.
// Layers the catalog doesn't know contribute nothing.
func EstimateFlavor(state domain.DrinkState, catalog domain.Catalog) domain.Flavor {
	var f domain.Flavor
	var total float64
	for _, l := range state.Layers {
		total += l.Amount
		ing, err := catalog.ByID(l.IngredientID)
		if err != nil {
			continue
		}
		f.Sweet += ing.Flavor.Sweet * l.Amount
		f.Sour += ing.Flavor.Sour * l.Amount
		f.Bitter += ing.Flavor.Bitter * l.Amount
		f.Spicy += ing.Flavor.Spicy * l.Amount
		f.Boozy += ing.Flavor.Boozy * l.Amount
	}
	if total == 0 {
		return domain.Flavor{}
	}
	f.Sweet /= total
	f.Sour /= total
	f.Bitter /= total
	f.Spicy /= total
	f.Boozy /= total
	return f
}

func pouredAmount(state domain.DrinkState, target string) float64 {
	var sum float64
	for _, l := range state.Layers {
		if strings.EqualFold(l.IngredientID, target) {
			sum += l.Amount
		}
	}
	return sum
}

func axis(f domain.Flavor, name string) (float64, bool) {
	switch strings.ToLower(name) {
	case "sweet":
		return f.Sweet, true
	case "sour":
		return f.Sour, true
	case "bitter":
		return f.Bitter, true
	case "spicy":
		return f.Spicy, true
	case "boozy":
		return f.Boozy, true
	default:
		return 0, false
	}
}
