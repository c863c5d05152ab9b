// Package drink is the state machine for a drink under construction.
//
// Every function here is pure: states are values, inputs are never
// modified, and the same inputs always give the same output. The step log
// is the only source of truth; Undo rebuilds the drink by replaying it.
package drink

import (
	"slices"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/color"
	"github.com/hammamikhairi/ottobar/internal/domain"
)

// EmptyColor is the mixed color of an empty glass.
const EmptyColor = "#FFFFFF"

const stepPrefix = "step-"

// New returns an empty drink in the given glass.
func New(glass domain.GlassType) domain.DrinkState {
	return domain.DrinkState{
		Glass:      glass,
		MaxVolume:  glass.Capacity(),
		MixedColor: EmptyColor,
	}
}

// Reset empties the drink but keeps the glass.
func Reset(state domain.DrinkState) domain.DrinkState {
	return New(state.Glass)
}

// WithGlass moves the drink into another glass. Contents and history are
// kept; only the capacity changes.
func WithGlass(state domain.DrinkState, glass domain.GlassType) domain.DrinkState {
	next := clone(state)
	next.Glass = glass
	next.MaxVolume = glass.Capacity()
	return next
}

// Apply returns the state after performing action. Pours without an
// ingredient or with a non-positive amount, and garnishes without an
// ingredient, leave the state as it is.
func Apply(state domain.DrinkState, action domain.Action) domain.DrinkState {
	if !Valid(action) {
		return state
	}

	step := domain.Step{
		ID:          nextStepID(state.Steps),
		Action:      action.Type,
		Description: action.Description,
	}
	if action.Ingredient != nil {
		ing := *action.Ingredient
		step.Ingredient = &ing
		step.IngredientID = ing.ID
	}
	if action.Type == domain.ActionPour {
		step.Amount = action.Amount
	}
	if step.Description == "" {
		step.Description = DefaultDescription(action)
	}
	return applyStep(state, step)
}

// Undo removes the last step and rebuilds the drink from the remaining
// ones. With no steps it returns the state unchanged.
func Undo(state domain.DrinkState) domain.DrinkState {
	if len(state.Steps) == 0 {
		return state
	}
	return Replay(state.Glass, state.Steps[:len(state.Steps)-1])
}

// Replay builds a drink in glass from a step log. Step IDs and
// descriptions are kept as recorded.
func Replay(glass domain.GlassType, steps []domain.Step) domain.DrinkState {
	state := New(glass)
	for _, s := range steps {
		state = applyStep(state, s)
	}
	return state
}

// Remaining returns how much more the glass holds, never below zero.
func Remaining(state domain.DrinkState) float64 {
	return max(state.MaxVolume-state.CurrentVolume, 0)
}

// Overflowing reports whether more has been poured than the glass holds.
func Overflowing(state domain.DrinkState) bool {
	return state.CurrentVolume > state.MaxVolume
}

// DefaultDescription is the step text used when an action carries none.
func DefaultDescription(action domain.Action) string {
	name := ""
	if action.Ingredient != nil {
		name = domain.BaseName(action.Ingredient.Name)
	}
	switch action.Type {
	case domain.ActionPour:
		return "注入 " + FormatAmount(action.Amount) + "ml " + name
	case domain.ActionAddIce:
		return "加入冰块"
	case domain.ActionStir:
		return "轻柔搅拌"
	case domain.ActionShake:
		return "大力摇晃"
	case domain.ActionGarnish:
		return "装饰 " + name
	default:
		return action.Type.String()
	}
}

// FormatAmount prints a volume without trailing zeros ("30", "22.5").
func FormatAmount(ml float64) string {
	return strconv.FormatFloat(ml, 'f', -1, 64)
}

// Valid reports whether Apply would record the action.
func Valid(action domain.Action) bool {
	switch action.Type {
	case domain.ActionPour:
		return action.Ingredient != nil && action.Amount > 0
	case domain.ActionGarnish:
		return action.Ingredient != nil
	case domain.ActionAddIce, domain.ActionStir, domain.ActionShake:
		return true
	default:
		return false
	}
}

// applyStep performs a recorded step. It is shared by Apply and Replay so
// a replayed log produces exactly the state it was recorded from.
func applyStep(state domain.DrinkState, step domain.Step) domain.DrinkState {
	next := clone(state)
	next.Steps = append(next.Steps, step)

	switch step.Action {
	case domain.ActionPour:
		ing := stepIngredient(step)
		prev := next.CurrentVolume
		next.Layers = append(next.Layers, domain.LiquidLayer{
			ID:           step.ID,
			IngredientID: ing.ID,
			Name:         ing.Name,
			Amount:       step.Amount,
			Color:        ing.Color,
			Density:      ing.Density,
			ABV:          ing.ABV,
		})
		next.CurrentVolume = prev + step.Amount
		if prev == 0 {
			next.MixedColor = ing.Color
		} else {
			next.MixedColor = color.Blend(next.MixedColor, prev, ing.Color, step.Amount)
		}
	case domain.ActionAddIce:
		next.Ice = true
	case domain.ActionStir, domain.ActionShake:
		next.IsMixed = true
	case domain.ActionGarnish:
		next.Garnish = append(next.Garnish, stepIngredient(step).ID)
	}
	return next
}

func stepIngredient(step domain.Step) domain.Ingredient {
	if step.Ingredient != nil {
		return *step.Ingredient
	}
	return domain.Ingredient{ID: step.IngredientID, Name: step.IngredientID}
}

func clone(state domain.DrinkState) domain.DrinkState {
	next := state
	next.Steps = slices.Clone(state.Steps)
	next.Layers = slices.Clone(state.Layers)
	next.Garnish = slices.Clone(state.Garnish)
	return next
}

// nextStepID returns step-N where N is one past the highest numbered step.
func nextStepID(steps []domain.Step) string {
	highest := 0
	for _, s := range steps {
		suffix, ok := strings.CutPrefix(s.ID, stepPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return stepPrefix + strconv.Itoa(highest+1)
}
