// Package interpret turns free-text recipe instructions into bar actions.
//
// Instructions come from a generative model and have no fixed format, so
// matching is heuristic: recipe ingredients are found in each sentence by
// fuzzy name comparison, techniques by keyword, and volumes by a numeric
// fallback. The same recipe always yields the same actions.
package interpret

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// GarnishPlaceholderID is used for garnishes that match no recipe ingredient.
const GarnishPlaceholderID = "garnish"

// Defaults for the tunable thresholds.
const (
	DefaultMinFuzzyNameLen     = 2
	DefaultFuzzyWindow         = 3
	DefaultAmount              = 30.0
	DefaultShortInstructionLen = 15
	fallbackNameLen            = 10
)

var (
	connectives = regexp.MustCompile(`加入|倒入|在.*中|、|和|。`)
	qualifiers  = regexp.MustCompile(`自制|新鲜|手工`)
	leadingInt  = regexp.MustCompile(`^\s*(\d+)`)
	anyInt      = regexp.MustCompile(`\d+`)
	volumeUnit  = regexp.MustCompile(`(?i)(\d+)\s*(ml|毫升|克)`)

	shakeWord   = regexp.MustCompile(`\bshak(e|en|ing)\b`)
	stirWord    = regexp.MustCompile(`\bstir(s|red|ring)?\b`)
	iceWord     = regexp.MustCompile(`\bice[ds]?\b`)
	garnishWord = regexp.MustCompile(`\bgarnish`)
)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMinFuzzyNameLen sets how many runes a base name must exceed before
// the qualifier-stripped and sliding-window matches are tried.
func WithMinFuzzyNameLen(n int) Option {
	return func(in *Interpreter) { in.minFuzzyNameLen = n }
}

// WithFuzzyWindow sets the rune window used for partial name matches.
func WithFuzzyWindow(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.fuzzyWindow = n
		}
	}
}

// WithDefaultAmount sets the pour volume used when no number is found.
func WithDefaultAmount(ml float64) Option {
	return func(in *Interpreter) {
		if ml > 0 {
			in.defaultAmount = ml
		}
	}
}

// WithShortInstructionLen sets the longest instruction, in runes, that is
// used verbatim as a technique step description.
func WithShortInstructionLen(n int) Option {
	return func(in *Interpreter) { in.shortInstructionLen = n }
}

// Interpreter maps recipe instructions to actions. It holds no state
// between calls and is safe for concurrent use.
type Interpreter struct {
	catalog domain.Catalog
	log     *logger.Logger

	minFuzzyNameLen     int
	fuzzyWindow         int
	defaultAmount       float64
	shortInstructionLen int
}

// New creates an Interpreter resolving ingredients through catalog.
func New(catalog domain.Catalog, log *logger.Logger, opts ...Option) *Interpreter {
	in := &Interpreter{
		catalog:             catalog,
		log:                 log,
		minFuzzyNameLen:     DefaultMinFuzzyNameLen,
		fuzzyWindow:         DefaultFuzzyWindow,
		defaultAmount:       DefaultAmount,
		shortInstructionLen: DefaultShortInstructionLen,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret returns the actions for every instruction, in order.
func (in *Interpreter) Interpret(recipe domain.Recipe) []domain.Action {
	var actions []domain.Action
	for i := range recipe.Instructions {
		actions = append(actions, in.InterpretInstruction(recipe, i)...)
	}
	return actions
}

// InterpretInstruction returns the actions for instruction i alone: pours
// for every recipe ingredient it mentions, then at most one technique. An
// instruction that yields nothing returns nil. Out-of-range i returns nil.
func (in *Interpreter) InterpretInstruction(recipe domain.Recipe, i int) []domain.Action {
	if i < 0 || i >= len(recipe.Instructions) {
		return nil
	}
	raw := strings.TrimSpace(recipe.Instructions[i])
	if raw == "" {
		return nil
	}
	text := normalize(raw)

	actions := in.pours(recipe, text)
	if tech, ok := in.technique(recipe, raw, text); ok {
		actions = append(actions, tech)
	}
	if len(actions) == 0 {
		if fb, ok := in.fallback(raw, text); ok {
			actions = append(actions, fb)
		}
	}

	if len(actions) == 0 {
		in.log.Debug("instruction %d produced no action: %q", i+1, raw)
	} else {
		in.log.Debug("instruction %d: %d action(s) from %q", i+1, len(actions), raw)
	}
	return actions
}

// pours emits a pour for each recipe ingredient mentioned in text, in
// recipe order.
func (in *Interpreter) pours(recipe domain.Recipe, text string) []domain.Action {
	var out []domain.Action
	for _, ri := range recipe.Ingredients {
		if !in.mentions(text, ri.Name) {
			continue
		}
		ing := in.catalog.Resolve(ri.Name)
		out = append(out, domain.Action{
			Type:       domain.ActionPour,
			Ingredient: &ing,
			Amount:     in.amount(ri.Amount, text),
		})
	}
	return out
}

// mentions reports whether the instruction refers to the ingredient name.
// Tried in order: the instruction contains the base name; the base name
// contains the instruction once verbs and connectives are removed; the
// instruction contains the base name without qualifiers like 自制; any
// window of the base name appears in the instruction.
func (in *Interpreter) mentions(text, name string) bool {
	base := normalize(domain.BaseName(name))
	if base == "" {
		return false
	}
	if strings.Contains(text, base) {
		return true
	}
	if core := strings.TrimSpace(connectives.ReplaceAllString(text, "")); core != "" && strings.Contains(base, core) {
		return true
	}

	runes := []rune(base)
	if len(runes) <= in.minFuzzyNameLen {
		return false
	}
	if bare := strings.TrimSpace(qualifiers.ReplaceAllString(base, "")); bare != "" && strings.Contains(text, bare) {
		return true
	}
	for i := 0; i+in.fuzzyWindow <= len(runes); i++ {
		if strings.Contains(text, string(runes[i:i+in.fuzzyWindow])) {
			return true
		}
	}
	return false
}

// amount takes the leading number of the declared amount, else the first
// number in the instruction, else the default.
func (in *Interpreter) amount(declared, text string) float64 {
	if m := leadingInt.FindStringSubmatch(normalize(declared)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return float64(n)
		}
	}
	if m := anyInt.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return float64(n)
		}
	}
	return in.defaultAmount
}

// technique detects at most one non-pour action. Shake beats stir beats
// ice beats garnish.
func (in *Interpreter) technique(recipe domain.Recipe, raw, text string) (domain.Action, bool) {
	var a domain.Action
	switch {
	case shakeWord.MatchString(text) || strings.Contains(text, "震") ||
		strings.Contains(strings.ReplaceAll(text, "摇酒壶", ""), "摇"):
		a.Type = domain.ActionShake
	case stirWord.MatchString(text) || strings.Contains(text, "搅"):
		a.Type = domain.ActionStir
	case iceWord.MatchString(text) || strings.Contains(text, "冰"):
		a.Type = domain.ActionAddIce
	case garnishWord.MatchString(text) || strings.Contains(text, "装饰") || strings.Contains(text, "点缀"):
		a.Type = domain.ActionGarnish
		ing := in.garnishIngredient(recipe, raw, text)
		a.Ingredient = &ing
	default:
		return a, false
	}

	if utf8.RuneCountInString(raw) <= in.shortInstructionLen {
		a.Description = raw
	}
	return a, true
}

func (in *Interpreter) garnishIngredient(recipe domain.Recipe, raw, text string) domain.Ingredient {
	for _, ri := range recipe.Ingredients {
		base := normalize(domain.BaseName(ri.Name))
		if base != "" && strings.Contains(text, base) {
			return in.catalog.Resolve(ri.Name)
		}
	}
	return domain.Ingredient{
		ID:       GarnishPlaceholderID,
		Name:     raw,
		Category: domain.CategoryGarnish,
	}
}

// fallback handles sentences like "加入 15ml 自制糖浆" whose ingredient is
// missing from the recipe list.
func (in *Interpreter) fallback(raw, text string) (domain.Action, bool) {
	if !strings.Contains(text, "加") && !strings.Contains(text, "倒") {
		return domain.Action{}, false
	}
	m := volumeUnit.FindStringSubmatch(text)
	if m == nil {
		return domain.Action{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return domain.Action{}, false
	}

	name := raw
	if runes := []rune(raw); len(runes) > fallbackNameLen {
		name = string(runes[:fallbackNameLen])
	}
	ing := in.catalog.Resolve(name)
	return domain.Action{
		Type:        domain.ActionPour,
		Ingredient:  &ing,
		Amount:      float64(n),
		Description: raw,
	}, true
}

// normalize folds full-width Latin letters and digits to ASCII and
// lowercases, so "３０ＭＬ" and "30ml" compare equal. CJK punctuation such
// as 。 keeps its canonical form.
func normalize(s string) string {
	return strings.ToLower(width.Fold.String(s))
}
