package gpt

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

// ErrBadJSON is returned when no JSON object can be dug out of a reply.
var ErrBadJSON = errors.New("gpt: reply is not valid JSON")

// Fallback values for fields the model left out.
const (
	DefaultName         = "未知鸡尾酒"
	DefaultDescription  = "一段神秘的品鉴记录。"
	DefaultInstruction  = "搅拌均匀。"
	DefaultVisualPrompt = "A beautiful cocktail on a bar."
	DefaultLore         = "关于这杯酒的传说，还有待你去书写。"
)

var (
	fenced = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	braces = regexp.MustCompile(`(?s)\{.*\}`)
)

// decodeLenient unmarshals a model reply into v. It accepts replies wrapped
// in Markdown fences or stray backticks, and as a last try the outermost
// {...} found anywhere in the text.
func decodeLenient(raw string, v any) error {
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), v); err == nil {
		return nil
	}
	if m := braces.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), v); err == nil {
			return nil
		}
	}
	return ErrBadJSON
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fenced.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	s = strings.TrimLeft(s, "`")
	s = strings.TrimRight(s, "`")
	return strings.TrimSpace(s)
}

// rawRecipe mirrors the recipe JSON with every key variant models have
// been seen to use.
type rawRecipe struct {
	Name          string          `json:"name"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TastingNotes  string          `json:"tastingNotes"`
	Story         string          `json:"story"`
	Ingredients   []rawIngredient `json:"ingredients"`
	Instructions  []string        `json:"instructions"`
	Steps         []string        `json:"steps"`
	VisualPrompt  string          `json:"visualPrompt"`
	ImagePrompt   string          `json:"imagePrompt"`
	FlavorProfile map[string]any  `json:"flavorProfile"`
	Flavors       map[string]any  `json:"flavors"`
	Stats         map[string]any  `json:"stats"`
	Lore          string          `json:"lore"`
	Backstory     string          `json:"backstory"`
}

type rawIngredient struct {
	Name   string `json:"name"`
	Amount amount `json:"amount"`
}

// amount accepts "30ml", 30 or 22.5 and keeps it as text.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amount(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = amount(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	// null, objects and the like: leave it empty
	return nil
}

// parseRecipe decodes a recipe reply and fills in missing fields.
func parseRecipe(raw string) (*domain.Recipe, error) {
	var r rawRecipe
	if err := decodeLenient(raw, &r); err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		Name:          first(r.Name, r.Title, DefaultName),
		Description:   first(r.Description, r.TastingNotes, r.Story, DefaultDescription),
		VisualPrompt:  first(r.VisualPrompt, r.ImagePrompt, DefaultVisualPrompt),
		Lore:          first(r.Lore, r.Backstory, r.Story, DefaultLore),
		FlavorProfile: parseFlavor(firstMap(r.FlavorProfile, r.Flavors, r.Stats)),
		Ingredients:   []domain.RecipeIngredient{},
	}

	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, domain.RecipeIngredient{
			Name:   ing.Name,
			Amount: string(ing.Amount),
		})
	}

	switch {
	case r.Instructions != nil:
		recipe.Instructions = r.Instructions
	case r.Steps != nil:
		recipe.Instructions = r.Steps
	default:
		recipe.Instructions = []string{DefaultInstruction}
	}
	return recipe, nil
}

// parseFlavor reads the six axes, defaulting missing or unreadable ones to
// a middling profile (sweet 5, sour 5, boozy 5, the rest 0).
func parseFlavor(m map[string]any) domain.FlavorProfile {
	return domain.FlavorProfile{
		Sweet:  number(m["sweet"], 5),
		Sour:   number(m["sour"], 5),
		Bitter: number(m["bitter"], 0),
		Spicy:  number(m["spicy"], 0),
		Boozy:  number(m["boozy"], 5),
		Salty:  number(m["salty"], 0),
	}
}

func number(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// rawVerdict is the judge's reply. Success stays false unless the model
// says true in any recognisable way.
type rawVerdict struct {
	Success any    `json:"success"`
	Reason  string `json:"reason"`
}

func parseVerdict(raw string) (*domain.MissionResult, error) {
	var v rawVerdict
	if err := decodeLenient(raw, &v); err != nil {
		return nil, err
	}
	ok := false
	switch s := v.Success.(type) {
	case bool:
		ok = s
	case string:
		ok, _ = strconv.ParseBool(strings.TrimSpace(s))
	case float64:
		ok = s != 0
	}
	return &domain.MissionResult{Success: ok, Reason: v.Reason}, nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstMap(ms ...map[string]any) map[string]any {
	for _, m := range ms {
		if m != nil {
			return m
		}
	}
	return nil
}
