// Package domain defines the core types and interfaces for the bar workbench.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// Category groups ingredients the way the shelf is laid out.
type Category int

const (
	CategoryBaseSpirit Category = iota
	CategoryLiqueur
	CategorySyrupMixer
	CategoryGarnish
	CategoryIce
)

// String returns the snake_case name of the category.
func (c Category) String() string {
	switch c {
	case CategoryBaseSpirit:
		return "base_spirit"
	case CategoryLiqueur:
		return "liqueur"
	case CategorySyrupMixer:
		return "syrup_mixer"
	case CategoryGarnish:
		return "garnish"
	case CategoryIce:
		return "ice"
	default:
		return "unknown"
	}
}

var categoryNames = map[string]Category{
	"base_spirit": CategoryBaseSpirit,
	"liqueur":     CategoryLiqueur,
	"syrup_mixer": CategorySyrupMixer,
	"garnish":     CategoryGarnish,
	"ice":         CategoryIce,
}

// CategoryFromString converts a snake_case name to a Category.
// Unknown names map to CategorySyrupMixer, the catch-all shelf.
func CategoryFromString(name string) Category {
	if c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return CategorySyrupMixer
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	*c = CategoryFromString(string(b))
	return nil
}

// Flavor is a 0..10 intensity profile.
type Flavor struct {
	Sweet  float64 `json:"sweet" yaml:"sweet"`
	Sour   float64 `json:"sour" yaml:"sour"`
	Bitter float64 `json:"bitter" yaml:"bitter"`
	Spicy  float64 `json:"spicy" yaml:"spicy"`
	Boozy  float64 `json:"boozy" yaml:"boozy"`
}

// Ingredient is a catalog entry. Loaded once and never mutated.
type Ingredient struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	ABV         float64  `json:"abv" yaml:"abv"`         // alcohol by volume, 0..100
	Color       string   `json:"color" yaml:"color"`     // hex, "#RRGGBB"
	Density     float64  `json:"density" yaml:"density"` // water = 1.0
	Flavor      Flavor   `json:"flavor" yaml:"flavor"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Pairings    []string `json:"pairings,omitempty" yaml:"pairings,omitempty"` // suggested ingredient IDs
}

// BaseName strips the parenthetical qualifier from an ingredient name:
// "伦敦干金酒 (Gin)" -> "伦敦干金酒". Both ASCII and full-width
// parentheses are recognised.
func BaseName(name string) string {
	if i := strings.IndexAny(name, "(（"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
