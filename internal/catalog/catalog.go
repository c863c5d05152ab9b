// Package catalog provides the ingredient shelf: an ordered, read-only list
// of ingredients with exact and fuzzy lookups.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottobar/internal/color"
	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

//go:embed inventory.yaml
var inventoryYAML []byte

// SyntheticPrefix marks IDs of ingredients made up for unknown names.
const SyntheticPrefix = "ai_"

// Compile-time interface check.
var _ domain.Catalog = (*Catalog)(nil)

// Catalog is an ordered ingredient list. Safe for concurrent reads; it is
// never modified after construction.
type Catalog struct {
	ingredients []domain.Ingredient
	byID        map[string]int
	log         *logger.Logger
}

type inventoryFile struct {
	Ingredients []domain.Ingredient `yaml:"ingredients"`
}

// NewDefault creates a catalog preloaded with the built-in shelf.
func NewDefault(log *logger.Logger) *Catalog {
	c, err := Parse(bytes.NewReader(inventoryYAML), log)
	if err != nil {
		// The embedded inventory is part of the build.
		panic(fmt.Sprintf("catalog: built-in inventory: %v", err))
	}
	return c
}

// LoadFile reads a YAML inventory from disk.
func LoadFile(path string, log *logger.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer f.Close()

	c, err := Parse(f, log)
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", path, err)
	}
	log.Info("loaded %d ingredients from %s", len(c.ingredients), path)
	return c, nil
}

// Parse decodes a YAML inventory. IDs must be present and unique.
func Parse(r io.Reader, log *logger.Logger) (*Catalog, error) {
	var inv inventoryFile
	if err := yaml.NewDecoder(r).Decode(&inv); err != nil {
		return nil, fmt.Errorf("decoding inventory: %w", err)
	}
	return New(inv.Ingredients, log)
}

// New builds a catalog from an ordered ingredient list.
func New(ingredients []domain.Ingredient, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{
		ingredients: make([]domain.Ingredient, 0, len(ingredients)),
		byID:        make(map[string]int, len(ingredients)),
		log:         log,
	}
	for i, ing := range ingredients {
		if ing.ID == "" {
			return nil, fmt.Errorf("ingredient %d (%q) has no id", i, ing.Name)
		}
		if _, dup := c.byID[ing.ID]; dup {
			return nil, fmt.Errorf("duplicate ingredient id %q", ing.ID)
		}
		c.byID[ing.ID] = len(c.ingredients)
		c.ingredients = append(c.ingredients, ing)
	}
	log.Debug("catalog ready, %d ingredients", len(c.ingredients))
	return c, nil
}

// List returns every ingredient in shelf order.
func (c *Catalog) List() []domain.Ingredient {
	out := make([]domain.Ingredient, len(c.ingredients))
	copy(out, c.ingredients)
	return out
}

// ByCategory returns the ingredients of one category in shelf order.
func (c *Catalog) ByCategory(cat domain.Category) []domain.Ingredient {
	var out []domain.Ingredient
	for _, ing := range c.ingredients {
		if ing.Category == cat {
			out = append(out, ing)
		}
	}
	return out
}

// ByID returns the ingredient with the exact ID.
func (c *Catalog) ByID(id string) (domain.Ingredient, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Ingredient{}, domain.ErrNotFound
	}
	return c.ingredients[i], nil
}

// Find looks an ingredient up by a free-form name such as "金酒(Gin)" or
// "lime". Each rule is tried over the whole shelf before the next:
//
//  1. exact ID (case-insensitive)
//  2. catalog name contains the query
//  3. query contains the catalog base name
//  4. parenthetical qualifiers agree ("(Gin)" vs "(Gin)"), or the
//     query qualifier is the ID
//
// A name that only shares a word or a character with a shelf entry is not a
// match; Resolve turns it into a synthetic ingredient instead.
func (c *Catalog) Find(name string) (domain.Ingredient, bool) {
	query := strings.TrimSpace(name)
	if query == "" {
		return domain.Ingredient{}, false
	}
	lower := strings.ToLower(query)
	qual := strings.ToLower(qualifier(query))

	rules := []func(domain.Ingredient) bool{
		func(ing domain.Ingredient) bool { return strings.ToLower(ing.ID) == lower },
		func(ing domain.Ingredient) bool { return strings.Contains(strings.ToLower(ing.Name), lower) },
		func(ing domain.Ingredient) bool {
			b := domain.BaseName(ing.Name)
			return b != "" && strings.Contains(query, b)
		},
		func(ing domain.Ingredient) bool {
			if qual == "" {
				return false
			}
			return strings.ToLower(qualifier(ing.Name)) == qual || strings.ToLower(ing.ID) == qual
		},
	}

	for _, match := range rules {
		for _, ing := range c.ingredients {
			if match(ing) {
				return ing, true
			}
		}
	}
	return domain.Ingredient{}, false
}

// Resolve returns the catalog ingredient for name, or a synthetic one with
// a color derived from the name. It never fails.
func (c *Catalog) Resolve(name string) domain.Ingredient {
	if ing, ok := c.Find(name); ok {
		return ing
	}
	c.log.Debug("no catalog match for %q, using synthetic ingredient", name)
	return Synthetic(name)
}

// Search returns ingredients whose ID, name or category mentions query.
func (c *Catalog) Search(query string) []domain.Ingredient {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.Ingredient
	for _, ing := range c.ingredients {
		if strings.Contains(strings.ToLower(ing.ID), q) ||
			strings.Contains(strings.ToLower(ing.Name), q) ||
			ing.Category.String() == q {
			out = append(out, ing)
		}
	}
	return out
}

// Synthetic makes up an ingredient for a name the shelf doesn't carry.
func Synthetic(name string) domain.Ingredient {
	return domain.Ingredient{
		ID:       SyntheticPrefix + name,
		Name:     name,
		Category: domain.CategorySyrupMixer,
		ABV:      0,
		Color:    color.FromName(name),
		Density:  1.0,
		Flavor:   domain.Flavor{Sweet: 5, Sour: 5},
	}
}

// IsSynthetic reports whether the ingredient was made up by Synthetic.
func IsSynthetic(ing domain.Ingredient) bool {
	return strings.HasPrefix(ing.ID, SyntheticPrefix)
}

// qualifier returns the text inside the first parenthesis pair, if any.
func qualifier(name string) string {
	open := strings.IndexAny(name, "(（")
	if open < 0 {
		return ""
	}
	rest := name[open:]
	_, size := utf8.DecodeRuneInString(rest)
	rest = rest[size:]
	if end := strings.IndexAny(rest, ")）"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
