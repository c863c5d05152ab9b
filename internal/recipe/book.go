// Package recipe provides the recipe book: the built-in recipes that can
// be played without the generator, plus loading recipes from disk.
package recipe

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

//go:embed recipes.yaml
var builtinYAML []byte

// Entry is a recipe filed under a short key such as "negroni".
type Entry struct {
	Key           string `yaml:"key"`
	domain.Recipe `yaml:",inline"`
}

type bookFile struct {
	Recipes []Entry `yaml:"recipes"`
}

// Book holds recipes by key. Safe for concurrent use.
type Book struct {
	mu      sync.RWMutex
	entries map[string]Entry
	log     *logger.Logger
}

// NewBook creates a book preloaded with the built-in recipes.
func NewBook(log *logger.Logger) *Book {
	var f bookFile
	if err := yaml.NewDecoder(bytes.NewReader(builtinYAML)).Decode(&f); err != nil {
		// The embedded book is part of the build.
		panic(fmt.Sprintf("recipe: built-in book: %v", err))
	}
	b := &Book{
		entries: make(map[string]Entry, len(f.Recipes)),
		log:     log,
	}
	for _, e := range f.Recipes {
		b.entries[e.Key] = e
	}
	log.Debug("recipe book ready, %d recipes", len(b.entries))
	return b
}

// List returns every entry sorted by key.
func (b *Book) List() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Get finds a recipe by key, or by name ignoring case.
func (b *Book) Get(name string) (domain.Recipe, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q := strings.TrimSpace(name)
	if e, ok := b.entries[strings.ToLower(q)]; ok {
		return e.Recipe, nil
	}
	for _, e := range b.entries {
		if strings.EqualFold(e.Name, q) {
			return e.Recipe, nil
		}
	}
	b.log.Debug("recipe not found: %s", name)
	return domain.Recipe{}, domain.ErrNotFound
}

// Add files a recipe under key, replacing any previous entry.
func (b *Book) Add(key string, r domain.Recipe) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key = strings.ToLower(strings.TrimSpace(key))
	b.entries[key] = Entry{Key: key, Recipe: r}
	b.log.Info("recipe filed: %s (%s)", r.Name, key)
}

// LoadFile reads one recipe from a YAML or JSON file. JSON is valid YAML,
// so generator output saved to disk loads unchanged.
func LoadFile(path string) (domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("opening recipe: %w", err)
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("recipe %s: %w", path, err)
	}
	return r, nil
}

// Decode reads one recipe. A recipe without instructions is rejected.
func Decode(r io.Reader) (domain.Recipe, error) {
	var rec domain.Recipe
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return domain.Recipe{}, fmt.Errorf("decoding recipe: %w", err)
	}
	if len(rec.Instructions) == 0 {
		return domain.Recipe{}, domain.ErrEmptyRecipe
	}
	return rec, nil
}
