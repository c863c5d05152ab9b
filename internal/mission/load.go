package mission

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

// ErrNoRequirements is returned for a mission file with nothing to judge.
var ErrNoRequirements = errors.New("mission has no requirements")

// LoadFile reads a mission from a YAML or JSON file, as handed over by the
// mission board.
func LoadFile(path string) (domain.Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("reading mission: %w", err)
	}

	var m domain.Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return domain.Mission{}, fmt.Errorf("mission %s: %w", path, err)
	}
	if len(m.Requirements) == 0 {
		return domain.Mission{}, fmt.Errorf("mission %s: %w", path, ErrNoRequirements)
	}
	for i, r := range m.Requirements {
		switch r.Type {
		case domain.RequireIngredient, domain.RequireFlavor, domain.RequireAlcoholLevel, domain.RequireGlass:
		default:
			return domain.Mission{}, fmt.Errorf("mission %s: requirement %d: unknown type %q", path, i+1, r.Type)
		}
	}
	return m, nil
}

// MarkCompleted flags the mission as done and writes it back to path, so
// judging the same file again reports it as completed. JSON files stay
// JSON; anything else is written as YAML.
func MarkCompleted(path string, m domain.Mission) error {
	m.Completed = true

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(m, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("encoding mission %s: %w", m.ID, err)
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("saving mission %s: %w", path, err)
	}
	return nil
}
