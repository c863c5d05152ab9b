// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottobar/internal/domain"
)

// Config is everything the binary needs that isn't a flag.
type Config struct {
	DBPath         string        `env:"OTTOBAR_DB,default=.ottobar/sessions.db"`
	CatalogPath    string        `env:"OTTOBAR_CATALOG"`
	Glass          string        `env:"OTTOBAR_GLASS,default=rocks"`
	StepDelay      time.Duration `env:"OTTOBAR_STEP_DELAY,default=1500ms"`
	PourGap        time.Duration `env:"OTTOBAR_POUR_GAP,default=600ms"`
	StrictCapacity bool          `env:"OTTOBAR_STRICT_CAPACITY,default=false"`
	LogFile        string        `env:"OTTOBAR_LOG_FILE,default=.ottobar/ottobar.log"`

	GPT GPT
}

// GPT configures the generative service. It is disabled without a key.
type GPT struct {
	APIKey  string        `env:"GPT_API_KEY"`
	BaseURL string        `env:"GPT_BASE_URL,default=https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string        `env:"GPT_MODEL,default=gemini-2.5-flash"`
	Timeout time.Duration `env:"GPT_TIMEOUT,default=60s"`
}

// Enabled reports whether a key is configured.
func (g GPT) Enabled() bool {
	return g.APIKey != ""
}

// Load reads envFile into the environment, if it exists, then decodes the
// environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the environment can't type-check.
func (c *Config) Validate() error {
	if _, ok := domain.GlassFromString(c.Glass); !ok {
		return fmt.Errorf("OTTOBAR_GLASS %q: unknown glass", c.Glass)
	}
	if c.StepDelay < 0 || c.PourGap < 0 {
		return errors.New("playback delays must not be negative")
	}
	return nil
}

// DefaultGlass is the parsed OTTOBAR_GLASS.
func (c *Config) DefaultGlass() domain.GlassType {
	g, _ := domain.GlassFromString(c.Glass)
	return g
}
