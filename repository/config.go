package repository

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxWeight   = 800000
	DefaultConcurrency = 20
)

// Config bounds the repository. MaxWeight is the total length of the cached
// specifications, split evenly across Concurrency shards.
type Config struct {
	MaxWeight   int64 `yaml:"max_weight" json:"max_weight"`
	Concurrency int   `yaml:"concurrency" json:"concurrency"`
}

func DefaultConfig() Config {
	return Config{
		MaxWeight:   DefaultMaxWeight,
		Concurrency: DefaultConcurrency,
	}
}

func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxWeight < int64(c.Concurrency) {
		return fmt.Errorf("max_weight %d is below concurrency %d", c.MaxWeight, c.Concurrency)
	}
	return nil
}

// LoadConfig reads a YAML document. Fields it leaves out keep their default.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode repository config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid repository config: %w", err)
	}
	return cfg, nil
}
