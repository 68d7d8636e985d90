package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/secretgrid/internal/grid"
	"github.com/san-kum/secretgrid/internal/source"
)

const (
	DefaultOrigin  = "top"
	DefaultStyle   = StylePlain
	DefaultDataDir = ".secretgrid"
)

const (
	StylePlain  = "plain"
	StyleFramed = "framed"
)

type Config struct {
	URL         string        `yaml:"url"`
	Origin      string        `yaml:"origin"`
	Style       string        `yaml:"style"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheSize   int           `yaml:"cache_size"`
	MaxBodySize int64         `yaml:"max_body_size"`
	MaxCells    int           `yaml:"max_cells"`
	DataDir     string        `yaml:"data_dir"`
	Save        bool          `yaml:"save"`
}

func DefaultConfig() *Config {
	return &Config{
		Origin:      DefaultOrigin,
		Style:       DefaultStyle,
		Timeout:     source.DefaultTimeout,
		CacheSize:   source.DefaultCacheSize,
		MaxBodySize: source.DefaultMaxBodySize,
		MaxCells:    grid.DefaultMaxCells,
		DataDir:     DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the decoder cannot act on.
func (c *Config) Validate() error {
	if _, err := grid.ParseOrigin(c.Origin); err != nil {
		return err
	}
	switch c.Style {
	case StylePlain, StyleFramed:
	default:
		return fmt.Errorf("config: unknown style %q", c.Style)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("config: max_body_size must be positive, got %d", c.MaxBodySize)
	}
	if c.MaxCells < 0 {
		return fmt.Errorf("config: max_cells must not be negative, got %d", c.MaxCells)
	}
	return nil
}

func (c *Config) GridOptions() ([]grid.Option, error) {
	origin, err := grid.ParseOrigin(c.Origin)
	if err != nil {
		return nil, err
	}
	return []grid.Option{grid.WithOrigin(origin), grid.WithMaxCells(c.MaxCells)}, nil
}

func (c *Config) FetcherOptions() []source.FetcherOption {
	return []source.FetcherOption{
		source.WithTimeout(c.Timeout),
		source.WithCacheSize(c.CacheSize),
		source.WithMaxBodySize(c.MaxBodySize),
	}
}
