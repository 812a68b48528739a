package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCellSize         = 10
	DefaultWidth            = 1280
	DefaultHeight           = 720
	DefaultDissolveInterval = 15 * time.Second
	DefaultDissolveStrength = 0.95
	DefaultPointerRadius    = 5
	DefaultCenterSeed       = 5
	DefaultInitialClusters  = 3
	DefaultReseedClusters   = 2
	DefaultResizeHysteresis = 5
	DefaultFPS              = 30
	DefaultAddr             = ":3000"
	DefaultBrand            = "Chatooly"
)

type Config struct {
	Sim    SimConfig    `yaml:"sim"`
	Render RenderConfig `yaml:"render"`
	Hub    HubConfig    `yaml:"hub"`
	Log    LogConfig    `yaml:"log"`
}

type SimConfig struct {
	CellSize         int           `yaml:"cell_size"`
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	DA               float64       `yaml:"da"`
	DB               float64       `yaml:"db"`
	Feed             float64       `yaml:"feed"`
	Kill             float64       `yaml:"kill"`
	DissolveInterval time.Duration `yaml:"dissolve_interval"`
	DissolveStrength float64       `yaml:"dissolve_strength"`
	PointerRadius    int           `yaml:"pointer_radius"`
	CenterSeed       int           `yaml:"center_seed"`
	InitialClusters  int           `yaml:"initial_clusters"`
	ReseedClusters   int           `yaml:"reseed_clusters"`
	ResizeHysteresis int           `yaml:"resize_hysteresis"`
	Workers          int           `yaml:"workers"`
	Seed             int64         `yaml:"seed"`
	FPS              int           `yaml:"fps"`
}

type RenderConfig struct {
	// Palette selects a pastel by index; -1 picks one at random.
	Palette  int    `yaml:"palette"`
	Color    string `yaml:"color"`
	Colormap string `yaml:"colormap"`
}

type HubConfig struct {
	Addr      string `yaml:"addr"`
	PublicDir string `yaml:"public_dir"`
	ToolsDir  string `yaml:"tools_dir"`
	BaseURL   string `yaml:"base_url"`
	Brand     string `yaml:"brand"`
	MaxBodyMB int    `yaml:"max_body_mb"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			CellSize:         DefaultCellSize,
			Width:            DefaultWidth,
			Height:           DefaultHeight,
			DA:               1.0,
			DB:               0.5,
			Feed:             0.055,
			Kill:             0.062,
			DissolveInterval: DefaultDissolveInterval,
			DissolveStrength: DefaultDissolveStrength,
			PointerRadius:    DefaultPointerRadius,
			CenterSeed:       DefaultCenterSeed,
			InitialClusters:  DefaultInitialClusters,
			ReseedClusters:   DefaultReseedClusters,
			ResizeHysteresis: DefaultResizeHysteresis,
			Workers:          1,
			FPS:              DefaultFPS,
		},
		Render: RenderConfig{Palette: -1},
		Hub: HubConfig{
			Addr:      DefaultAddr,
			PublicDir: "public",
			ToolsDir:  "public/tools",
			Brand:     DefaultBrand,
			MaxBodyMB: 32,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func (c *Config) Validate() error {
	s := c.Sim
	switch {
	case s.CellSize <= 0:
		return fmt.Errorf("config: cell_size must be positive, got %d", s.CellSize)
	case s.Width < s.CellSize || s.Height < s.CellSize:
		return fmt.Errorf("config: viewport %dx%d smaller than one cell", s.Width, s.Height)
	case s.DA < 0 || s.DB < 0 || s.Feed < 0 || s.Kill < 0:
		return fmt.Errorf("config: reaction parameters must be non-negative")
	case s.DissolveStrength < 0 || s.DissolveStrength > 1:
		return fmt.Errorf("config: dissolve_strength must be in [0,1], got %g", s.DissolveStrength)
	case s.DissolveInterval < 0:
		return fmt.Errorf("config: dissolve_interval must not be negative")
	case s.PointerRadius < 0 || s.CenterSeed < 0 || s.ResizeHysteresis < 0:
		return fmt.Errorf("config: radii and hysteresis must not be negative")
	case c.Render.Palette >= 12:
		return fmt.Errorf("config: palette index %d out of range", c.Render.Palette)
	}
	return nil
}

// ApplyPreset copies a named reaction regime into the sim section.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	c.Sim.DA, c.Sim.DB, c.Sim.Feed, c.Sim.Kill = p.DA, p.DB, p.Feed, p.Kill
	return nil
}
