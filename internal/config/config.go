package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Window     WindowConfig     `toml:"window"`
	Assets     AssetsConfig     `toml:"assets"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate     time.Duration `toml:"tick_rate"`
	Duration     time.Duration `toml:"duration"`
	Entities     int           `toml:"entities"`
	InitialState string        `toml:"initial_state"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type AssetsConfig struct {
	Dir       string   `toml:"dir"`       // entity prototype directory, empty to skip
	Extension string   `toml:"extension"` // prototype file suffix
	Scripts   []string `toml:"scripts"`   // Lua factory files run when the state initialises
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:     time.Second / 60,
			Duration:     5 * time.Second,
			Entities:     1000,
			InitialState: "main",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "stagecs",
		},
		Assets: AssetsConfig{
			Extension: ".entity.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects values the binaries cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	if c.Simulation.Entities < 0 {
		return fmt.Errorf("simulation.entities must not be negative, got %d", c.Simulation.Entities)
	}
	if c.Simulation.InitialState == "" {
		return fmt.Errorf("simulation.initial_state is empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not console or json", c.Logging.Format)
	}
	return nil
}
