package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Versifine/locomotion/internal/locomotion"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig       `yaml:"logging"`
	Sandbox    SandboxConfig       `yaml:"sandbox"`
	Locomotion locomotion.Settings `yaml:"locomotion"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SandboxConfig struct {
	// Scene is resolved relative to the config file.
	Scene        string        `yaml:"scene"`
	TickInterval time.Duration `yaml:"tick_interval"`
	// Watch reloads tuning when the config file changes.
	Watch bool `yaml:"watch"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sandbox: SandboxConfig{
			Scene:        "scene.yaml",
			TickInterval: 50 * time.Millisecond,
		},
		Locomotion: locomotion.DefaultSettings(),
	}
}

// Load overlays the file at path on Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Sandbox.Scene != "" && !filepath.IsAbs(cfg.Sandbox.Scene) {
		cfg.Sandbox.Scene = filepath.Join(filepath.Dir(path), cfg.Sandbox.Scene)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be one of console, text, json", c.Logging.Format)
	}
	if c.Sandbox.TickInterval <= 0 {
		return fmt.Errorf("sandbox.tick_interval must be positive, got %v", c.Sandbox.TickInterval)
	}
	return c.Locomotion.Validate()
}
