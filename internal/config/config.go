package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Icon settings
	Icons IconConfig `yaml:"icons"`

	// Player plugin settings
	Player PlayerConfig `yaml:"player"`

	// FFprobe settings
	FFprobe FFprobeConfig `yaml:"ffprobe"`
}

type IconConfig struct {
	Host    string        `yaml:"host" env:"MPVDECK_ICON_HOST"`
	Width   int           `yaml:"width" env:"MPVDECK_ICON_WIDTH"`
	Height  int           `yaml:"height" env:"MPVDECK_ICON_HEIGHT"`
	Timeout time.Duration `yaml:"timeout" env:"MPVDECK_ICON_TIMEOUT"`
}

type PlayerConfig struct {
	PluginDir  string `yaml:"plugin_dir" env:"MPVDECK_PLUGIN_DIR"`
	PluginName string `yaml:"plugin_name" env:"MPVDECK_PLUGIN_NAME"`
	// Platform overrides runtime.GOOS when building the plugin entry
	Platform string `yaml:"platform" env:"MPVDECK_PLATFORM"`
}

type FFprobeConfig struct {
	BinaryPath string `yaml:"binary_path" env:"MPVDECK_FFPROBE"`
}

// Load reads configuration from file, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		Icons: IconConfig{
			Host:    "fonts.gstatic.com",
			Width:   18,
			Height:  18,
			Timeout: 10 * time.Second,
		},
		Player: PlayerConfig{
			PluginDir:  "",
			PluginName: "mpvjs.node",
			Platform:   runtime.GOOS,
		},
		FFprobe: FFprobeConfig{
			BinaryPath: "ffprobe",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".mpvdeck", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
