// Package config handles loading and saving arbor configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/arbor/config.yaml
//   - Data:    ~/.local/share/arbor/ (tree files, exports)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeometryConfig holds the node and placement geometry, in scene units.
type GeometryConfig struct {
	NodeWidth  float64 `yaml:"node_width,omitempty"`  // Width of a person box
	NodeHeight float64 `yaml:"node_height,omitempty"` // Height of a person box
	MaxName    int     `yaml:"max_name,omitempty"`    // Name truncation budget (cells)
}

// LayoutConfig holds defaults for the store-side auto layout.
type LayoutConfig struct {
	Direction string  `yaml:"direction,omitempty"` // top-down or left-right
	SpacingX  float64 `yaml:"spacing_x,omitempty"`
	SpacingY  float64 `yaml:"spacing_y,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme      string `yaml:"theme,omitempty"`       // dark or light
	ShowDetail bool   `yaml:"show_detail,omitempty"` // Open detail panel on start
}

// Config is the top-level configuration for arbor.
type Config struct {
	DataPath string         `yaml:"data_path,omitempty"` // Tree file (.db or .json)
	Geometry GeometryConfig `yaml:"geometry,omitempty"`
	Layout   LayoutConfig   `yaml:"layout,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Geometry: GeometryConfig{
			NodeWidth:  120,
			NodeHeight: 60,
			MaxName:    18,
		},
		Layout: LayoutConfig{
			Direction: "top-down",
			SpacingX:  200,
			SpacingY:  150,
		},
		UI: UIConfig{Theme: "dark"},
	}
}

// ConfigDir returns the XDG config directory for arbor.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "arbor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arbor")
}

// DataDir returns the XDG data directory for arbor.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "arbor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "arbor")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultDataPath returns the autosave tree file used when no --file flag or
// data_path setting is present.
func DefaultDataPath() string {
	dir := DataDir()
	if dir == "" {
		return "arbor.json"
	}
	return filepath.Join(dir, "tree.json")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DataPath = expandHome(cfg.DataPath)

	// Zero or negative geometry would collapse every placement computation.
	def := DefaultConfig()
	if cfg.Geometry.NodeWidth <= 0 {
		cfg.Geometry.NodeWidth = def.Geometry.NodeWidth
	}
	if cfg.Geometry.NodeHeight <= 0 {
		cfg.Geometry.NodeHeight = def.Geometry.NodeHeight
	}
	if cfg.Geometry.MaxName <= 0 {
		cfg.Geometry.MaxName = def.Geometry.MaxName
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
