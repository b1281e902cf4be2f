package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Theme     string              `yaml:"theme"`
	LogLevel  string              `yaml:"log_level"`
	NotesDir  string              `yaml:"notes_dir"`
	Layout    LayoutConfig        `yaml:"layout"`
	Web       WebConfig           `yaml:"web"`
	Keys      map[string][]string `yaml:"keys"`
	configDir string
}

// LayoutConfig bounds the pane layout and tunes pointer gestures. All sizes
// are in terminal cells.
type LayoutConfig struct {
	MaxPanes      int `yaml:"max_panes"`
	MinPaneWidth  int `yaml:"min_pane_width"`
	DragThreshold int `yaml:"drag_threshold"`
	EdgeZoneWidth int `yaml:"edge_zone_width"`
}

// WebConfig controls the remote control API. Port 0 picks an ephemeral port.
type WebConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

func DefaultConfig() Config {
	return Config{
		Theme:    "mocha",
		LogLevel: "info",
		NotesDir: "~/.local/share/panedit/notes",
		Layout:   DefaultLayoutConfig(),
		Web: WebConfig{
			Bind: "127.0.0.1",
		},
	}
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MaxPanes:      5,
		MinPaneWidth:  24,
		DragThreshold: 2,
		EdgeZoneWidth: 4,
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from configDir. Relative paths in the file
// are resolved against configDir.
func LoadFromDir(configDir string) (Config, error) {
	cfg, err := LoadFrom(filepath.Join(configDir, "config.yaml"))
	cfg.configDir = configDir
	return cfg, err
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()
	cfg.configDir = filepath.Dir(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		def := DefaultConfig()
		def.configDir = cfg.configDir
		return def, err
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Web.Bind == "" {
		cfg.Web.Bind = "127.0.0.1"
	}

	return cfg, cfg.Validate()
}

// Validate checks the loaded values. Invalid values are reset to their
// defaults and reported together in the returned error, so a caller can warn
// and keep going with a usable config.
func (c *Config) Validate() error {
	var errs []error
	def := DefaultConfig()

	if !validTheme(c.Theme) {
		errs = append(errs, fmt.Errorf("theme must be one of latte, frappe, macchiato, mocha, got: %s", c.Theme))
		c.Theme = def.Theme
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got: %s", c.LogLevel))
		c.LogLevel = def.LogLevel
	}

	l := &c.Layout
	dl := def.Layout
	if l.MaxPanes == 0 {
		l.MaxPanes = dl.MaxPanes
	} else if l.MaxPanes < 1 {
		errs = append(errs, fmt.Errorf("layout.max_panes must be at least 1, got: %d", l.MaxPanes))
		l.MaxPanes = dl.MaxPanes
	}
	if l.MinPaneWidth == 0 {
		l.MinPaneWidth = dl.MinPaneWidth
	} else if l.MinPaneWidth < 4 {
		errs = append(errs, fmt.Errorf("layout.min_pane_width must be at least 4, got: %d", l.MinPaneWidth))
		l.MinPaneWidth = dl.MinPaneWidth
	}
	if l.DragThreshold == 0 {
		l.DragThreshold = dl.DragThreshold
	} else if l.DragThreshold < 1 {
		errs = append(errs, fmt.Errorf("layout.drag_threshold must be at least 1, got: %d", l.DragThreshold))
		l.DragThreshold = dl.DragThreshold
	}
	if l.EdgeZoneWidth == 0 {
		l.EdgeZoneWidth = dl.EdgeZoneWidth
	} else if l.EdgeZoneWidth < 1 {
		errs = append(errs, fmt.Errorf("layout.edge_zone_width must be at least 1, got: %d", l.EdgeZoneWidth))
		l.EdgeZoneWidth = dl.EdgeZoneWidth
	}

	if c.Web.Port < 0 || c.Web.Port > 65535 {
		errs = append(errs, fmt.Errorf("web.port must be between 0 and 65535, got: %d", c.Web.Port))
		c.Web.Port = 0
	}

	return errors.Join(errs...)
}

func validTheme(name string) bool {
	switch name {
	case "latte", "frappe", "macchiato", "mocha":
		return true
	}
	return false
}

// ResolveNotesDir expands the notes directory: a leading ~ is the home
// directory and a relative path is relative to the config directory.
func (c *Config) ResolveNotesDir() string {
	return c.ResolvePath(c.NotesDir)
}

// ResolvePath expands ~ and resolves relative paths against the config
// directory.
func (c *Config) ResolvePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) && c.configDir != "" {
		return filepath.Join(c.configDir, path)
	}
	return path
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "panedit", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "panedit", "config.yaml")
	}

	return filepath.Join(home, ".config", "panedit", "config.yaml")
}
