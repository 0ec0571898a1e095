// Package config loads mudra's runtime configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then MUDRA_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/logger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MUDRA_"

// DataDirName is the per-user data directory under $HOME.
const DataDirName = ".mudra"

// Config is the full runtime configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" env:"ADDR"`
	// StaticDir is served at /. Empty means search the usual locations.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR"`
	// DBPath is the sqlite database file.
	DBPath string `yaml:"db_path" env:"DB_PATH"`
	// PluginDir is scanned for */plugin.json manifests.
	PluginDir string `yaml:"plugin_dir" env:"PLUGIN_DIR"`
	// PluginTimeout bounds a single plugin execution.
	PluginTimeout time.Duration `yaml:"plugin_timeout" env:"PLUGIN_TIMEOUT"`
	// Tray shows the system tray menu.
	Tray bool `yaml:"tray" env:"TRAY"`
	// SeedDefaults stores the built-in poses when the pose table is empty.
	SeedDefaults bool `yaml:"seed_defaults" env:"SEED_DEFAULTS"`

	Tracker TrackerConfig `yaml:"tracker" envPrefix:"TRACKER_"`
	Log     logger.Config `yaml:"log" envPrefix:"LOG_"`
}

// TrackerConfig selects where hand-tracking frames come from. With neither
// field set, frames only arrive over the WebSocket stream.
type TrackerConfig struct {
	// Frames is a file of newline-delimited JSON frames; "-" reads stdin.
	Frames string `yaml:"frames" env:"FRAMES"`
	// Command runs an external tracker that writes frames to stdout.
	Command []string `yaml:"command" env:"COMMAND" envSeparator:" "`
}

// Default returns the built-in configuration rooted at ~/.mudra.
func Default() Config {
	dataDir := DataDirName
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, DataDirName)
	}

	return Config{
		Addr:          ":8080",
		DBPath:        filepath.Join(dataDir, "mudra.db"),
		PluginDir:     filepath.Join(dataDir, "plugins"),
		PluginTimeout: 5 * time.Second,
		SeedDefaults:  true,
		Log:           logger.Config{Level: "info"},
	}
}

// Load resolves the configuration. path may be empty, in which case no file
// is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML overlays data onto cfg. Unknown keys are rejected.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks the fields that have no usable zero value.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.DBPath == "" {
		return errors.New("config: db_path is required")
	}
	if c.PluginTimeout <= 0 {
		return fmt.Errorf("config: plugin_timeout must be positive, got %s", c.PluginTimeout)
	}
	if c.Tracker.Frames != "" && len(c.Tracker.Command) > 0 {
		return errors.New("config: tracker.frames and tracker.command are mutually exclusive")
	}
	return nil
}

// FindStaticDir returns c.StaticDir if set, otherwise the first existing
// "web" directory near the working directory or under ~/.mudra.
func (c *Config) FindStaticDir() string {
	if c.StaticDir != "" {
		return c.StaticDir
	}

	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWeb := filepath.Join(home, DataDirName, "web")
	if info, err := os.Stat(homeWeb); err == nil && info.IsDir() {
		return homeWeb
	}
	return ""
}
