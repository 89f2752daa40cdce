// Package config provides configuration management for gridview.
//
// Config file locations (priority order):
//  1. $GRIDVIEW_CONFIG
//  2. ./gridview.yaml or ./gridview.toml
//  3. ~/.config/gridview/config.yaml
//  4. /etc/gridview/config.yaml
//
// Files ending in .toml are decoded with BurntSushi/toml, everything else as YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridview/internal/geometry"
	"gridview/internal/layout"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path, as TOML when the path ends in .toml
func (c *Config) Save(path string) error {
	if err := ensureParentDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "./gridview.db"
	}
	if c.Database.Redis.Addr == "" {
		c.Database.Redis.Addr = "localhost:6379"
	}
	if c.Database.Redis.Prefix == "" {
		c.Database.Redis.Prefix = "gridview:"
	}
	c.Layout.Mode = ParseLayoutMode(string(c.Layout.Mode))
	if c.Layout.LevelSpacing <= 0 {
		c.Layout.LevelSpacing = layout.DefaultLevelSpacing
	}
	if c.Layout.SiblingSpacing <= 0 {
		c.Layout.SiblingSpacing = layout.DefaultSiblingSpacing
	}
	c.Geometry.Padding = geometry.EffectivePadding(c.Geometry.Padding)
	if c.History.Limit < 0 {
		c.History.Limit = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LayoutOptions returns the spacing for the hierarchical layout
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		LevelSpacing:   c.Layout.LevelSpacing,
		SiblingSpacing: c.Layout.SiblingSpacing,
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Layout: %s (level %.0f, sibling %.0f), padding %.0f\n",
		c.Layout.Mode, c.Layout.LevelSpacing, c.Layout.SiblingSpacing, c.Geometry.Padding)
	limit := "unbounded"
	if c.History.Limit > 0 {
		limit = fmt.Sprintf("%d", c.History.Limit)
	}
	store := c.Database.Path
	if c.Database.Driver == DriverRedis {
		store = "redis://" + c.Database.Redis.Addr
	}
	summary += fmt.Sprintf("History: %s, Database: %s, Listen: %s", limit, store, c.Server.Addr)
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
