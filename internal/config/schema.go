package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Layout   LayoutConfig   `yaml:"layout" toml:"layout"`
	Geometry GeometryConfig `yaml:"geometry" toml:"geometry"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" toml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DatabaseConfig holds snapshot storage settings
type DatabaseConfig struct {
	Driver string      `yaml:"driver" toml:"driver"` // sqlite or redis
	Path   string      `yaml:"path" toml:"path"`
	Redis  RedisConfig `yaml:"redis" toml:"redis"`
}

// RedisConfig holds settings for the redis snapshot store
type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	DB       int    `yaml:"db" toml:"db"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// LayoutConfig holds static layout settings
type LayoutConfig struct {
	Mode           LayoutMode `yaml:"mode" toml:"mode"`
	LevelSpacing   float64    `yaml:"level_spacing" toml:"level_spacing"`
	SiblingSpacing float64    `yaml:"sibling_spacing" toml:"sibling_spacing"`
}

// GeometryConfig holds group outline settings
type GeometryConfig struct {
	Padding float64 `yaml:"padding" toml:"padding"`
}

// HistoryConfig holds undo settings
type HistoryConfig struct {
	Limit int `yaml:"limit" toml:"limit"` // 0 = unbounded
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
