package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file and wins over every search location
	EnvConfigPath = "GRIDVIEW_CONFIG"
	// ConfigFileName is the project-local config file looked for in the working directory
	ConfigFileName = "gridview.yaml"
	// ConfigDirName is the per-user and system config directory
	ConfigDirName = "gridview"
)

// Config file names tried inside each config directory, YAML before TOML
var dirFileNames = []string{"config.yaml", "config.toml"}

// SearchPaths lists the locations FindConfigPath probes, highest priority first:
//
//	$GRIDVIEW_CONFIG
//	./gridview.yaml, ./gridview.toml
//	<user config dir>/gridview/config.{yaml,toml}   ($XDG_CONFIG_HOME or ~/.config)
//	/etc/gridview/config.{yaml,toml}
func SearchPaths() []string {
	var paths []string
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		paths = append(paths, explicit)
	}

	paths = append(paths, ConfigFileName, "gridview.toml")

	if dir := userConfigDir(); dir != "" {
		paths = append(paths, inDir(dir)...)
	}
	return append(paths, inDir(filepath.Join("/etc", ConfigDirName))...)
}

// FindConfigPath returns the first existing entry of SearchPaths, made absolute
// when it is relative to the working directory. It returns "" when the diagram
// server should run on defaults.
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if !isFile(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// DefaultConfigPath is where `gridview config init` writes when given no path
func DefaultConfigPath() string {
	if dir := userConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return ConfigFileName
}

// userConfigDir is the gridview directory under the user's config home
func userConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, ConfigDirName)
}

func inDir(dir string) []string {
	out := make([]string, len(dirFileNames))
	for i, name := range dirFileNames {
		out[i] = filepath.Join(dir, name)
	}
	return out
}

func ensureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
