// Package driver orchestrates check runs: project configuration, file
// discovery, parsing, and the full and incremental checking paths.
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the project config file.
const ConfigFileName = "modlint.yaml"

// ConfigFileNameAlt is the alternate name of the project config file.
const ConfigFileNameAlt = "modlint.yml"

// Config controls which files are checked and which findings are kept.
type Config struct {
	// Include holds glob patterns of files to check; empty means every .js
	// file under the run's root.
	Include []string `koanf:"include" yaml:"include,omitempty"`
	// Exclude holds glob patterns matched against the path's base name and
	// its directory components.
	Exclude []string `koanf:"exclude" yaml:"exclude,omitempty"`
	// Disable lists diagnostic IDs to suppress.
	Disable []string `koanf:"disable" yaml:"disable,omitempty"`
	// Severity is the minimum severity to report: "error" or "warning".
	Severity string `koanf:"severity" yaml:"severity,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Severity == "" {
		c.Severity = "warning"
	}
	if len(c.Exclude) == 0 {
		c.Exclude = []string{"node_modules", "*.min.js"}
	}
}

// Disabled reports whether findings of the given diagnostic ID are
// suppressed.
func (c *Config) Disabled(id string) bool {
	for _, d := range c.Disable {
		if d == id {
			return true
		}
	}
	return false
}

// LoadConfig loads a Config from the given path.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("driver: load %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("driver: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadConfigFromDir loads the project config found in dir. Returns nil, nil
// when no config file exists; callers fall back to defaults.
func LoadConfigFromDir(dir string) (*Config, error) {
	path := findConfigFile(dir)
	if path == "" {
		return nil, nil
	}
	return LoadConfig(path)
}

func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the nearest directory holding a
// config file. Returns the empty string when there is none.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if findConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// WriteDefault writes a starter config file to dir. It refuses to overwrite
// an existing one.
func WriteDefault(dir string) (string, error) {
	if existing := findConfigFile(dir); existing != "" {
		return "", fmt.Errorf("driver: %s already exists", existing)
	}

	cfg := &Config{}
	cfg.ApplyDefaults()
	data, err := goyaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("driver: marshal default config: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("driver: write %s: %w", path, err)
	}
	return path, nil
}
