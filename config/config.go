// Package config holds envdiag settings. Defaults reproduce the stock
// behavior; an optional YAML file and command-line flags override them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"envdiag/manifest"
	"envdiag/sysinfo"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "envdiag.yaml"

// Package sources.
const (
	SourceDistInfo = "distinfo"
	SourcePip      = "pip"
)

// Config holds envdiag configuration
type Config struct {
	LogFile          string        `yaml:"log_file"`
	Requirements     string        `yaml:"requirements"`
	RequirementsGlob string        `yaml:"requirements_glob"`
	DefaultManifest  string        `yaml:"default_requirements"`
	Port             int           `yaml:"port"`
	EnvVar           string        `yaml:"env_var"`
	Python           string        `yaml:"python"`
	Source           string        `yaml:"source"`
	FrameworkPackage string        `yaml:"framework_package"`
	GPUCommand       []string      `yaml:"gpu_command"`
	GPUTimeout       time.Duration `yaml:"gpu_timeout"`
	NoColor          bool          `yaml:"no_color"`
	Debug            bool          `yaml:"debug"`
}

// Default returns a configuration with the stock settings.
func Default() *Config {
	return &Config{
		LogFile:          "diagnostics.log",
		RequirementsGlob: manifest.DefaultPattern,
		DefaultManifest:  manifest.DefaultFile,
		Port:             sysinfo.DefaultPort,
		EnvVar:           "CUDA_HOME",
		Source:           SourceDistInfo,
		FrameworkPackage: "torch",
		GPUCommand:       append([]string(nil), sysinfo.DefaultGPUCommand...),
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// The result is not validated; call Validate once flags have been applied.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Source {
	case SourceDistInfo, SourcePip:
	default:
		return fmt.Errorf("unknown package source %q (want %s or %s)", c.Source, SourceDistInfo, SourcePip)
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file must not be empty")
	}
	return nil
}
