package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mnnrunner/internal/probe"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string        `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string        `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	CacheDir     string        `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	LibDirs      []string      `json:"lib_dirs" yaml:"lib_dirs" toml:"lib_dirs"`
	Modules      probe.Modules `json:"modules" yaml:"modules" toml:"modules"`
	RunnerBin    string        `json:"runner_bin" yaml:"runner_bin" toml:"runner_bin"`
	RunnerArgs   []string      `json:"runner_args" yaml:"runner_args" toml:"runner_args"`
	LogLevel     string        `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RunWaitSecs  int64         `json:"run_wait_seconds" yaml:"run_wait_seconds" toml:"run_wait_seconds"`
	CORSEnabled  bool          `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string      `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
