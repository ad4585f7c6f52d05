package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file on top of the defaults. `${VAR}` and
// `${VAR:-default}` are replaced with environment values before parsing.
func Load(path string, getenv func(string) string) (*CompilerConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, getenv)
}

// Parse is Load for configuration already in memory
func Parse(data []byte, getenv func(string) string) (*CompilerConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := NewCompilerConfig()
	if err := yaml.Unmarshal(interpolateEnv(data, getenv), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges of the configuration values
func Validate(cfg *CompilerConfig) error {
	if cfg.InlineInterpolationLimit < 1 || cfg.InlineInterpolationLimit > DefaultInlineInterpolationLimit {
		return fmt.Errorf("invalid inline_interpolation_limit: %d (must be 1-%d)",
			cfg.InlineInterpolationLimit, DefaultInlineInterpolationLimit)
	}
	return nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
