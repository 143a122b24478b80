package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration. Command-line flags win
// over it.
type fileConfig struct {
	Disable  []string `yaml:"disable"`
	LogLevel string   `yaml:"log-level"`
	Stats    bool     `yaml:"stats"`
	Verbose  bool     `yaml:"verbose"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// merge applies the file settings that were not given on the command line.
func (c fileConfig) merge(opts options, logLevel string, setFlags map[string]bool) (options, string) {
	opts.disable = append(append([]string(nil), c.Disable...), opts.disable...)

	if c.Stats && !setFlags["stats"] {
		opts.stats = true
	}

	if c.Verbose && !setFlags["v"] {
		opts.verbose = true
	}

	if c.LogLevel != "" && !setFlags["log-level"] {
		logLevel = c.LogLevel
	}

	return opts, logLevel
}
