// Package config loads the service configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen   string `yaml:"listen"`
	Database string `yaml:"database"`
	Agent    string `yaml:"agent"`
	LogLevel string `yaml:"logLevel"`

	// Console switches logs from JSON to human readable lines.
	Console bool `yaml:"console"`

	// TrustForwardedFor takes X-Forwarded-For at face value.
	// Only enable it behind a proxy that overwrites the header.
	TrustForwardedFor bool `yaml:"trustForwardedFor"`
}

func Default() Config {
	return Config{
		Listen:   ":8080",
		Database: "adaptd.db",
		LogLevel: "info",
	}
}

// Load reads the YAML file at filename over the defaults.
// An empty filename yields the defaults.
func Load(filename string) (Config, error) {
	config := Default()
	if filename == "" {
		return config, nil
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrap(err, "reading config")
	}

	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(b, &config); err != nil {
		return config, errors.Wrap(err, "parsing config")
	}

	if config.Listen == "" {
		return config, errors.New("listen address is empty")
	}
	if config.Database == "" {
		config.Database = Default().Database
	}
	return config, nil
}
