package main

import (
	"os"

	"github.com/gear6io/hivebridge/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	CheckerConfigReadFailed  = errors.MustNewCode("checker.config_read_failed")
	CheckerConfigParseFailed = errors.MustNewCode("checker.config_parse_failed")
	CheckerParseFailed       = errors.MustNewCode("checker.parse_failed")
)

// Config is the checker configuration, read from .errorcode.yml
type Config struct {
	ExcludePaths []string `yaml:"exclude_paths"`
	// Calls that must go through pkg/errors instead, as import path and function
	ForbiddenCalls []ForbiddenCall `yaml:"forbidden_calls"`
	// Packages allowed to use forbidden calls, matched as path prefixes
	AllowedPaths    []string `yaml:"allowed_paths"`
	ExitOnUnused    bool     `yaml:"exit_on_unused"`
	ExitOnForbidden bool     `yaml:"exit_on_forbidden"`
	Verbose         bool     `yaml:"verbose"`
}

// ForbiddenCall names a function by import path
type ForbiddenCall struct {
	Package  string `yaml:"package"`
	Function string `yaml:"function"`
}

func defaultConfig() *Config {
	return &Config{
		ExcludePaths: []string{"_examples/", "vendor/", "testdata/", "data/", "logs/", ".git/"},
		ForbiddenCalls: []ForbiddenCall{
			{Package: "fmt", Function: "Errorf"},
			{Package: "errors", Function: "New"},
			{Package: "github.com/go-faster/errors", Function: "New"},
			{Package: "github.com/go-faster/errors", Function: "Wrap"},
			{Package: "github.com/go-faster/errors", Function: "Wrapf"},
		},
		AllowedPaths:    []string{"pkg/errors/", "scripts/"},
		ExitOnForbidden: true,
	}
}

// loadConfig reads path over the defaults; an empty path yields the defaults
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(CheckerConfigReadFailed, "failed to read config file", err).AddContext("path", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(CheckerConfigParseFailed, "failed to parse config file", err).AddContext("path", path)
	}
	return cfg, nil
}
