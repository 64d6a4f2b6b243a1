package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProfile names output files when neither a flag nor the config
// names a profile.
const DefaultProfile = "default"

// Config holds optional defaults loaded from ~/.config/aws-recipes/config.yaml.
type Config struct {
	DefaultProfile string `yaml:"default_profile"`
	DefaultRegion  string `yaml:"default_region"`
	OnExists       string `yaml:"on_exists"`
	SaveDir        string `yaml:"save_dir"`
}

// Path returns the config file location. AWS_RECIPES_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("AWS_RECIPES_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aws-recipes", "config.yaml"), nil
}

// Load reads the config file. Returns zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.OnExists {
	case "", "fail", "reuse", "update":
		return nil
	}
	return fmt.Errorf("on_exists must be one of fail, reuse, update (got %q)", c.OnExists)
}

// Merge applies CLI flag overrides. Flags take precedence over config defaults.
func (c *Config) Merge(profile, region string) (string, string) {
	p := c.DefaultProfile
	if profile != "" {
		p = profile
	}
	r := c.DefaultRegion
	if region != "" {
		r = region
	}
	return p, r
}

// ProfileName is the profile label used in output file names.
func ProfileName(profile string) string {
	if profile == "" {
		return DefaultProfile
	}
	return profile
}
