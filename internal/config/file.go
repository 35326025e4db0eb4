// Package config holds booth options, the optional YAML booth file and
// environment overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// BoothFile is the optional on-disk booth configuration.
type BoothFile struct {
	Device    string        `yaml:"device"`
	Addr      string        `yaml:"addr"`
	OutputDir string        `yaml:"output_dir"`
	Countdown int           `yaml:"countdown"`
	Caption   string        `yaml:"caption"`
	FontPath  string        `yaml:"font_path"`
	Themes    []ThemeConfig `yaml:"themes"`
}

// ThemeConfig declares an extra sticker theme loaded from disk.
type ThemeConfig struct {
	Name   string   `yaml:"name"`
	Key    string   `yaml:"key"`
	Images []string `yaml:"images"` // file paths, served as file: locators
}

// LoadFile reads a YAML booth configuration file.
func LoadFile(path string) (*BoothFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg BoothFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *BoothFile) applyDefaults() {
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Countdown <= 0 {
		c.Countdown = DefaultCountdown
	}
	if c.Caption == "" {
		c.Caption = DefaultCaption
	}
}
