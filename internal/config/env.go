package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOptions are the BOOTH_-prefixed environment overrides. They sit between
// the booth file and command-line flags in precedence.
type EnvOptions struct {
	Device    string `env:"BOOTH_DEVICE"`
	Addr      string `env:"BOOTH_ADDR"`
	OutputDir string `env:"BOOTH_OUTPUT_DIR"`
	Countdown int    `env:"BOOTH_COUNTDOWN"`
	Caption   string `env:"BOOTH_CAPTION"`
	FontPath  string `env:"BOOTH_FONT_PATH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
