package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// loadDotEnv is a seam; godotenv never overrides variables already set.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv overlays cfg with GOPHNOTES_* variables. A missing .env file is
// not an error.
func parseEnv(cfg *Config) error {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}
