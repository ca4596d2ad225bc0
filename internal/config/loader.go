package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvConfigPath names the environment variable pointing at the YAML
// configuration file when no explicit path is given.
const EnvConfigPath = "DUNEURO_TEST_CONFIG"

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) from path, or DUNEURO_TEST_CONFIG if path is empty
//  3. env (prefix DUNEURO_, "__" separating sections)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: DUNEURO_LOG_LEVEL, DUNEURO_OUTPUT__WRITE,
	// DUNEURO_SOLVER__GRID_RESOLUTION, ... A double underscore maps to
	// a section separator; single underscores stay part of the key.
	envProvider := env.Provider("DUNEURO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DUNEURO_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
