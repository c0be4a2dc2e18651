package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override; EnvFile names the
// variable pointing at an optional YAML file.
const (
	EnvPrefix = "SCOUT_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOUT_CONFIG is set
//  3. env (prefix SCOUT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOUT_MAX_SIMILAR_LIMIT -> max_similar_limit; keys stay flat.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config file location is not itself a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case !slices.Contains([]string{StoreMemory, StorePostgres}, c.Store):
		return invalid("store must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	case c.Store == StorePostgres && c.DatabaseURL == "":
		return invalid("database_url is required for the postgres store")
	case !slices.Contains([]string{FormatText, FormatJSON}, strings.ToLower(c.LogFormat)):
		return invalid("log_format must be %q or %q, got %q", FormatText, FormatJSON, c.LogFormat)
	case c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return invalid("similarity_threshold must be within [0, 1], got %v", c.SimilarityThreshold)
	case c.DefaultSimilarLimit < 1 || c.MaxSimilarLimit < c.DefaultSimilarLimit:
		return invalid("similar limits must satisfy 1 <= default (%d) <= max (%d)",
			c.DefaultSimilarLimit, c.MaxSimilarLimit)
	case c.DefaultLeaderboardLimit < 1 || c.MaxLeaderboardLimit < c.DefaultLeaderboardLimit:
		return invalid("leaderboard limits must satisfy 1 <= default (%d) <= max (%d)",
			c.DefaultLeaderboardLimit, c.MaxLeaderboardLimit)
	case c.LeaderboardMinMatches < 0:
		return invalid("leaderboard_min_matches must not be negative")
	case c.IngestBatchSize < 1 || c.IngestWorkers < 1:
		return invalid("ingest_batch_size and ingest_workers must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
