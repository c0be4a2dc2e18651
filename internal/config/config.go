// Package config defines service configuration and its loader.
package config

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the record backend: memory or postgres.
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres DSN, required when Store is postgres.
	DatabaseURL string `koanf:"database_url"`

	DBMaxOpenConns       int `koanf:"db_max_open_conns"`
	DBMaxIdleConns       int `koanf:"db_max_idle_conns"`
	DBConnMaxLifetimeSec int `koanf:"db_conn_max_lifetime_sec"`

	// SeedCSV, when set, is loaded into the store on startup.
	SeedCSV string `koanf:"seed_csv"`

	// SortCatalog is an optional YAML file of extra sort options.
	SortCatalog string `koanf:"sort_catalog"`

	// AdminEnabled exposes sort option mutation over HTTP.
	AdminEnabled bool `koanf:"admin_enabled"`

	SimilarityEnabled   bool    `koanf:"similarity_enabled"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	DefaultSimilarLimit int     `koanf:"default_similar_limit"`
	MaxSimilarLimit     int     `koanf:"max_similar_limit"`

	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`
	MaxLeaderboardLimit     int `koanf:"max_leaderboard_limit"`

	// LeaderboardMinMatches filters out players with fewer appearances.
	LeaderboardMinMatches int `koanf:"leaderboard_min_matches"`

	IngestBatchSize int `koanf:"ingest_batch_size"`
	IngestWorkers   int `koanf:"ingest_workers"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               FormatText,
		Addr:                    ":8080",
		Store:                   StoreMemory,
		DBMaxOpenConns:          10,
		DBMaxIdleConns:          5,
		DBConnMaxLifetimeSec:    300,
		SimilarityEnabled:       true,
		SimilarityThreshold:     0.7,
		DefaultSimilarLimit:     10,
		MaxSimilarLimit:         20,
		DefaultLeaderboardLimit: 50,
		MaxLeaderboardLimit:     100,
		LeaderboardMinMatches:   3,
		IngestBatchSize:         1000,
		IngestWorkers:           4,
	}
}
