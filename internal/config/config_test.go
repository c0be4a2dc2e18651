package config_test

import (
	"errors"
	"testing"

	"github.com/okian/scout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.SimilarityEnabled, convey.ShouldBeTrue)
			convey.So(cfg.SimilarityThreshold, convey.ShouldEqual, 0.7)
			convey.So(cfg.DefaultSimilarLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxSimilarLimit, convey.ShouldEqual, 20)
			convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 50)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.LeaderboardMinMatches, convey.ShouldEqual, 3)
			convey.So(cfg.IngestBatchSize, convey.ShouldEqual, 1000)
			convey.So(cfg.IngestWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.AdminEnabled, convey.ShouldBeFalse)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad setting", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":            func(c *config.Config) { c.Addr = "" },
			"unknown store":         func(c *config.Config) { c.Store = "sqlite" },
			"postgres without dsn":  func(c *config.Config) { c.Store = config.StorePostgres },
			"unknown log format":    func(c *config.Config) { c.LogFormat = "xml" },
			"threshold above one":   func(c *config.Config) { c.SimilarityThreshold = 1.2 },
			"threshold below zero":  func(c *config.Config) { c.SimilarityThreshold = -0.1 },
			"similar default > max": func(c *config.Config) { c.DefaultSimilarLimit = 30 },
			"zero leaderboard":      func(c *config.Config) { c.DefaultLeaderboardLimit = 0 },
			"negative min matches":  func(c *config.Config) { c.LeaderboardMinMatches = -1 },
			"zero ingest workers":   func(c *config.Config) { c.IngestWorkers = 0 },
		}

		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then postgres with a dsn is accepted", func() {
			cfg := config.New()
			cfg.Store = config.StorePostgres
			cfg.DatabaseURL = "postgres://localhost/scout"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
