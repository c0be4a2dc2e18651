package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/internal/ingest"
	"github.com/okian/scout/pkg/logger"
)

var errMissingCSV = errors.New("-csv is required")

type options struct {
	csv       string
	clear     bool
	batchSize int
	workers   int
	store     string
	dsn       string
}

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "load config", logger.Error(err))
		os.Exit(1)
	}

	opts, err := parseFlags(flag.CommandLine, os.Args[1:], cfg)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Get().Error(ctx, "invalid arguments", logger.Error(err))
		os.Exit(2)
	}

	sum, err := run(ctx, opts)
	if err != nil {
		logger.Get().Error(ctx, "load failed", logger.Error(err))
		os.Exit(1)
	}
	fmt.Printf("loaded %d players (%d errors) in %s\n", sum.Created, sum.Errors, sum.Took.Round(time.Millisecond))
}

// parseFlags reads command line flags, falling back to cfg for anything unset.
func parseFlags(fs *flag.FlagSet, args []string, cfg *config.Config) (options, error) {
	var o options
	fs.StringVar(&o.csv, "csv", cfg.SeedCSV, "Path to the FBref player stats CSV")
	fs.BoolVar(&o.clear, "clear", false, "Delete existing players before loading")
	fs.IntVar(&o.batchSize, "batch-size", cfg.IngestBatchSize, "Records per insert batch")
	fs.IntVar(&o.workers, "workers", cfg.IngestWorkers, "Concurrent insert batches")
	fs.StringVar(&o.store, "store", cfg.Store, "Target store: memory or postgres")
	fs.StringVar(&o.dsn, "dsn", cfg.DatabaseURL, "Postgres connection string")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch {
	case o.csv == "":
		return o, errMissingCSV
	case o.store != config.StoreMemory && o.store != config.StorePostgres:
		return o, fmt.Errorf("unknown store %q", o.store)
	case o.store == config.StorePostgres && o.dsn == "":
		return o, errors.New("-dsn is required for the postgres store")
	}
	return o, nil
}

func run(ctx context.Context, o options) (ingest.Summary, error) {
	store, err := openStore(ctx, o)
	if err != nil {
		return ingest.Summary{}, err
	}
	defer store.Close()

	l := ingest.NewLoader(store,
		ingest.WithBatchSize(o.batchSize),
		ingest.WithWorkers(o.workers),
		ingest.WithClear(o.clear),
		ingest.WithLogger(logger.Named("ingest")),
	)
	return l.LoadFile(ctx, o.csv)
}

func openStore(ctx context.Context, o options) (repository.Store, error) {
	if o.store == config.StorePostgres {
		return repository.OpenPostgres(ctx, o.dsn, repository.WithMigrate(true))
	}
	// A memory load only validates the file.
	return repository.NewMemoryStore(), nil
}
