package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Defaults for Loader.
const (
	DefaultBatchSize = 1000
	DefaultWorkers   = 4
)

// Summary reports the outcome of a load.
type Summary struct {
	Rows    int           `json:"rows"`
	Created int           `json:"created"`
	Errors  int           `json:"errors"`
	Took    time.Duration `json:"took"`
}

// Loader parses CSV input and inserts it into a store in batches.
type Loader struct {
	store     repository.Store
	batchSize int
	workers   int
	clear     bool
	logger    logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithBatchSize sets how many records each insert carries.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithWorkers sets how many batches are inserted concurrently.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithClear empties the store before loading.
func WithClear(clear bool) Option {
	return func(l *Loader) {
		l.clear = clear
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader creates a loader writing to store.
func NewLoader(store repository.Store, opts ...Option) *Loader {
	l := &Loader{
		store:     store,
		batchSize: DefaultBatchSize,
		workers:   DefaultWorkers,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads the CSV file at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f)
}

// Load parses src and inserts its records. A failed batch is counted in
// Summary.Errors and does not stop the others; only context cancellation
// aborts the load.
func (l *Loader) Load(ctx context.Context, src io.Reader) (Summary, error) {
	start := time.Now()
	recs, rowErrs, err := ParseCSV(src)
	if err != nil {
		return Summary{}, err
	}
	for _, re := range rowErrs {
		l.logger.Warn(ctx, "skipping malformed csv row", logger.Int("line", re.Line), logger.Error(re.Err))
	}

	if l.clear {
		l.logger.Info(ctx, "clearing existing player data")
		if err := l.store.Clear(ctx); err != nil {
			return Summary{}, fmt.Errorf("clear store: %w", err)
		}
	}

	var created, failed atomic.Int64
	failed.Add(int64(len(rowErrs)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for from := 0; from < len(recs); from += l.batchSize {
		to := min(from+l.batchSize, len(recs))
		batch := recs[from:to]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := l.store.Insert(gctx, batch)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.logger.Error(gctx, "batch insert failed",
					logger.Int("from", from+1), logger.Int("to", to), logger.Error(err))
				failed.Add(int64(len(batch)))
				return nil
			}
			created.Add(int64(n))
			l.logger.Debug(gctx, "batch stored", logger.Int("from", from+1), logger.Int("to", to))
			return nil
		})
	}
	err = g.Wait()

	sum := Summary{
		Rows:    len(recs) + len(rowErrs),
		Created: int(created.Load()),
		Errors:  int(failed.Load()),
		Took:    time.Since(start),
	}
	metrics.RecordIngestedRows(sum.Created)
	metrics.RecordIngestRowErrors(sum.Errors)
	if err != nil {
		return sum, fmt.Errorf("load players: %w", err)
	}
	l.logger.Info(ctx, "players loaded",
		logger.Int("created", sum.Created),
		logger.Int("errors", sum.Errors),
		logger.Duration("took", sum.Took))
	return sum, nil
}
