// Package service composes the record store, the sort registry and the
// similarity engine into the operations served by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/internal/domain/sorting"
	"github.com/okian/scout/internal/ingest"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Defaults for paging and ranking.
const (
	DefaultPageSize       = 50
	MaxPageSize           = 100
	DefaultLeaderboardKey = "goals"
	DefaultMinMatches     = 3
	RegularMinMatches     = 5
	RegularMinMinutes     = 450
)

// defaultOrder is used when a listing names no sort key.
var defaultOrder = []repository.OrderTerm{
	{Field: "goals", Desc: true},
	{Field: "assists", Desc: true},
}

// Service implements the API dependencies for player discovery.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	registry *sorting.Registry
	engine   *similarity.Engine

	similarityEnabled   bool
	similarityThreshold float64
	minMatches          int
	seedCSV             string
	ingestOpts          []ingest.Option

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithStore sets the record store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry sets the sort registry.
func WithRegistry(r *sorting.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithSimilarityThreshold sets the minimum score of the statistical and NLP
// strategies.
func WithSimilarityThreshold(t float64) Option {
	return func(s *Service) {
		s.similarityThreshold = t
	}
}

// WithSimilarityEnabled switches similarity queries on or off.
func WithSimilarityEnabled(enabled bool) Option {
	return func(s *Service) {
		s.similarityEnabled = enabled
	}
}

// WithLeaderboardMinMatches sets how many appearances a player needs to
// appear on a leaderboard.
func WithLeaderboardMinMatches(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minMatches = n
		}
	}
}

// WithSeedCSV loads the CSV file at path into the store on Start.
func WithSeedCSV(path string) Option {
	return func(s *Service) {
		s.seedCSV = path
	}
}

// WithIngestOptions configures the loader used for the seed file.
func WithIngestOptions(opts ...ingest.Option) Option {
	return func(s *Service) {
		s.ingestOpts = append(s.ingestOpts, opts...)
	}
}

// New constructs a Service. Without WithStore it keeps records in memory.
func New(opts ...Option) *Service {
	s := &Service{
		similarityEnabled:   true,
		similarityThreshold: similarity.DefaultThreshold,
		minMatches:          DefaultMinMatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = sorting.NewRegistry()
	}
	s.engine = similarity.NewEngine(s.store,
		similarity.WithEnabled(s.similarityEnabled),
		similarity.WithThreshold(s.similarityThreshold),
		similarity.WithLogger(s.logger.Named("similarity")),
	)
	return s
}

// Start loads the seed file, if any.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting scout service...")

	if s.seedCSV != "" {
		opts := append([]ingest.Option{ingest.WithLogger(s.logger.Named("ingest"))}, s.ingestOpts...)
		sum, err := ingest.NewLoader(s.store, opts...).LoadFile(ctx, s.seedCSV)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSeed, s.seedCSV, err)
		}
		s.logger.Info(ctx, "seed data loaded",
			logger.String("file", s.seedCSV),
			logger.Int("created", sum.Created),
			logger.Int("errors", sum.Errors),
		)
	}

	s.started = true
	s.logger.Info(ctx, "scout service started",
		logger.Int("sortOptions", s.registry.Len()),
		logger.Bool("similarityEnabled", s.engine.Enabled()),
		logger.Float64("similarityThreshold", s.engine.Threshold()),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping scout service...")
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "scout service stopped")
}

// Filter narrows a listing. Zero values are ignored.
type Filter struct {
	Position    string
	Competition string
	Squad       string
	Nation      string
	AgeMin      *float64
	AgeMax      *float64
	GoalsMin    int
	AssistsMin  int
	MinMatches  int
	MinMinutes  int
	// RegularPlayers keeps players with at least RegularMinMatches
	// appearances and RegularMinMinutes minutes.
	RegularPlayers bool
}

func (f Filter) query() repository.Query {
	q := repository.Query{
		Position:    f.Position,
		Competition: f.Competition,
		Squad:       f.Squad,
		Nation:      f.Nation,
		AgeMin:      f.AgeMin,
		AgeMax:      f.AgeMax,
		GoalsMin:    f.GoalsMin,
		AssistsMin:  f.AssistsMin,
		MinMatches:  f.MinMatches,
		MinMinutes:  f.MinMinutes,
	}
	if f.RegularPlayers {
		q.MinMatches = max(q.MinMatches, RegularMinMatches)
		q.MinMinutes = max(q.MinMinutes, RegularMinMinutes)
	}
	return q
}

// ListRequest describes one page of a player listing.
type ListRequest struct {
	Filter Filter
	// Search is a case-insensitive substring of name, squad, nation or
	// position.
	Search string
	// SortBy is a registered sort key; empty means goals then assists,
	// both descending.
	SortBy    string
	Ascending bool
	Page      int
	PageSize  int
}

// ListPlayers returns one page of players matching req. An unknown SortBy
// fails before the store is queried.
func (s *Service) ListPlayers(ctx context.Context, req ListRequest) (PlayerPage, error) {
	page, size := req.Page, req.PageSize
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return PlayerPage{}, ErrInvalidPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	q := req.Filter.query()
	q.Search = req.Search

	var (
		recs []*player.Record
		err  error
	)
	if req.SortBy == "" {
		q.OrderBy = defaultOrder
		q.Limit, q.Offset = size, (page-1)*size
		recs, err = s.store.Find(ctx, q)
	} else {
		recs, err = s.ordered(ctx, q, req.SortBy, !req.Ascending, (page-1)*size, size)
	}
	if err != nil {
		return PlayerPage{}, err
	}
	q.OrderBy, q.Limit, q.Offset = nil, 0, 0
	count, err := s.store.Count(ctx, q)
	if err != nil {
		return PlayerPage{}, err
	}
	return PlayerPage{Count: count, Page: page, PageSize: size, Results: viewsOf(recs)}, nil
}

// ordered returns records matching q ranked by a registered sort key.
// Stored attributes are ordered by the store; derived metrics are ordered
// by the registry over the whole matching set.
func (s *Service) ordered(ctx context.Context, q repository.Query, key string, desc bool, offset, limit int) ([]*player.Record, error) {
	field, err := s.registry.ResolveField(key)
	if err != nil {
		return nil, err
	}
	if !field.Derived {
		q.OrderBy = []repository.OrderTerm{{Field: field.Name, Desc: desc}}
		q.Limit, q.Offset = limit, offset
		recs, err := s.store.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		metrics.RecordSortRequest(key, direction(desc))
		return recs, nil
	}

	all, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	sorted, err := s.registry.Order(all, key, desc)
	if err != nil {
		return nil, err
	}
	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func direction(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}

// Player returns one player with derived metrics and style description.
func (s *Service) Player(ctx context.Context, id int64) (PlayerDetail, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return PlayerDetail{}, err
	}
	return PlayerDetail{PlayerView: viewOf(r), StyleDescription: player.StyleDescription(r)}, nil
}

// Search lists players whose name, squad, nation or position contains q,
// in the default order.
func (s *Service) Search(ctx context.Context, q string, f Filter, page, pageSize int) (PlayerPage, error) {
	return s.ListPlayers(ctx, ListRequest{Filter: f, Search: q, Page: page, PageSize: pageSize})
}

// Leaderboard ranks players with enough appearances by stat, best first.
// An empty stat means DefaultLeaderboardKey.
func (s *Service) Leaderboard(ctx context.Context, stat string, limit int, f Filter) (Leaderboard, error) {
	if stat == "" {
		stat = DefaultLeaderboardKey
	}
	if limit <= 0 {
		return Leaderboard{}, ErrInvalidLimit
	}
	info, err := s.registry.Get(stat)
	if err != nil {
		return Leaderboard{}, err
	}
	q := f.query()
	q.MinMatches = max(q.MinMatches, s.minMatches)

	recs, err := s.ordered(ctx, q, stat, true, 0, limit)
	if err != nil {
		return Leaderboard{}, err
	}
	rows := make([]Standing, len(recs))
	for i, r := range recs {
		rows[i] = Standing{PlayerView: viewOf(r), Standing: i + 1}
	}
	return Leaderboard{Stat: stat, StatInfo: info, Players: rows, TotalCount: len(rows)}, nil
}

// Similar finds up to limit players resembling the player with id.
func (s *Service) Similar(ctx context.Context, id int64, limit int, strategy similarity.Strategy) (SimilarResult, error) {
	target, err := s.store.Get(ctx, id)
	if err != nil {
		return SimilarResult{}, err
	}
	matches, err := s.engine.FindSimilar(ctx, target, limit, strategy)
	if err != nil {
		return SimilarResult{}, err
	}
	out := make([]SimilarPlayer, len(matches))
	for i, m := range matches {
		out[i] = SimilarPlayer{PlayerView: viewOf(m.Player), Score: m.Score}
	}
	return SimilarResult{
		Player:         viewOf(target),
		SimilarPlayers: out,
		Method:         strategy,
		Limit:          limit,
		TotalFound:     len(out),
	}, nil
}

// SortOptions describes the registered sort options, restricted to
// category unless it is empty.
func (s *Service) SortOptions(category string) SortCatalog {
	opts := s.registry.Options(category)
	cat := SortCatalog{
		Categories:          make(map[string][]OptionSummary),
		AllOptions:          make(map[string]sorting.Option, len(opts)),
		AvailableCategories: s.registry.Categories(),
	}
	for _, o := range opts {
		cat.AllOptions[o.Key] = o
		cat.Categories[o.Category] = append(cat.Categories[o.Category], OptionSummary{
			Key:         o.Key,
			DisplayName: o.Label,
			Description: o.Description,
		})
	}
	return cat
}

// Categories maps every category to its options keyed by sort key.
func (s *Service) Categories() map[string]map[string]sorting.Option {
	out := make(map[string]map[string]sorting.Option)
	for _, c := range s.registry.Categories() {
		byKey := make(map[string]sorting.Option)
		for _, o := range s.registry.Options(c) {
			byKey[o.Key] = o
		}
		out[c] = byKey
	}
	return out
}

// RegisterSortOption adds or replaces a sort option.
func (s *Service) RegisterSortOption(ctx context.Context, o sorting.Option) error {
	if err := s.registry.Register(o.Key, o.Label, o.Field, o.Description, o.Category); err != nil {
		return err
	}
	s.logger.Info(ctx, "sort option registered",
		logger.String("key", o.Key),
		logger.String("field", o.Field),
		logger.String("category", o.Category),
	)
	return nil
}

// UnregisterSortOption removes a sort option.
func (s *Service) UnregisterSortOption(ctx context.Context, key string) error {
	if !s.registry.Unregister(key) {
		return fmt.Errorf("%w: %s", ErrSortOptionNotFound, key)
	}
	s.logger.Info(ctx, "sort option removed", logger.String("key", key))
	return nil
}

// Distinct lists the distinct values of position, competition, squad or
// nation.
func (s *Service) Distinct(ctx context.Context, field string) ([]string, error) {
	return s.store.Distinct(ctx, field)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":               s.started,
		"sortOptions":           s.registry.Len(),
		"similarityEnabled":     s.engine.Enabled(),
		"similarityThreshold":   s.engine.Threshold(),
		"leaderboardMinMatches": s.minMatches,
	}
	if s.started {
		n, err := s.store.Count(ctx, repository.Query{})
		if err != nil {
			s.logger.Warn(ctx, "failed to count players", logger.Error(err))
		} else {
			stats["totalPlayers"] = n
			metrics.UpdateRecordsTotal(n)
		}
	}
	return stats
}
