// Package similarity ranks players by how closely they resemble a target
// player.
//
// Three strategies are available. Statistical compares feature vectors with
// cosine similarity inside the target's position and competition. NLP
// compares generated style descriptions by word overlap inside the target's
// position. Hybrid fuses both. When a strategy fails computationally the
// engine answers with a heuristic fallback ranking instead.
package similarity

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Fusion weights of the hybrid strategy.
const (
	StatisticalWeight = 0.6
	NLPWeight         = 0.4
)

// Fallback parameters.
const (
	FallbackAgeBand = 3.0
	FallbackScore   = 0.5
)

// DefaultThreshold is the minimum score kept by the statistical and NLP
// strategies.
const DefaultThreshold = 0.7

// Source fetches candidate records.
type Source interface {
	Find(ctx context.Context, q repository.Query) ([]*player.Record, error)
}

// Match is a candidate with its similarity score.
type Match struct {
	Player *player.Record `json:"player"`
	Score  float64        `json:"similarity_score"`
}

// Engine finds similar players. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	src       Source
	enabled   bool
	threshold float64
	log       logger.Logger
}

// NewEngine returns an enabled engine with DefaultThreshold.
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:       src,
		enabled:   true,
		threshold: DefaultThreshold,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured score threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// Enabled reports whether the engine serves requests.
func (e *Engine) Enabled() bool { return e.enabled }

// FindSimilar returns at most limit players resembling target, best first.
// Ties are broken by id ascending and the target never appears in the
// result.
func (e *Engine) FindSimilar(ctx context.Context, target *player.Record, limit int, strategy Strategy) ([]Match, error) {
	if target == nil {
		return nil, ErrInvalidTarget
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if !e.enabled {
		return nil, ErrDisabled
	}

	start := time.Now()
	var (
		out []Match
		err error
	)
	switch strategy {
	case Statistical:
		out, err = e.guard(func() ([]Match, error) { return e.statistical(ctx, target, limit) })
	case NLP:
		out, err = e.guard(func() ([]Match, error) { return e.nlp(ctx, target, limit) })
	case Hybrid:
		out, err = e.guard(func() ([]Match, error) { return e.hybrid(ctx, target, limit) })
	default:
		return nil, &InvalidStrategyError{Value: strategy.String(), Valid: strategyNames()}
	}

	outcome := "ok"
	if errors.Is(err, ErrStrategyFailure) {
		metrics.RecordStrategyFailure(strategy.String())
		e.log.Warn(ctx, "similarity strategy failed, using fallback",
			logger.String("strategy", strategy.String()),
			logger.Int64("player_id", target.ID),
			logger.Error(err))
		out, err = e.fallback(ctx, target, limit)
		outcome = "fallback"
		if err != nil {
			metrics.RecordFallback(strategy.String(), "error")
		} else {
			metrics.RecordFallback(strategy.String(), "ok")
		}
	}
	if err != nil {
		metrics.RecordSimilarityRequest(strategy.String(), "error")
		return nil, err
	}

	out = slices.DeleteFunc(out, func(m Match) bool { return m.Player.ID == target.ID })
	metrics.RecordSimilarityRequest(strategy.String(), outcome)
	metrics.RecordSimilarityLatency(strategy.String(), float64(time.Since(start).Microseconds())/1000)
	return out, nil
}

// guard converts a panic inside fn into ErrStrategyFailure.
func (e *Engine) guard(fn func() ([]Match, error)) (out []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, failure("panic: %v", r)
		}
	}()
	return fn()
}

func (e *Engine) candidates(ctx context.Context, q repository.Query) ([]*player.Record, error) {
	pool, err := e.src.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch candidates: %w", ErrStrategyFailure, err)
	}
	return pool, nil
}

// score keeps candidates scoring at least the threshold.
func (e *Engine) score(name string, target *player.Record, pool []*player.Record, fn func(*player.Record) float64) ([]Match, error) {
	metrics.RecordCandidatePoolSize(name, len(pool))
	out := make([]Match, 0, len(pool))
	for _, c := range pool {
		if c == nil || c.ID == target.ID {
			continue
		}
		s := fn(c)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, failure("%s score for player %d is not finite", name, c.ID)
		}
		if s >= e.threshold {
			out = append(out, Match{Player: c, Score: s})
		}
	}
	return out, nil
}

func (e *Engine) statistical(ctx context.Context, target *player.Record, limit int) ([]Match, error) {
	pool, err := e.candidates(ctx, repository.Query{
		Position:    target.Position,
		Competition: target.Competition,
		ExcludeID:   target.ID,
	})
	if err != nil {
		return nil, err
	}
	tv := player.FeatureVector(target)
	out, err := e.score(Statistical.String(), target, pool, func(c *player.Record) float64 {
		cv := player.FeatureVector(c)
		return Cosine(tv[:], cv[:])
	})
	if err != nil {
		return nil, err
	}
	return rank(out, limit), nil
}

func (e *Engine) nlp(ctx context.Context, target *player.Record, limit int) ([]Match, error) {
	pool, err := e.candidates(ctx, repository.Query{
		Position:  target.Position,
		ExcludeID: target.ID,
	})
	if err != nil {
		return nil, err
	}
	tt := Tokens(player.StyleDescription(target))
	out, err := e.score(NLP.String(), target, pool, func(c *player.Record) float64 {
		return Jaccard(tt, Tokens(player.StyleDescription(c)))
	})
	if err != nil {
		return nil, err
	}
	return rank(out, limit), nil
}

func (e *Engine) hybrid(ctx context.Context, target *player.Record, limit int) ([]Match, error) {
	wide := limit * 2
	if wide < limit {
		wide = limit
	}
	stat, err := e.statistical(ctx, target, wide)
	if err != nil {
		return nil, err
	}
	text, err := e.nlp(ctx, target, wide)
	if err != nil {
		return nil, err
	}
	return rank(fuse(stat, text), limit), nil
}

// fuse unions both lists by id. A candidate missing from one list scores 0
// on that side. Fused scores are not thresholded.
func fuse(stat, text []Match) []Match {
	type pair struct {
		p         *player.Record
		stat, nlp float64
	}
	byID := make(map[int64]*pair, len(stat)+len(text))
	order := make([]int64, 0, len(stat)+len(text))
	for _, m := range stat {
		byID[m.Player.ID] = &pair{p: m.Player, stat: m.Score}
		order = append(order, m.Player.ID)
	}
	for _, m := range text {
		if p, ok := byID[m.Player.ID]; ok {
			p.nlp = m.Score
			continue
		}
		byID[m.Player.ID] = &pair{p: m.Player, nlp: m.Score}
		order = append(order, m.Player.ID)
	}
	out := make([]Match, 0, len(order))
	for _, id := range order {
		p := byID[id]
		out = append(out, Match{Player: p.p, Score: StatisticalWeight*p.stat + NLPWeight*p.nlp})
	}
	return out
}

// rank sorts by score descending then id ascending, and truncates.
func rank(ms []Match, limit int) []Match {
	slices.SortFunc(ms, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})
	if len(ms) > limit {
		ms = ms[:limit]
	}
	return ms
}

// fallback ranks the target's position, competition and age band by goals
// then assists. Every match scores FallbackScore.
func (e *Engine) fallback(ctx context.Context, target *player.Record, limit int) ([]Match, error) {
	pool, err := e.src.Find(ctx, repository.Query{
		Position:    target.Position,
		Competition: target.Competition,
		AgeMin:      repository.Float(target.Age - FallbackAgeBand),
		AgeMax:      repository.Float(target.Age + FallbackAgeBand),
		ExcludeID:   target.ID,
		OrderBy: []repository.OrderTerm{
			{Field: "goals", Desc: true},
			{Field: "assists", Desc: true},
		},
		Limit: limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFallbackFailed, err)
	}
	out := make([]Match, 0, min(len(pool), limit))
	for _, c := range pool {
		if c == nil || c.ID == target.ID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, Match{Player: c, Score: FallbackScore})
	}
	return out, nil
}
