package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/metrics"
)

const backendMemory = "memory"

// MemoryStore keeps records in a map. Reads return copies so callers never
// share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*player.Record
	nextID  int64
	closed  bool
}

// NewMemoryStore returns an empty store. Ids start at 1.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{records: make(map[int64]*player.Record), nextID: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe is deferred with a pointer to the named error result.
func observe(backend, op string, start time.Time, err *error) {
	metrics.RecordStoreQueryLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
	if *err != nil {
		metrics.RecordStoreError(backend, op)
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id int64) (rec *player.Record, err error) {
	defer observe(backendMemory, "get", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

// Find implements Store.
func (s *MemoryStore) Find(_ context.Context, q Query) ([]*player.Record, error) {
	start := time.Now()
	out, err := s.find(q, true)
	observe(backendMemory, "find", start, &err)
	return out, err
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, q Query) (int, error) {
	start := time.Now()
	q.OrderBy, q.Limit, q.Offset = nil, 0, 0
	out, err := s.find(q, false)
	observe(backendMemory, "count", start, &err)
	return len(out), err
}

func (s *MemoryStore) find(q Query, page bool) ([]*player.Record, error) {
	if err := checkOrder(q.OrderBy); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	search := strings.ToLower(q.Search)
	out := make([]*player.Record, 0)
	for _, r := range s.records {
		if matches(r, q, search) {
			c := *r
			out = append(out, &c)
		}
	}
	if !page {
		return out, nil
	}

	slices.SortFunc(out, compareBy(q.OrderBy))
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return out[:0], nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(r *player.Record, q Query, search string) bool {
	switch {
	case q.ExcludeID != 0 && r.ID == q.ExcludeID:
	case q.Position != "" && r.Position != q.Position:
	case q.Competition != "" && r.Competition != q.Competition:
	case q.Squad != "" && r.Squad != q.Squad:
	case q.Nation != "" && r.Nation != q.Nation:
	case search != "" && !searchHit(r, search):
	case q.AgeMin != nil && r.Age < *q.AgeMin:
	case q.AgeMax != nil && r.Age > *q.AgeMax:
	case r.Goals < q.GoalsMin:
	case r.Assists < q.AssistsMin:
	case r.MatchesPlayed < q.MinMatches:
	case r.Minutes < q.MinMinutes:
	default:
		return true
	}
	return false
}

func searchHit(r *player.Record, needle string) bool {
	for _, v := range []string{r.Name, r.Squad, r.Nation, r.Position} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func compareBy(terms []OrderTerm) func(a, b *player.Record) int {
	attrs := make([]player.Attribute, len(terms))
	for i, t := range terms {
		attrs[i], _ = player.Lookup(t.Field)
	}
	return func(a, b *player.Record) int {
		for i, attr := range attrs {
			c := attr.Value(a).Compare(attr.Value(b))
			if terms[i].Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// Distinct implements Store.
func (s *MemoryStore) Distinct(_ context.Context, field string) (vals []string, err error) {
	defer observe(backendMemory, "distinct", time.Now(), &err)
	if !distinctFields[field] {
		return nil, unknownField(field)
	}
	attr, _ := player.Lookup(field)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	seen := make(map[string]struct{})
	for _, r := range s.records {
		v := attr.Value(r).Text
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	slices.Sort(vals)
	return vals, nil
}

// Insert implements Store. The given records receive their new ids.
func (s *MemoryStore) Insert(_ context.Context, recs []*player.Record) (n int, err error) {
	defer observe(backendMemory, "insert", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	for _, r := range recs {
		r.ID = s.nextID
		s.nextID++
		c := *r
		s.records[c.ID] = &c
	}
	metrics.UpdateRecordsTotal(len(s.records))
	return len(recs), nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.records = make(map[int64]*player.Record)
	metrics.UpdateRecordsTotal(0)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
