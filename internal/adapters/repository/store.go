// Package repository stores player records and answers predicate queries
// over them.
package repository

import (
	"context"

	"github.com/okian/scout/internal/domain/player"
)

// OrderTerm orders query results by one stored attribute.
type OrderTerm struct {
	Field string
	Desc  bool
}

// Query selects records. Zero-valued predicates are ignored. Results are
// ordered by OrderBy and then by id ascending.
type Query struct {
	Position    string
	Competition string
	Squad       string
	Nation      string
	// Search is a case-insensitive substring of the name, squad, nation
	// or position.
	Search string

	AgeMin *float64
	AgeMax *float64

	GoalsMin   int
	AssistsMin int
	MinMatches int
	MinMinutes int

	// ExcludeID drops the record with this id when non-zero.
	ExcludeID int64

	OrderBy []OrderTerm
	Limit   int
	Offset  int
}

// Store provides read/write access to player records.
type Store interface {
	// Get returns the record with id or ErrNotFound.
	Get(ctx context.Context, id int64) (*player.Record, error)
	// Find returns records matching q.
	Find(ctx context.Context, q Query) ([]*player.Record, error)
	// Count returns how many records match q, ignoring Limit and Offset.
	Count(ctx context.Context, q Query) (int, error)
	// Distinct returns the sorted distinct non-empty values of a text field.
	Distinct(ctx context.Context, field string) ([]string, error)
	// Insert stores recs, assigning each a fresh id, and returns how many
	// were stored.
	Insert(ctx context.Context, recs []*player.Record) (int, error)
	// Clear removes every record.
	Clear(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}

// Float returns a pointer to v, for Query.AgeMin and Query.AgeMax.
func Float(v float64) *float64 { return &v }

// distinctFields are the text attributes Distinct accepts.
var distinctFields = map[string]bool{
	"position":    true,
	"competition": true,
	"squad":       true,
	"nation":      true,
}

func checkOrder(terms []OrderTerm) error {
	for _, t := range terms {
		if _, ok := player.Lookup(t.Field); !ok {
			return unknownField(t.Field)
		}
	}
	return nil
}
