// Package sorting maps sort keys to record attributes or derived metrics and
// orders record collections by them.
package sorting

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/metrics"
)

// Field is what a sort key resolves to.
type Field struct {
	Name    string
	Derived bool
}

// Registry holds the sort options. It is safe for concurrent use; lookups
// take a read lock and mutation is serialized.
type Registry struct {
	mu      sync.RWMutex
	options map[string]Option
	order   []string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithoutDefaults starts the registry empty.
func WithoutDefaults() RegistryOption {
	return func(r *Registry) {
		r.options = map[string]Option{}
		r.order = nil
	}
}

// WithOptions registers additional options after the defaults. Invalid
// entries are skipped; use Register to observe the error.
func WithOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		for _, o := range opts {
			_ = r.register(o)
		}
	}
}

// NewRegistry returns a registry seeded with DefaultOptions.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{options: map[string]Option{}}
	for _, o := range DefaultOptions() {
		_ = r.register(o)
	}
	for _, opt := range opts {
		opt(r)
	}
	metrics.UpdateSortOptions(r.Len())
	return r
}

// Len returns the number of registered options.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Options lists registered options in registration order, keeping only the
// given category unless it is empty.
func (r *Registry) Options(category string) []Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Option, 0, len(r.order))
	for _, k := range r.order {
		o := r.options[k]
		if category == "" || o.Category == category {
			out = append(out, o)
		}
	}
	return out
}

// Keys lists registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Categories lists the distinct categories, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, k := range r.order {
		c := r.options[k].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// IsValid reports whether key is registered.
func (r *Registry) IsValid(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.options[key]
	return ok
}

// Get returns the option registered under key.
func (r *Registry) Get(key string) (Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.options[key]
	if !ok {
		return Option{}, r.invalid(key)
	}
	return o, nil
}

// ResolveField returns the attribute or derived metric behind key.
func (r *Registry) ResolveField(key string) (Field, error) {
	o, err := r.Get(key)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: o.Field, Derived: player.IsDerived(o.Field)}, nil
}

// invalid must be called with the lock held.
func (r *Registry) invalid(key string) error {
	metrics.RecordInvalidSortOption()
	return &InvalidSortOptionError{Key: key, Valid: slices.Clone(r.order)}
}

// Register inserts or overwrites the option under key. An overwritten key
// keeps its original position.
func (r *Registry) Register(key, label, field, description, category string) error {
	if err := r.register(Option{Key: key, Label: label, Field: field, Description: description, Category: category}); err != nil {
		return err
	}
	metrics.UpdateSortOptions(r.Len())
	return nil
}

func validate(o Option) error {
	if o.Key == "" {
		return ErrEmptyKey
	}
	if _, ok := player.Lookup(o.Field); !ok && !player.IsDerived(o.Field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, o.Field)
	}
	return nil
}

func (r *Registry) register(o Option) error {
	if err := validate(o); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.options[o.Key]; !exists {
		r.order = append(r.order, o.Key)
	}
	r.options[o.Key] = o
	return nil
}

// Unregister removes key, reporting whether it was present.
func (r *Registry) Unregister(key string) bool {
	r.mu.Lock()
	if _, ok := r.options[key]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.options, key)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })
	n := len(r.order)
	r.mu.Unlock()
	metrics.UpdateSortOptions(n)
	return true
}

type keyed struct {
	rec *player.Record
	val player.Value
}

// Order returns a new slice holding records ordered by key. Ties are broken
// by id ascending regardless of direction. Unknown keys fail before records
// are read.
func (r *Registry) Order(records []*player.Record, key string, descending bool) ([]*player.Record, error) {
	field, err := r.ResolveField(key)
	if err != nil {
		return nil, err
	}

	read := valueOf(field)
	rows := make([]keyed, len(records))
	for i, rec := range records {
		rows[i] = keyed{rec: rec, val: read(rec)}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		c := a.val.Compare(b.val)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.rec.ID, b.rec.ID)
	})

	out := make([]*player.Record, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	metrics.RecordSortRequest(key, direction(descending))
	return out, nil
}

func valueOf(f Field) func(*player.Record) player.Value {
	if f.Derived {
		return func(rec *player.Record) player.Value {
			v, _ := rec.Derived(f.Name)
			return player.Value{Num: v}
		}
	}
	attr, _ := player.Lookup(f.Name)
	return attr.Value
}

func direction(descending bool) string {
	if descending {
		return "desc"
	}
	return "asc"
}
