package repository

import (
	"time"

	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/logger"
)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithRecords seeds the store. Records are assigned ids in order.
func WithRecords(recs ...*player.Record) MemoryOption {
	return func(s *MemoryStore) {
		for _, r := range recs {
			r.ID = s.nextID
			s.nextID++
			c := *r
			s.records[c.ID] = &c
		}
	}
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithMaxOpenConns caps open connections to the database.
func WithMaxOpenConns(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns caps idle connections kept in the pool.
func WithMaxIdleConns(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n >= 0 {
			s.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime sets how long a connection may be reused.
func WithConnMaxLifetime(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

// WithPingTimeout bounds the connectivity check performed on open.
func WithPingTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.pingTimeout = d
		}
	}
}

// WithMigrate applies the embedded schema on open.
func WithMigrate(enabled bool) PostgresOption {
	return func(s *PostgresStore) {
		s.migrate = enabled
	}
}

// WithLogger sets the logger used for rejected writes.
func WithLogger(lg logger.Logger) PostgresOption {
	return func(s *PostgresStore) {
		if lg != nil {
			s.logger = lg
		}
	}
}
