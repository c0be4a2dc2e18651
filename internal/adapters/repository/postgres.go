package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/pkg/logger"
)

const backendPostgres = "postgres"

//go:embed schema.sql
var schema string

// PostgresStore keeps records in the players table.
type PostgresStore struct {
	db *sql.DB

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	pingTimeout     time.Duration
	migrate         bool
	logger          logger.Logger

	columns    []string
	attributes []player.Attribute
	selectList string
	insertSQL  string
}

// OpenPostgres connects to dsn, checks connectivity and, unless disabled,
// applies the schema.
func OpenPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	s, err := NewPostgresStore(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(ctx context.Context, db *sql.DB, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{
		db:              db,
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxLifetime: 30 * time.Minute,
		pingTimeout:     5 * time.Second,
		migrate:         true,
		attributes:      player.Attributes(),
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	s.columns = make([]string, len(s.attributes))
	placeholders := make([]string, len(s.attributes))
	for i, a := range s.attributes {
		s.columns[i] = pq.QuoteIdentifier(a.Name)
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	s.selectList = "id, " + strings.Join(s.columns, ", ")
	s.insertSQL = fmt.Sprintf("INSERT INTO players (%s) VALUES (%s) RETURNING id",
		strings.Join(s.columns, ", "), strings.Join(placeholders, ", "))

	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if s.migrate {
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Migrate creates the players table and its indexes if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storeErr("migrate", err)
	}
	return nil
}

// InTx runs fn inside a transaction, rolling back when it fails.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) scan(row interface{ Scan(...any) error }) (*player.Record, error) {
	r := &player.Record{}
	dest := make([]any, 0, len(s.attributes)+1)
	dest = append(dest, &r.ID)
	for _, a := range s.attributes {
		dest = append(dest, a.Field(r))
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return r, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id int64) (rec *player.Record, err error) {
	defer observe(backendPostgres, "get", time.Now(), &err)
	row := s.db.QueryRowContext(ctx, "SELECT "+s.selectList+" FROM players WHERE id = $1", id)
	rec, err = s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get", err)
	}
	return rec, nil
}

type where struct {
	clauses []string
	args    []any
}

// add appends one predicate; every ? in expr refers to arg.
func (w *where) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func buildWhere(q Query) *where {
	w := &where{}
	if q.ExcludeID != 0 {
		w.add("id <> ?", q.ExcludeID)
	}
	if q.Position != "" {
		w.add("position = ?", q.Position)
	}
	if q.Competition != "" {
		w.add("competition = ?", q.Competition)
	}
	if q.Squad != "" {
		w.add("squad = ?", q.Squad)
	}
	if q.Nation != "" {
		w.add("nation = ?", q.Nation)
	}
	if q.Search != "" {
		w.add("(strpos(lower(name), lower(?)) > 0 OR strpos(lower(squad), lower(?)) > 0 OR "+
			"strpos(lower(nation), lower(?)) > 0 OR strpos(lower(position), lower(?)) > 0)", q.Search)
	}
	if q.AgeMin != nil {
		w.add("age >= ?", *q.AgeMin)
	}
	if q.AgeMax != nil {
		w.add("age <= ?", *q.AgeMax)
	}
	if q.GoalsMin > 0 {
		w.add("goals >= ?", q.GoalsMin)
	}
	if q.AssistsMin > 0 {
		w.add("assists >= ?", q.AssistsMin)
	}
	if q.MinMatches > 0 {
		w.add("matches_played >= ?", q.MinMatches)
	}
	if q.MinMinutes > 0 {
		w.add("minutes >= ?", q.MinMinutes)
	}
	return w
}

// orderClause renders terms against whitelisted columns. NULLs sort as the
// lowest value in both directions.
func orderClause(terms []OrderTerm) (string, error) {
	parts := make([]string, 0, len(terms)+1)
	for _, t := range terms {
		a, ok := player.Lookup(t.Field)
		if !ok {
			return "", unknownField(t.Field)
		}
		col := pq.QuoteIdentifier(a.Name)
		if a.Kind == player.KindText {
			// Byte order, as strings.Compare does in memory.
			col += ` COLLATE "C"`
		}
		if t.Desc {
			parts = append(parts, col+" DESC NULLS LAST")
		} else {
			parts = append(parts, col+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// Find implements Store.
func (s *PostgresStore) Find(ctx context.Context, q Query) (out []*player.Record, err error) {
	defer observe(backendPostgres, "find", time.Now(), &err)
	order, err := orderClause(q.OrderBy)
	if err != nil {
		return nil, err
	}
	w := buildWhere(q)
	stmt := "SELECT " + s.selectList + " FROM players" + w.String() + order
	if q.Limit > 0 {
		stmt += " LIMIT " + strconv.Itoa(q.Limit)
	}
	if q.Offset > 0 {
		stmt += " OFFSET " + strconv.Itoa(q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, stmt, w.args...)
	if err != nil {
		return nil, storeErr("find", err)
	}
	defer rows.Close()
	out = make([]*player.Record, 0)
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, storeErr("find", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find", err)
	}
	return out, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, q Query) (n int, err error) {
	defer observe(backendPostgres, "count", time.Now(), &err)
	w := buildWhere(q)
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM players"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

// Distinct implements Store.
func (s *PostgresStore) Distinct(ctx context.Context, field string) (vals []string, err error) {
	defer observe(backendPostgres, "distinct", time.Now(), &err)
	if !distinctFields[field] {
		return nil, unknownField(field)
	}
	col := pq.QuoteIdentifier(field)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT %[1]s FROM players WHERE %[1]s <> '' ORDER BY %[1]s", col))
	if err != nil {
		return nil, storeErr("distinct", err)
	}
	defer rows.Close()
	vals = make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, storeErr("distinct", err)
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("distinct", err)
	}
	return vals, nil
}

// Insert implements Store. Either every record is stored or none is.
func (s *PostgresStore) Insert(ctx context.Context, recs []*player.Record) (n int, err error) {
	defer observe(backendPostgres, "insert", time.Now(), &err)
	if len(recs) == 0 {
		return 0, nil
	}
	ids := make([]int64, len(recs))
	err = s.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.insertSQL)
		if err != nil {
			return err
		}
		defer stmt.Close()
		args := make([]any, len(s.attributes))
		for i, r := range recs {
			for j, a := range s.attributes {
				args[j] = a.Raw(r)
			}
			if err := stmt.QueryRowContext(ctx, args...).Scan(&ids[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			s.logger.Error(ctx, "insert rejected by postgres",
				logger.String("code", string(pqErr.Code)),
				logger.String("detail", pqErr.Detail),
				logger.String("column", pqErr.Column))
		}
		return 0, storeErr("insert", err)
	}
	for i, r := range recs {
		r.ID = ids[i]
	}
	return len(recs), nil
}

// Clear implements Store.
func (s *PostgresStore) Clear(ctx context.Context) (err error) {
	defer observe(backendPostgres, "clear", time.Now(), &err)
	if _, err := s.db.ExecContext(ctx, "TRUNCATE players RESTART IDENTITY"); err != nil {
		return storeErr("clear", err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
