// Package sqldb implements storage.Repository on top of database/sql (through
// sqlx) for the backends that share that driver model: SQLite, MySQL and SQL
// Server. Each backend package supplies a Dialect with its identifier quoting,
// type mapping and, optionally, a bulk insert path.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"luxhousing/internal/ddl"
	"luxhousing/internal/logging"
	"luxhousing/internal/storage"
	"luxhousing/internal/table"
)

// DefaultBatchRows caps the rows per INSERT or bulk batch.
const DefaultBatchRows = 1000

// BulkFn writes rows into table inside tx using a backend-native bulk API.
type BulkFn func(ctx context.Context, tx *sqlx.Tx, table string, columns []string, rows [][]any) (int64, error)

// Dialect describes one database/sql backend.
type Dialect struct {
	// Kind is the storage kind, e.g. "sqlite".
	Kind string

	// Driver is the database/sql driver name, e.g. "sqlite" or "sqlserver".
	Driver string

	Quote   ddl.QuoteFunc
	MapType ddl.TypeMapper

	// MaxParams is the bind parameter limit per statement. Zero means no
	// limit beyond DefaultBatchRows.
	MaxParams int

	// Bulk replaces multi-row INSERT when set.
	Bulk BulkFn
}

// Repository is a database/sql backed storage.Repository.
type Repository struct {
	db  *sqlx.DB
	d   Dialect
	log *zap.Logger
}

// Open connects with d.Driver and pings the server. The returned function
// closes the pool.
func Open(ctx context.Context, d Dialect, dsn string, log *zap.Logger) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("%s: DSN must not be empty", d.Kind)
	}
	db, err := sqlx.Open(d.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: open: %w", d.Kind, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%s: ping: %w", d.Kind, err)
	}
	return New(db, d, log), func() { _ = db.Close() }, nil
}

// New wraps an open handle.
func New(db *sqlx.DB, d Dialect, log *zap.Logger) *Repository {
	return &Repository{db: db, d: d, log: logging.OrNop(log).Named(d.Kind)}
}

// Dialect implements storage.Repository.
func (r *Repository) Dialect() string { return r.d.Kind }

// ReplaceTable implements storage.Repository. Drop, create and load run in a
// single transaction. On MySQL the DDL statements commit implicitly, so a
// failed load there leaves an empty or partial table behind.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t *table.Table) (int64, error) {
	def, err := ddl.Infer(name, t, r.d.MapType)
	if err != nil {
		return 0, err
	}
	create, err := ddl.BuildCreateTableSQL(def, r.d.Quote)
	if err != nil {
		return 0, err
	}
	cols := def.Names()
	rows := ddl.Rows(def, t)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", r.d.Kind, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, ddl.BuildDropTableSQL(def.FQN, r.d.Quote)); err != nil {
		return 0, fmt.Errorf("%s: drop %s: %w", r.d.Kind, def.FQN, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("%s: create %s: %w", r.d.Kind, def.FQN, err)
	}

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		if r.d.Bulk != nil {
			return r.d.Bulk(ctx, tx, ddl.QuoteFQN(def.FQN, r.d.Quote), columns, batch)
		}
		return r.insert(ctx, tx, def.FQN, columns, batch)
	}
	n, err := storage.LoadBatches(ctx, cols, rows, r.batchRows(len(cols)), copyFn, r.log)
	if err != nil {
		return n, fmt.Errorf("%s: load %s: %w", r.d.Kind, def.FQN, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", r.d.Kind, err)
	}
	committed = true

	r.log.Info("table replaced",
		zap.String("table", def.FQN),
		zap.Int("columns", len(cols)),
		zap.Int64("rows", n),
	)
	return n, nil
}

// batchRows keeps rows*width under the dialect's bind parameter limit.
func (r *Repository) batchRows(width int) int {
	n := DefaultBatchRows
	if r.d.MaxParams > 0 && width > 0 && n*width > r.d.MaxParams {
		n = r.d.MaxParams / width
	}
	return max(n, 1)
}

func (r *Repository) insert(ctx context.Context, tx *sqlx.Tx, name string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	q, args, err := InsertSQL(name, columns, rows, r.d.Quote)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// InsertSQL renders a multi-row INSERT with '?' placeholders and the
// flattened arguments. Every row must have len(columns) values.
func InsertSQL(name string, columns []string, rows [][]any, quote ddl.QuoteFunc) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, errors.New("insert: columns must not be empty")
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ddl.QuoteFQN(c, quote)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", ddl.QuoteFQN(name, quote), strings.Join(quoted, ", "))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}
	return sb.String(), args, nil
}

// Query implements storage.Repository.
func (r *Repository) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	rows, err := r.db.QueryxContext(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", r.d.Kind, err)
	}
	defer rows.Close()
	return storage.Collect(rows)
}
