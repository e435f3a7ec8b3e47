// Package postgres writes cleaned tables to Postgres using pgx v5. The replace
// runs in one transaction: drop, create, then COPY of every row.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"luxhousing/internal/ddl"
	"luxhousing/internal/logging"
	"luxhousing/internal/storage"
	pgddl "luxhousing/internal/storage/postgres/ddl"
	"luxhousing/internal/table"
)

// copyBatchRows bounds the rows sent per COPY call.
const copyBatchRows = 5000

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
	Log *zap.Logger
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", pgError(err))
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool, log: logging.OrNop(cfg.Log).Named("postgres")}, close, nil
}

// Dialect implements storage.Repository.
func (r *Repository) Dialect() string { return "postgres" }

// ReplaceTable implements storage.Repository.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t *table.Table) (int64, error) {
	def, err := ddl.Infer(name, t, pgddl.MapType)
	if err != nil {
		return 0, err
	}
	create, err := ddl.BuildCreateTableSQL(def, pgddl.Quote)
	if err != nil {
		return 0, err
	}
	rows := ddl.Rows(def, t)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after Commit

	if _, err := tx.Exec(ctx, ddl.BuildDropTableSQL(def.FQN, pgddl.Quote)); err != nil {
		return 0, fmt.Errorf("postgres: drop %s: %w", def.FQN, pgError(err))
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("postgres: create %s: %w", def.FQN, pgError(err))
	}

	ident := splitFQN(def.FQN)
	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(batch))
		return n, pgError(err)
	}
	n, err := storage.LoadBatches(ctx, def.Names(), rows, copyBatchRows, copyFn, r.log)
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", def.FQN, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", pgError(err))
	}

	r.log.Info("table replaced",
		zap.String("table", def.FQN),
		zap.Int("columns", len(def.Columns)),
		zap.Int64("rows", n),
	)
	return n, nil
}

// Query implements storage.Repository.
func (r *Repository) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", pgError(err))
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	rs := &storage.ResultSet{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		rs.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: row %d: %w", len(rs.Rows), err)
		}
		rs.Append(vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query: %w", pgError(err))
	}
	return rs, nil
}

// pgError folds the server detail and SQLSTATE into the message when
// available. The original error stays reachable through errors.As.
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (detail: %s, sqlstate %s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
