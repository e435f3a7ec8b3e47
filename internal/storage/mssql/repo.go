// Package mssql writes cleaned tables to Microsoft SQL Server. Rows are loaded
// with the go-mssqldb bulk copy API inside the replace transaction.
package mssql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"go.uber.org/zap"

	mssqlddl "luxhousing/internal/storage/mssql/ddl"
	"luxhousing/internal/storage/sqldb"
)

// Dialect is the sqldb dialect for SQL Server.
var Dialect = sqldb.Dialect{
	Kind:    "mssql",
	Driver:  "sqlserver",
	Quote:   mssqlddl.Quote,
	MapType: mssqlddl.MapType,
	Bulk:    bulkCopy,
}

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
	Log *zap.Logger
}

// Repository is the SQL Server flavour of sqldb.Repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	r, closeFn, err := sqldb.Open(ctx, Dialect, cfg.DSN, cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}

// bulkCopy streams rows into table through a bulk copy statement prepared
// on tx.
func bulkCopy(ctx context.Context, tx *sqlx.Tx, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, columns...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
