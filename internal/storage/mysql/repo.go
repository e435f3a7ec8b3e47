// Package mysql writes cleaned tables to MySQL through go-sql-driver/mysql.
//
// MySQL commits DDL implicitly, so the drop and create of a replace are not
// rolled back when the row load fails.
package mysql

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	mysqlddl "luxhousing/internal/storage/mysql/ddl"
	"luxhousing/internal/storage/sqldb"
)

// maxParams is the server limit on placeholders per prepared statement.
const maxParams = 65535

// Dialect is the sqldb dialect for MySQL.
var Dialect = sqldb.Dialect{
	Kind:      "mysql",
	Driver:    "mysql",
	Quote:     mysqlddl.Quote,
	MapType:   mysqlddl.MapType,
	MaxParams: maxParams,
}

// Config holds MySQL repository configuration.
type Config struct {
	DSN string
	Log *zap.Logger
}

// Repository is the MySQL flavour of sqldb.Repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository opens a pool and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := NormalizeDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	r, closeFn, err := sqldb.Open(ctx, Dialect, dsn, cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}

// NormalizeDSN validates dsn and turns on parseTime so DATETIME columns scan
// as time.Time.
func NormalizeDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}
