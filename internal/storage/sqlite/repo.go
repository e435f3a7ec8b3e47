// Package sqlite writes cleaned tables to a SQLite database file through the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	sqliteddl "luxhousing/internal/storage/sqlite/ddl"
	"luxhousing/internal/storage/sqldb"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// maxParams matches SQLITE_MAX_VARIABLE_NUMBER in current SQLite builds.
const maxParams = 32766

func init() {
	// sqlx does not know the modernc driver name.
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Dialect is the sqldb dialect for SQLite.
var Dialect = sqldb.Dialect{
	Kind:      "sqlite",
	Driver:    driverName,
	Quote:     sqliteddl.Quote,
	MapType:   sqliteddl.MapType,
	MaxParams: maxParams,
}

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a database file path or a "file:" URI, e.g.
	//   "luxury_housing.db"
	//   "file:lux?mode=memory&cache=shared"
	DSN string

	Log *zap.Logger
}

// Repository is the SQLite flavour of sqldb.Repository.
type Repository struct {
	*sqldb.Repository
}

// NewRepository opens the database and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	r, closeFn, err := sqldb.Open(ctx, Dialect, cfg.DSN, cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{Repository: r}, closeFn, nil
}
