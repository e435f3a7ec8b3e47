// Package storage defines the sink contract used by the pipeline and a
// registry of backends. Backends register a Factory in their init function;
// importing internal/storage/all enables every built-in kind.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"luxhousing/internal/table"
)

// Repository is an open handle on a relational store.
type Repository interface {
	// ReplaceTable drops name if it exists, creates it from the schema
	// inferred from t (lower-cased column names) and inserts every row. It
	// returns the number of rows written.
	ReplaceTable(ctx context.Context, name string, t *table.Table) (int64, error)

	// Query runs a read-only statement and returns all result rows.
	Query(ctx context.Context, sql string) (*ResultSet, error)

	// Dialect is the storage kind the repository was opened with.
	Dialect() string

	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string

	// Log receives backend diagnostics. Nil discards them.
	Log *zap.Logger
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// again replaces the previous factory.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository with the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
