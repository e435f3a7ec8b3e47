package mysql

import (
	"context"
	"os"
	"strings"
	"testing"

	"luxhousing/internal/storage"
	"luxhousing/internal/table"
)

func TestMySQLStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		gotCfg Config
		closed bool
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mysql", DSN: "u:p@tcp(db:3306)/lux"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if gotCfg.DSN != "u:p@tcp(db:3306)/lux" {
		t.Errorf("hook cfg.DSN = %q", gotCfg.DSN)
	}
	if _, ok := repo.(*wrappedRepo); !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not invoke closeFn")
	}
}

func TestNormalizeDSN(t *testing.T) {
	t.Parallel()

	got, err := NormalizeDSN("u:p@tcp(db:3306)/lux")
	if err != nil {
		t.Fatalf("NormalizeDSN: %v", err)
	}
	if !strings.Contains(got, "parseTime=true") {
		t.Fatalf("dsn %q missing parseTime=true", got)
	}
	if !strings.Contains(got, "tcp(db:3306)/lux") {
		t.Fatalf("dsn %q lost address or database", got)
	}

	if _, err := NormalizeDSN("no-slash-here"); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
}

// TestReplaceTable_Integration runs only when MYSQL_TEST_DSN is set.
func TestReplaceTable_Integration(t *testing.T) {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set; skipping MySQL integration test")
	}
	ctx := context.Background()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	tb := table.New("Booking_Flag")
	_ = tb.Append([]table.Value{table.Integer(1)})
	_ = tb.Append([]table.Value{table.Integer(0)})
	if _, err := repo.ReplaceTable(ctx, "lux_replace_test", tb); err != nil {
		t.Fatalf("ReplaceTable: %v", err)
	}
	defer func() { _, _ = repo.Query(ctx, "DROP TABLE IF EXISTS `lux_replace_test`") }()

	rs, err := repo.Query(ctx, "SELECT COUNT(*) FROM `lux_replace_test`")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if n, _ := rs.Int(0, 0); n != 2 {
		t.Fatalf("count=%v want 2", rs.Rows[0][0])
	}
}
