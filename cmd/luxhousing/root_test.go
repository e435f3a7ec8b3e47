package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"luxhousing/internal/config"
	"luxhousing/internal/etl"
)

func samplePath() string {
	return filepath.Join("..", "..", "testdata", "luxury_housing_sample.csv")
}

// execute runs the root command with args and captures both streams. The
// env file points at a missing path so a developer's .env never leaks in.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestValidate_Defaults(t *testing.T) {
	out, _, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid: (built-in defaults)") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestValidate_ReportsIssues(t *testing.T) {
	_, errOut, err := execute(t, "validate", "--table", "bad table; drop")
	if !errors.Is(err, errInvalidConfig) {
		t.Fatalf("want errInvalidConfig, got %v", err)
	}
	if !strings.Contains(errOut, "error: storage.db.table:") {
		t.Fatalf("issue not printed: %q", errOut)
	}
}

func TestValidate_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	yaml := "job: lux_test\nstorage:\n  kind: sqlite\n  db:\n    dsn: lux.db\n    table: homes\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestValidate_MissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestRun_FlagsOverridePipeline(t *testing.T) {
	orig := runPipelineFn
	t.Cleanup(func() { runPipelineFn = orig })

	var got config.Pipeline
	runPipelineFn = func(ctx context.Context, p config.Pipeline, out io.Writer, log *zap.Logger) (*etl.Summary, error) {
		got = p
		return &etl.Summary{RunID: "test"}, nil
	}

	_, _, err := execute(t, "run",
		"--input", samplePath(),
		"--db-kind", "sqlite",
		"--dsn", "lux.db",
		"--table", "homes",
		"--skip-store",
		"--metrics-backend", "none",
		"-v",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Source.File.Path != samplePath() {
		t.Fatalf("input = %q", got.Source.File.Path)
	}
	if got.Storage.Kind != "sqlite" || got.Storage.DB.DSN != "lux.db" || got.Storage.DB.Table != "homes" {
		t.Fatalf("storage = %+v", got.Storage)
	}
	if !got.Storage.Skip || got.Metrics.Backend != "none" || got.Logging.Level != "debug" {
		t.Fatalf("unexpected pipeline: %+v", got)
	}
}

func TestRun_URLInputSelectsHTTPSource(t *testing.T) {
	orig := runPipelineFn
	t.Cleanup(func() { runPipelineFn = orig })

	var got config.Pipeline
	runPipelineFn = func(ctx context.Context, p config.Pipeline, out io.Writer, log *zap.Logger) (*etl.Summary, error) {
		got = p
		return &etl.Summary{}, nil
	}
	const url = "https://data.example.com/Luxury_Housing_Bangalore.csv"
	if _, _, err := execute(t, "run", "--input", url, "--skip-store"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Source.Kind != "http" || got.Source.HTTP.URL != url || got.Source.Location() != url {
		t.Fatalf("source = %+v", got.Source)
	}
}

func TestRun_EnvBetweenFileAndFlags(t *testing.T) {
	orig := runPipelineFn
	t.Cleanup(func() { runPipelineFn = orig })

	var got config.Pipeline
	runPipelineFn = func(ctx context.Context, p config.Pipeline, out io.Writer, log *zap.Logger) (*etl.Summary, error) {
		got = p
		return &etl.Summary{}, nil
	}
	t.Setenv("LUXETL_DB_TABLE", "from_env")
	t.Setenv("LUXETL_DB_KIND", "sqlite")
	t.Setenv("LUXETL_DB_DSN", "env.db")

	if _, _, err := execute(t, "run", "--dsn", "flag.db"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Storage.DB.Table != "from_env" || got.Storage.Kind != "sqlite" {
		t.Fatalf("env not applied: %+v", got.Storage)
	}
	if got.Storage.DB.DSN != "flag.db" {
		t.Fatalf("flag did not win: %q", got.Storage.DB.DSN)
	}
}

func TestRun_PropagatesPipelineError(t *testing.T) {
	orig := runPipelineFn
	t.Cleanup(func() { runPipelineFn = orig })
	boom := errors.New("load: boom")
	runPipelineFn = func(ctx context.Context, p config.Pipeline, out io.Writer, log *zap.Logger) (*etl.Summary, error) {
		return nil, boom
	}
	if _, _, err := execute(t, "run", "--skip-store"); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

/*
TestRun_SampleEndToEnd drives the real pipeline through the CLI into a
temporary SQLite database and checks the report reached stdout.
*/
func TestRun_SampleEndToEnd(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "lux.db")
	out, _, err := execute(t, "run",
		"--input", samplePath(),
		"--db-kind", "sqlite",
		"--dsn", dsn,
		"--metrics-backend", "none",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"Loaded dataset with 6 rows and 18 columns",
		"Outlier Ranges:",
		"Total Rows:",
		"Booking Flag Distribution:",
		"Top 10 Builders by Avg Ticket Price:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_RejectsArgs(t *testing.T) {
	if _, _, err := execute(t, "run", "extra"); err == nil {
		t.Fatalf("expected error for positional args")
	}
}
