package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"luxhousing/internal/config"
	"luxhousing/internal/etl"
	"luxhousing/internal/logging"
	"luxhousing/internal/storage"
)

// options holds the flags shared by run and validate. Flags override the
// pipeline file and the LUXETL_* environment, in that order.
type options struct {
	configPath     string
	envFile        string
	input          string
	dbKind         string
	dsn            string
	table          string
	skipStore      bool
	metricsBackend string
	verbose        bool
}

// errInvalidConfig is returned when validation reports at least one error.
var errInvalidConfig = errors.New("configuration is invalid")

// runPipelineFn is a test seam for the pipeline runner.
var runPipelineFn = func(ctx context.Context, p config.Pipeline, out io.Writer, log *zap.Logger) (*etl.Summary, error) {
	return (&etl.Runner{Pipeline: p, Out: out, Log: log}).Run(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "luxhousing",
		Short:         "Clean the luxury housing dataset and load it into a database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "pipeline file (.json, .yaml or .yml); empty uses built-in defaults")
	pf.StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before reading LUXETL_* variables")
	pf.StringVarP(&o.input, "input", "i", "", "input dataset path or http(s) URL (csv or xlsx)")
	pf.StringVar(&o.dbKind, "db-kind", "", fmt.Sprintf("storage backend %v", storage.ListKinds()))
	pf.StringVar(&o.dsn, "dsn", "", "driver DSN; wins over host/port/user settings")
	pf.StringVar(&o.table, "table", "", "destination table name")
	pf.BoolVar(&o.skipStore, "skip-store", false, "stop after the outlier report")
	pf.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the cleaning pipeline and the summary queries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCmd(cmd, o)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the resolved pipeline configuration and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := resolvePipeline(cmd, o)
				if err != nil {
					return err
				}
				if err := reportIssues(cmd.ErrOrStderr(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", describe(o.configPath))
				return nil
			},
		},
	)
	return root
}

func runCmd(cmd *cobra.Command, o *options) error {
	p, err := resolvePipeline(cmd, o)
	if err != nil {
		return err
	}
	if err := reportIssues(cmd.ErrOrStderr(), p); err != nil {
		return err
	}

	log, err := newLogger(p.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	flush := setupMetrics(p, log)
	defer flush()

	log.Info("pipeline starting",
		zap.String("config", describe(o.configPath)),
		zap.String("source", p.Source.Kind),
		zap.String("input", p.Source.Location()),
		zap.String("storage", p.Storage.Kind),
		zap.String("table", p.Storage.DB.Table),
		zap.Bool("skip_store", p.Storage.Skip),
	)
	sum, err := runPipelineFn(cmd.Context(), p, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}
	log.Info("pipeline completed",
		zap.String("run_id", sum.RunID),
		zap.Int("rows", sum.Rows),
		zap.Int64("stored", sum.Stored),
		zap.Duration("elapsed", sum.Elapsed.Truncate(time.Millisecond)),
	)
	return nil
}

// resolvePipeline layers defaults, the pipeline file, the environment and
// changed flags.
func resolvePipeline(cmd *cobra.Command, o *options) (config.Pipeline, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Pipeline{}, fmt.Errorf("env file: %w", err)
	}
	p, err := config.Load(o.configPath)
	if err != nil {
		return config.Pipeline{}, err
	}
	env, err := config.ReadEnv()
	if err != nil {
		return config.Pipeline{}, fmt.Errorf("environment: %w", err)
	}
	config.ApplyEnv(&p, env)

	f := cmd.Flags()
	if f.Changed("input") {
		if strings.HasPrefix(o.input, "http://") || strings.HasPrefix(o.input, "https://") {
			p.Source.Kind = "http"
			p.Source.HTTP.URL = o.input
		} else {
			p.Source.Kind = "file"
			p.Source.File.Path = o.input
		}
	}
	if f.Changed("db-kind") {
		p.Storage.Kind = o.dbKind
	}
	if f.Changed("dsn") {
		p.Storage.DB.DSN = o.dsn
	}
	if f.Changed("table") {
		p.Storage.DB.Table = o.table
	}
	if f.Changed("skip-store") {
		p.Storage.Skip = o.skipStore
	}
	if f.Changed("metrics-backend") {
		p.Metrics.Backend = o.metricsBackend
	}
	if o.verbose {
		p.Logging.Level = "debug"
	}
	return p, nil
}

// reportIssues prints every validation issue and fails if any is an error.
func reportIssues(w io.Writer, p config.Pipeline) error {
	hasError := false
	for _, iss := range config.ValidatePipeline(p) {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		return errInvalidConfig
	}
	return nil
}

func newLogger(l config.Logging) (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	if l.Level != "" {
		cfg.Level = l.Level
	}
	if l.Format != "" {
		cfg.Encoding = l.Format
	}
	cfg.File = l.File
	return logging.New(cfg)
}

func describe(path string) string {
	if path == "" {
		return "(built-in defaults)"
	}
	return path
}
