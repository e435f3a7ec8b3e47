// Package etl runs the luxury housing cleaning pipeline end to end: load,
// profile, clean, derive, report ranges, then replace the destination table
// and print the summary queries.
//
// Every stage is timed and counted through package metrics and logged with
// the run id. The first error aborts the run.
package etl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxhousing/internal/config"
	"luxhousing/internal/datasource"
	"luxhousing/internal/datasource/file"
	"luxhousing/internal/datasource/httpds"
	"luxhousing/internal/loader"
	"luxhousing/internal/logging"
	"luxhousing/internal/metrics"
	"luxhousing/internal/profile"
	"luxhousing/internal/report"
	"luxhousing/internal/storage"
	"luxhousing/internal/table"
	"luxhousing/internal/transformer"
	"luxhousing/internal/transformer/builtin"
)

// Stage names used in logs and metrics.
const (
	StageLoad          = "load"
	StageProfileBefore = "profile_before"
	StageTransform     = "transform"
	StageProfileAfter  = "profile_after"
	StageOutliers      = "outliers"
	StageStore         = "store"
	StageReport        = "report"
)

// newRepositoryFn is a test seam for the sink.
var newRepositoryFn = storage.New

// Summary describes a finished run.
type Summary struct {
	RunID       string
	Loaded      int
	Columns     int
	Fingerprint string
	Stats       transformer.Stats
	Rows        int
	Ranges      []profile.Range
	Stored      int64
	Counted     int64
	Results     []report.Result
	Elapsed     time.Duration
}

// Runner executes one pipeline. Out receives the human-readable report; nil
// discards it.
type Runner struct {
	Pipeline config.Pipeline
	Out      io.Writer
	Log      *zap.Logger
}

// Run executes the pipeline and returns its summary. On error the summary
// holds whatever completed before the failing stage.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	p := r.Pipeline
	if r.Out == nil {
		r.Out = io.Discard
	}
	sum := &Summary{RunID: uuid.NewString()}
	log := logging.OrNop(r.Log).With(zap.String("job", p.Job), zap.String("run_id", sum.RunID))
	start := time.Now()
	defer func() { sum.Elapsed = time.Since(start) }()

	st := &stager{job: p.Job, log: log}
	var t *table.Table

	err := st.run(StageLoad, func() error {
		res, err := loader.Load(ctx, NewSource(p.Source, log), LoaderOptions(p.Parser), log)
		if err != nil {
			return err
		}
		t = res.Table
		sum.Loaded, sum.Columns, sum.Fingerprint = t.Len(), t.Width(), res.Fingerprint
		metrics.RecordRows(p.Job, "loaded", int64(t.Len()))
		_, err = fmt.Fprintf(r.Out, "Loaded dataset with %d rows and %d columns\n\n", t.Len(), t.Width())
		return err
	})
	if err != nil {
		return sum, err
	}

	if err := st.run(StageProfileBefore, func() error {
		return r.writeProfile(t, "Unique Value Summary (Before Cleaning - Top %d per column):")
	}); err != nil {
		return sum, err
	}

	if err := st.run(StageTransform, func() error {
		chain, err := builtin.Build(p.Transform, log)
		if err != nil {
			return err
		}
		stats, err := chain.Apply(t)
		sum.Stats = stats
		metrics.RecordRows(p.Job, "dropped", int64(stats.Dropped))
		metrics.RecordRows(p.Job, "imputed", int64(stats.Filled))
		metrics.RecordRows(p.Job, "invalid", int64(stats.Invalid))
		if err != nil {
			return err
		}
		sum.Rows = t.Len()
		log.Info("table cleaned",
			zap.Strings("steps", chain.Kinds()),
			zap.Int("rows", t.Len()),
			zap.Int("dropped", stats.Dropped),
			zap.Int("imputed", stats.Filled),
			zap.Int("invalid", stats.Invalid),
		)
		return nil
	}); err != nil {
		return sum, err
	}

	if err := st.run(StageProfileAfter, func() error {
		if _, err := fmt.Fprintln(r.Out); err != nil {
			return err
		}
		return r.writeProfile(t, "Unique Value Summary (After Cleaning - Top %d per column):")
	}); err != nil {
		return sum, err
	}

	if err := st.run(StageOutliers, func() error {
		ranges, err := profile.Ranges(t, p.Outliers.Columns)
		if err != nil {
			return err
		}
		sum.Ranges = ranges
		for _, rg := range ranges {
			metrics.RecordOutliers(p.Job, rg.Column, rg.Outliers)
		}
		if _, err := fmt.Fprintln(r.Out); err != nil {
			return err
		}
		return report.WriteRanges(r.Out, ranges)
	}); err != nil {
		return sum, err
	}

	if p.Storage.Skip {
		log.Info("storage skipped")
		return sum, nil
	}

	var repo storage.Repository
	defer func() {
		if repo != nil {
			repo.Close()
		}
	}()

	if err := st.run(StageStore, func() error {
		var err error
		if repo, err = r.openRepository(ctx, log); err != nil {
			return err
		}
		n, err := repo.ReplaceTable(ctx, p.Storage.DB.Table, t)
		if err != nil {
			return err
		}
		sum.Stored = n
		metrics.RecordRows(p.Job, "stored", n)
		_, err = fmt.Fprintf(r.Out, "\nData loaded into %s table %s (%d rows)\n", repo.Dialect(), p.Storage.DB.Table, n)
		return err
	}); err != nil {
		return sum, err
	}

	err = st.run(StageReport, func() error {
		res, err := report.RunQueries(ctx, repo, p.Storage.DB.Table, r.Out, log)
		sum.Results = res
		if err != nil {
			return err
		}
		sum.Counted = rowCount(res)
		if sum.Counted != sum.Stored {
			log.Warn("stored row count mismatch",
				zap.String("table", p.Storage.DB.Table),
				zap.Int64("stored", sum.Stored),
				zap.Int64("counted", sum.Counted),
			)
		}
		return nil
	})
	return sum, err
}

// rowCount extracts the row_count query result, or -1 when it is absent or
// not integral.
func rowCount(res []report.Result) int64 {
	for _, r := range res {
		if r.Query.Name != report.QueryRowCount || len(r.Rows.Rows) == 0 {
			continue
		}
		if n, ok := r.Rows.Int(0, 0); ok {
			return n
		}
	}
	return -1
}

func (r *Runner) writeProfile(t *table.Table, titleFmt string) error {
	pr := r.Pipeline.Profile
	sums, err := profile.Summarize(t, pr.Columns, pr.TopN)
	if err != nil {
		return err
	}
	topN := pr.TopN
	if topN <= 0 {
		topN = profile.DefaultTopN
	}
	return report.WriteProfile(r.Out, fmt.Sprintf(titleFmt, topN), sums)
}

func (r *Runner) openRepository(ctx context.Context, log *zap.Logger) (storage.Repository, error) {
	s := r.Pipeline.Storage
	dsn, err := s.DB.ConnectionString(s.Kind)
	if err != nil {
		return nil, err
	}
	log.Info("opening storage", zap.String("kind", s.Kind), zap.String("table", s.DB.Table))
	return newRepositoryFn(ctx, storage.Config{Kind: s.Kind, DSN: dsn, Log: log})
}

// NewSource builds the datasource for the configured source kind.
func NewSource(s config.Source, log *zap.Logger) datasource.Source {
	if s.Kind == "http" {
		h := http.Header{}
		for k, v := range s.HTTP.Headers {
			h.Set(k, v)
		}
		c := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(s.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         s.HTTP.MaxRetries,
			InsecureSkipVerify: s.HTTP.InsecureSkipVerify,
			Headers:            h,
			Log:                log,
		})
		return httpds.NewSource(c, s.HTTP.URL)
	}
	return file.NewLocal(s.File.Path)
}

// LoaderOptions maps the parser section of a pipeline onto loader options.
func LoaderOptions(p config.Parser) loader.Options {
	return loader.Options{
		Format:    p.Kind,
		Comma:     p.Options.Rune("comma", 0),
		Sheet:     p.Options.String("sheet", ""),
		NATokens:  p.Options.StringSlice("na_tokens"),
		HeaderMap: p.Options.StringMap("header_map"),
	}
}

// stager times a stage, records it and logs failures.
type stager struct {
	job string
	log *zap.Logger
}

func (s *stager) run(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStage(s.job, stage, err, d)
	if err != nil {
		s.log.Error("stage failed", zap.String("stage", stage), zap.Duration("elapsed", d), zap.Error(err))
		return fmt.Errorf("%s: %w", stage, err)
	}
	s.log.Debug("stage done", zap.String("stage", stage), zap.Duration("elapsed", d))
	return nil
}
