package config

// This file adds a lightweight linter/validator for Pipeline values. Struct
// tags are checked with go-playground/validator; cross-field and transform
// option rules are checked by hand. Both produce Issue values that callers
// surface in the CLI or tests.

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the JSON config (e.g. "storage.db.table",
// "transform[1].options.columns").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Err joins every SeverityError issue into one error, or returns nil.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	issues = append(issues, structIssues(p)...)
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateProfile(p.Profile, p.Outliers)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	return issues
}

// structIssues converts validator tag failures into Issues keyed by JSON
// path.
func structIssues(p Pipeline) []Issue {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		msg := fmt.Sprintf("failed %q", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed %q (%s)", fe.Tag(), fe.Param())
		}
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: msg})
	}
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		u, err := url.Parse(strings.TrimSpace(s.HTTP.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  fmt.Sprintf("http source requires an absolute http(s) URL, got %q", s.HTTP.URL),
			})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.http.insecure_skip_verify",
				Message:  "TLS certificate verification is disabled",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unsupported source kind %q; expected file or http", s.Kind),
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	switch p.Kind {
	case "", "csv", "xlsx":
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q; expected csv or xlsx", p.Kind),
		}}
	}
	if c := p.Options.String("comma", ""); len([]rune(c)) > 1 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", c),
		}}
	}
	return nil
}

func validateProfile(p Profile, o Outliers) []Issue {
	var issues []Issue
	if len(p.Columns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "profile.columns",
			Message:  "no profile columns configured; value-count summaries will be empty",
		})
	}
	if len(o.Columns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "outliers.columns",
			Message:  "no outlier columns configured; range report will be empty",
		})
	}
	return issues
}

// validateTransforms validates the transform chain and the options each kind
// needs.
func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	if len(ts) == 0 {
		return append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform",
			Message:  "no transforms configured; raw loaded text will be written as-is",
		})
	}

	seen := map[string]int{}
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		opt := func(k string) string { return fmt.Sprintf("%s.options.%s", path, k) }

		switch t.Kind {
		case "normalize":
			if len(t.Options.StringSlice("title")) == 0 && len(t.Options.StringSlice("compact_upper")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path + ".options",
					Message:  "normalize has neither title nor compact_upper columns; it does nothing",
				})
			}
		case "coerce":
			if len(t.Options.StringSlice("columns")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("columns"),
					Message:  "coerce requires at least one column",
				})
			}
		case "impute":
			if t.Options.String("column", "") == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("column"),
					Message:  "impute requires a column",
				})
			}
			if s := t.Options.String("strategy", "median"); s != "median" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("strategy"),
					Message:  fmt.Sprintf("unsupported impute strategy %q; only median is implemented", s),
				})
			}
			if s := t.Options.String("on_empty", "error"); s != "error" && s != "skip" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("on_empty"),
					Message:  fmt.Sprintf("on_empty must be \"error\" or \"skip\", got %q", s),
				})
			}
			if _, ok := seen["coerce"]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path,
					Message:  "impute runs before any coerce; text values will not contribute to the median",
				})
			}
		case "require":
			if len(t.Options.StringSlice("columns")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("columns"),
					Message:  "require needs at least one column",
				})
			}
		case "derive":
			if _, ok := seen["require"]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path,
					Message:  "derive runs before require; rows without price or size produce missing features",
				})
			}
		case "":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  "transform kind must not be empty",
			})
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
		}
		seen[t.Kind] = i
	}
	return issues
}

// tableIdent matches an unquoted table name, optionally schema-qualified. The
// report queries embed the name without quoting.
var tableIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateStorage validates storage configuration and DB settings.
func validateStorage(s Storage) []Issue {
	if s.Skip {
		return nil
	}
	var issues []Issue
	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; expected postgres, sqlite, mysql or mssql", s.Kind),
		})
	}
	if s.DB.Table != "" && !tableIdent.MatchString(s.DB.Table) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  fmt.Sprintf("table %q must be a plain identifier (letters, digits, underscore; optional schema prefix)", s.DB.Table),
		})
	}
	if s.DB.DSN == "" {
		if _, err := s.DB.ConnectionString(s.Kind); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db",
				Message:  err.Error(),
			})
		}
		if s.Kind != "sqlite" && s.DB.Host == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db.host",
				Message:  "host is required when dsn is empty",
			})
		}
	}
	return issues
}
