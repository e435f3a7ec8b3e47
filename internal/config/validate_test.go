package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

/*
TestValidatePipeline_Default verifies that the built-in pipeline is clean:
no errors and no warnings.
*/
func TestValidatePipeline_Default(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(Default()); len(issues) != 0 {
		t.Fatalf("Default() should validate cleanly, got %+v", issues)
	}
}

/*
TestValidatePipeline_StructTags verifies that validator tag failures are
reported with JSON paths.
*/
func TestValidatePipeline_StructTags(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Job = ""
	p.Profile.TopN = 0
	p.Storage.DB.Table = ""
	p.Storage.DB.Port = 70000
	p.Logging.Format = "xml"
	p.Metrics.Backend = "pushgateway"

	issues := ValidatePipeline(p)

	for _, want := range []struct{ path, tag string }{
		{"job", "required"},
		{"profile.top_n", "min"},
		{"storage.db.table", "required"},
		{"storage.db.port", "max"},
		{"logging.format", "oneof"},
		{"metrics.pushgateway_url", "required_if"},
	} {
		if !hasIssue(t, issues, SeverityError, want.path, want.tag) {
			t.Errorf("missing %s issue at %s; got %+v", want.tag, want.path, issues)
		}
	}
	if Err(issues) == nil {
		t.Fatalf("Err should report blocking issues")
	}
}

func TestValidatePipeline_Transforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ts   []Transform
		sev  IssueSeverity
		path string
		msg  string
	}{
		{
			name: "empty_chain",
			ts:   nil,
			sev:  SeverityWarning, path: "transform", msg: "no transforms",
		},
		{
			name: "unknown_kind",
			ts:   []Transform{{Kind: "dedup", Options: Options{}}},
			sev:  SeverityError, path: "transform[0].kind", msg: "unknown transform kind",
		},
		{
			name: "coerce_without_columns",
			ts:   []Transform{{Kind: "coerce", Options: Options{}}},
			sev:  SeverityError, path: "transform[0].options.columns", msg: "at least one column",
		},
		{
			name: "impute_bad_on_empty",
			ts: []Transform{
				{Kind: "coerce", Options: Options{"columns": []string{"a"}}},
				{Kind: "impute", Options: Options{"column": "a", "on_empty": "zero"}},
			},
			sev: SeverityError, path: "transform[1].options.on_empty", msg: "on_empty",
		},
		{
			name: "impute_before_coerce",
			ts:   []Transform{{Kind: "impute", Options: Options{"column": "a"}}},
			sev:  SeverityWarning, path: "transform[0]", msg: "before any coerce",
		},
		{
			name: "derive_before_require",
			ts:   []Transform{{Kind: "derive", Options: Options{}}},
			sev:  SeverityWarning, path: "transform[0]", msg: "before require",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := Default()
			p.Transform = tc.ts
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, tc.sev, tc.path, tc.msg) {
				t.Fatalf("want %s at %s (%q); got %+v", tc.sev, tc.path, tc.msg, issues)
			}
		})
	}
}

func TestValidatePipeline_Storage(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Storage.Kind = "oracle"
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "storage.kind", "unknown storage kind") {
		t.Fatalf("expected unknown storage kind error")
	}

	p = Default()
	p.Storage.Kind = "sqlite"
	p.Storage.DB.Name = ""
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "storage.db", "sqlite requires db.name") {
		t.Fatalf("expected sqlite name error")
	}

	p = Default()
	p.Storage.DB.Host = ""
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "storage.db.host", "host is required") {
		t.Fatalf("expected host error")
	}

	p = Default()
	p.Storage.DB.Table = "luxury housing; DROP TABLE x"
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "storage.db.table", "plain identifier") {
		t.Fatalf("expected table identifier error")
	}
	p.Storage.DB.Table = "public.luxury_housing"
	if hasIssue(t, ValidatePipeline(p), SeverityError, "storage.db.table", "") {
		t.Fatalf("schema-qualified table should be accepted")
	}

	// Skipping the sink silences storage checks.
	p.Storage.Skip = true
	p.Storage.Kind = "oracle"
	if hasIssue(t, ValidatePipeline(p), SeverityError, "storage.kind", "") {
		t.Fatalf("skip should disable storage checks")
	}
}

func TestValidatePipeline_SourceAndParser(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Source = Source{Kind: "s3"}
	p.Parser = Parser{Kind: "json", Options: Options{}}
	issues := ValidatePipeline(p)

	if !hasIssue(t, issues, SeverityError, "source.kind", "unsupported source kind") {
		t.Errorf("expected source kind error; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "parser.kind", "unknown parser kind") {
		t.Errorf("expected parser error; got %+v", issues)
	}

	p = Default()
	p.Source.File.Path = "  "
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "source.file.path", "non-empty path") {
		t.Errorf("expected path error")
	}
}

func TestValidatePipeline_HTTPSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     SourceHTTP
		wantErr bool
		warn    bool
	}{
		{name: "https", src: SourceHTTP{URL: "https://data.example.com/lux.csv"}},
		{name: "insecure", src: SourceHTTP{URL: "https://10.0.0.5/lux.csv", InsecureSkipVerify: true}, warn: true},
		{name: "relative", src: SourceHTTP{URL: "/lux.csv"}, wantErr: true},
		{name: "ftp", src: SourceHTTP{URL: "ftp://data.example.com/lux.csv"}, wantErr: true},
		{name: "empty", wantErr: true},
		{name: "negative retries", src: SourceHTTP{URL: "https://data.example.com/lux.csv", MaxRetries: -1}, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := Default()
			p.Source = Source{Kind: "http", HTTP: tc.src}
			issues := ValidatePipeline(p)
			if got := Err(issues) != nil; got != tc.wantErr {
				t.Fatalf("error=%v want %v; issues=%+v", got, tc.wantErr, issues)
			}
			if got := hasIssue(t, issues, SeverityWarning, "source.http.insecure_skip_verify", "disabled"); got != tc.warn {
				t.Fatalf("warning=%v want %v", got, tc.warn)
			}
		})
	}
}
