// Package config defines the JSON-serializable configuration model for the
// luxury housing ETL. A Pipeline is assembled in layers: Default, an optional
// pipeline file (Load), the environment (ApplyEnv) and finally CLI flags set
// by the caller.
//
// Example (trimmed):
//
//	{
//	  "job":      "luxury_housing",
//	  "source":   { "kind": "file", "file": { "path": "Luxury_Housing_Bangalore.csv" } },
//	  "parser":   { "kind": "csv", "options": { "comma": "," } },
//	  "transform":[
//	    { "kind": "normalize", "options": { "title": ["Micro_Market"] } },
//	    { "kind": "coerce",    "options": { "columns": ["Ticket_Price_Cr"] } }
//	  ],
//	  "storage":  { "kind": "postgres", "db": { "host": "localhost", "table": "luxury_housing" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pipeline describes the full ETL run. It is the top-level object decoded from
// a pipeline file.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" validate:"required"`

	// Source describes where input data comes from.
	Source Source `json:"source"`

	// Parser selects the tabular reader for the source bytes.
	Parser Parser `json:"parser"`

	// Profile lists the categorical columns summarized before and after
	// cleaning.
	Profile Profile `json:"profile"`

	// Transform lists the ordered cleaning steps. Each transform has a kind
	// and an options bag whose shape is defined by the implementation.
	Transform []Transform `json:"transform"`

	// Outliers lists the numeric columns whose min/max are reported.
	Outliers Outliers `json:"outliers"`

	// Storage describes where the cleaned table is written.
	Storage Storage `json:"storage"`

	Logging Logging `json:"logging"`
	Metrics Metrics `json:"metrics"`
}

// Source identifies the data source: "file" or "http".
type Source struct {
	Kind string     `json:"kind"`
	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// SourceHTTP downloads the dataset from a URL.
type SourceHTTP struct {
	URL string `json:"url"`

	// TimeoutSeconds bounds each attempt. Zero uses the client default.
	TimeoutSeconds int `json:"timeout_seconds" validate:"min=0"`

	// MaxRetries re-sends the request after transport errors, 429 and 5xx.
	// Zero, the default, makes a single attempt.
	MaxRetries         int               `json:"max_retries" validate:"min=0,max=10"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify"`
	Headers            map[string]string `json:"headers"`
}

// Location is the path or URL read by the configured source kind.
func (s Source) Location() string {
	if s.Kind == "http" {
		return s.HTTP.URL
	}
	return s.File.Path
}

// Parser selects how the raw source is turned into a table.
type Parser struct {
	// Kind is "csv" or "xlsx". Empty picks by file extension.
	Kind string `json:"kind"`

	// Options is interpreted by the parser. Keys:
	//   comma (string), sheet (string), na_tokens ([]string),
	//   header_map (object)
	Options Options `json:"options"`
}

// Profile configures the categorical value-count summaries.
type Profile struct {
	Columns []string `json:"columns"`
	TopN    int      `json:"top_n" validate:"min=1"`
}

// Outliers configures the min/max range report.
type Outliers struct {
	Columns []string `json:"columns"`
}

// Transform defines a single transformation step.
type Transform struct {
	// Kind selects the transform: "normalize", "coerce", "impute",
	// "require" or "derive".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// Storage selects the sink used to persist the cleaned table.
type Storage struct {
	// Kind selects the storage backend: "postgres", "sqlite", "mysql" or
	// "mssql".
	Kind string `json:"kind"`

	// Skip disables the sink and the report queries.
	Skip bool `json:"skip"`

	DB Database `json:"db"`
}

// Logging mirrors logging.Config in JSON form.
type Logging struct {
	Level  string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" validate:"omitempty,oneof=console json"`
	File   string `json:"file"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend        string `json:"backend" validate:"omitempty,oneof=none pushgateway datadog"`
	PushgatewayURL string `json:"pushgateway_url" validate:"required_if=Backend pushgateway"`
	DogStatsDAddr  string `json:"dogstatsd_addr" validate:"required_if=Backend datadog"`
}

// DefaultInputPath is the dataset file read when nothing else is configured.
const DefaultInputPath = "Luxury_Housing_Bangalore.csv"

// Default returns the built-in luxury housing pipeline: the fixed column
// lists, the cleaning chain, and a local PostgreSQL sink.
func Default() Pipeline {
	return Pipeline{
		Job:    "luxury_housing",
		Source: Source{Kind: "file", File: SourceFile{Path: DefaultInputPath}},
		Parser: Parser{Kind: "", Options: Options{}},
		Profile: Profile{
			Columns: []string{
				"Micro_Market", "Developer_Name", "Configuration", "Transaction_Type",
				"Buyer_Type", "Possession_Status", "Sales_Channel", "NRI_Buyer",
			},
			TopN: 10,
		},
		Transform: []Transform{
			{Kind: "normalize", Options: Options{
				"title":         []string{"Micro_Market", "Developer_Name"},
				"compact_upper": []string{"Configuration"},
			}},
			{Kind: "coerce", Options: Options{
				"columns": []string{"Ticket_Price_Cr", "Unit_Size_Sqft", "Amenity_Score"},
			}},
			{Kind: "impute", Options: Options{
				"column":   "Amenity_Score",
				"strategy": "median",
				"on_empty": "error",
			}},
			{Kind: "require", Options: Options{
				"columns":  []string{"Unit_Size_Sqft", "Ticket_Price_Cr"},
				"non_zero": []string{"Unit_Size_Sqft"},
			}},
			{Kind: "derive", Options: Options{}},
		},
		Outliers: Outliers{Columns: []string{"Ticket_Price_Cr", "Unit_Size_Sqft", "Price_per_Sqft"}},
		Storage: Storage{
			Kind: "postgres",
			DB: Database{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "postgres",
				Name:     "luxury_housing",
				SSLMode:  "disable",
				Table:    "luxury_housing",
			},
		},
		Logging: Logging{Level: "info", Format: "console"},
		Metrics: Metrics{Backend: "none"},
	}
}

// Load returns Default overlaid with the pipeline file at path. Fields absent
// from the file keep their defaults; a present "transform" array replaces
// the default chain. Files ending in .yaml or .yml are read as YAML with the
// same keys as the JSON form. An empty path returns Default unchanged.
func Load(path string) (Pipeline, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read pipeline config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return Pipeline{}, fmt.Errorf("decode pipeline config %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return Pipeline{}, fmt.Errorf("decode pipeline config %s: %w", path, err)
	}
	return p, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both forms share the
// json struct tags.
func yamlToJSON(b []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(doc)
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns provided defaults when
// a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Has reports whether key is present at all.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
