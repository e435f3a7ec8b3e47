package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment override, e.g. LUXETL_DB_HOST.
const EnvPrefix = "LUXETL"

// Env is the environment layer. Empty values leave the pipeline untouched.
type Env struct {
	DBKind     string `envconfig:"DB_KIND"`
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBSSLMode  string `envconfig:"DB_SSLMODE"`
	DBDSN      string `envconfig:"DB_DSN"`
	DBTable    string `envconfig:"DB_TABLE"`

	InputPath string `envconfig:"INPUT_PATH"`
	InputURL  string `envconfig:"INPUT_URL"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
	LogFile   string `envconfig:"LOG_FILE"`

	MetricsBackend string `envconfig:"METRICS_BACKEND"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	DogStatsDAddr  string `envconfig:"DOGSTATSD_ADDR"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored; with no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ReadEnv decodes the LUXETL_* variables.
func ReadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// ApplyEnv overlays non-empty environment values onto p.
func ApplyEnv(p *Pipeline, e Env) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Storage.Kind, e.DBKind)
	set(&p.Storage.DB.Host, e.DBHost)
	if e.DBPort != 0 {
		p.Storage.DB.Port = e.DBPort
	}
	set(&p.Storage.DB.User, e.DBUser)
	set(&p.Storage.DB.Password, e.DBPassword)
	set(&p.Storage.DB.Name, e.DBName)
	set(&p.Storage.DB.SSLMode, e.DBSSLMode)
	set(&p.Storage.DB.DSN, e.DBDSN)
	set(&p.Storage.DB.Table, e.DBTable)
	if e.InputPath != "" {
		p.Source.Kind = "file"
		p.Source.File.Path = e.InputPath
	}
	if e.InputURL != "" {
		p.Source.Kind = "http"
		p.Source.HTTP.URL = e.InputURL
	}
	set(&p.Logging.Level, e.LogLevel)
	set(&p.Logging.Format, e.LogFormat)
	set(&p.Logging.File, e.LogFile)
	set(&p.Metrics.Backend, e.MetricsBackend)
	set(&p.Metrics.PushgatewayURL, e.PushgatewayURL)
	set(&p.Metrics.DogStatsDAddr, e.DogStatsDAddr)
}
