package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultTelemetryApiURL = "http://localhost:8000"
	DefaultPollInterval    = 10 * time.Second
	DefaultSyncInterval    = time.Minute

	DefaultTelemetryApiMetricsPort = "2113"
	defaultTelemetryApiLogFile     = "telemetry_api.log"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// the telemetry api binary runs next to the dashboard, so it keeps its own
	// metrics listener and log file
	TelemetryApiMetricsPort string `toml:"telemetry_api_metrics_port"`
	TelemetryApiLogsPath    string `toml:"telemetry_api_logs_path"`
	// redis (login sessions, rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// postgres (telemetry api)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// local edge store (telemetry api)
	SqlitePath string `toml:"sqlite_path"`

	// dashboard
	TelemetryApiURL             string        `toml:"telemetry_api_url"`
	PollInterval                time.Duration `toml:"poll_interval"`
	SyncInterval                time.Duration `toml:"sync_interval"`
	LoginRateLimitAllowedPerMin int           `toml:"login_rate_limit_allowed_per_min"`
	AllowedOrigins              []string      `toml:"allowed_origins"`
}

// Secrets are never read from the TOML file.
type Secrets struct {
	RedisPassword    string `env:"VITALY_REDIS_PASS"`
	PostgresPassword string `env:"VITALY_POSTGRES_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombApiKey  string `env:"HONEYCOMB_API_KEY"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}
	return fromToml(&t, env)
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.TelemetryApiURL == "" {
		c.TelemetryApiURL = DefaultTelemetryApiURL
	}
	c.TelemetryApiURL = strings.TrimRight(c.TelemetryApiURL, "/")
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.TelemetryApiMetricsPort == "" {
		c.TelemetryApiMetricsPort = DefaultTelemetryApiMetricsPort
	}
	if c.TelemetryApiLogsPath == "" && c.LogsPath != "" {
		c.TelemetryApiLogsPath = filepath.Join(filepath.Dir(c.LogsPath), defaultTelemetryApiLogFile)
	}
}

// validate rejects settings that would make the dashboard and the telemetry
// api collide when run from the same config section.
func (c *Config) validate() error {
	// port 0 picks a free port for each listener
	if c.TelemetryApiMetricsPort != "0" && c.TelemetryApiMetricsPort == c.PrometheusMetricsPort {
		return fmt.Errorf("telemetry_api_metrics_port and prometheus_metrics_port are both [%s]", c.PrometheusMetricsPort)
	}
	if c.LogsPath != "" && filepath.Clean(c.TelemetryApiLogsPath) == filepath.Clean(c.LogsPath) {
		return fmt.Errorf("telemetry_api_logs_path and logs_path are both [%s]", c.LogsPath)
	}
	return nil
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
