package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "FACTURO"

// Config holds all application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Log          LogConfig          `mapstructure:"log"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Storage      StorageConfig      `mapstructure:"storage"`
	PDF          PDFConfig          `mapstructure:"pdf"`
	Invoicing    InvoicingConfig    `mapstructure:"invoicing"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Realtime     RealtimeConfig     `mapstructure:"realtime"`
	Swagger      SwaggerConfig      `mapstructure:"swagger"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Port     string `mapstructure:"port"`
	Timezone string `mapstructure:"timezone"` // IANA zone used for document dates
	// AdminEmails are promoted to admin when they sign up
	AdminEmails []string `mapstructure:"admin_emails"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // in minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string        `mapstructure:"secret"`
	RefreshSecret          string        `mapstructure:"refresh_secret"`
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string        `mapstructure:"issuer"`
	MaxRefreshCount        int           `mapstructure:"max_refresh_count"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

// CacheConfig holds list cache settings
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	ListTTL time.Duration `mapstructure:"list_ttl"`
	RoleTTL time.Duration `mapstructure:"role_ttl"`
}

// StorageConfig holds blob store settings for logos, signatures, stamps and payment proofs
type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // s3 or memory
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // custom endpoint for S3-compatible stores
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	MaxUploadSize   int64  `mapstructure:"max_upload_size"`
}

// PDFConfig holds headless Chrome settings
type PDFConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RemoteURL     string        `mapstructure:"remote_url"` // DevTools websocket of a running browser; empty starts a local one
	ExecPath      string        `mapstructure:"exec_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// InvoicingConfig holds document numbering and status settings
type InvoicingConfig struct {
	StrictStatusTransitions bool `mapstructure:"strict_status_transitions"`
	NumberRetries           int  `mapstructure:"number_retries"`
}

// SubscriptionConfig holds subscription gate settings
type SubscriptionConfig struct {
	GateEnabled       bool `mapstructure:"gate_enabled"`
	DefaultPlanMonths int  `mapstructure:"default_plan_months"`
}

// SwaggerConfig controls the /swagger API documentation endpoint
type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"` // require a bearer token
	AllowedIPs  []string `mapstructure:"allowed_ips"`  // IPs or CIDRs; empty allows all
}

// RealtimeConfig holds SSE and pub/sub fan-out settings
type RealtimeConfig struct {
	Channel           string        `mapstructure:"channel"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	MaxClients        int           `mapstructure:"max_clients"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`     // 0.0-1.0
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"` // export zap logs over OTLP next to stdout

	// Continuous profiling (Pyroscope)
	ProfilingEnabled          bool   `mapstructure:"profiling_enabled"`
	ProfilerServerAddress     string `mapstructure:"profiling_server_address"`
	ProfilerBasicAuthUser     string `mapstructure:"profiling_basic_auth_user"`
	ProfilerBasicAuthPassword string `mapstructure:"profiling_basic_auth_password"`
	ProfilerContention        bool   `mapstructure:"profiling_contention"` // mutex and block profiles
}

// defaults lists every key Load knows. AutomaticEnv only reaches keys
// viper has seen, so keys without a useful default are listed empty.
var defaults = map[string]any{
	"app.name":         "facturo-backend",
	"app.env":          "development",
	"app.port":         "8080",
	"app.timezone":     "Europe/Paris",
	"app.admin_emails": []string{},

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "facturo",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.access_token_expiration":  15 * time.Minute,
	"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
	"jwt.issuer":                   "facturo-backend",
	"jwt.max_refresh_count":        10,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout": 15 * time.Second,
	// PDF export renders in a browser
	"http.write_timeout":            time.Minute,
	"http.idle_timeout":             time.Minute,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            int64(10 << 20),
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	// no origin is allowed until one is configured
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},

	"cache.enabled":  false,
	"cache.list_ttl": 5 * time.Minute,
	"cache.role_ttl": 10 * time.Minute,

	"storage.driver":            "memory",
	"storage.bucket":            "facturo-assets",
	"storage.region":            "eu-west-3",
	"storage.endpoint":          "",
	"storage.access_key_id":     "",
	"storage.secret_access_key": "",
	"storage.public_base_url":   "",
	"storage.use_path_style":    false,
	"storage.max_upload_size":   int64(5 << 20),

	"pdf.enabled":        true,
	"pdf.remote_url":     "",
	"pdf.exec_path":      "",
	"pdf.timeout":        30 * time.Second,
	"pdf.max_concurrent": 4,

	"invoicing.strict_status_transitions": false,
	"invoicing.number_retries":            5,

	"subscription.gate_enabled":        true,
	"subscription.default_plan_months": 12,

	"realtime.channel":            "facturo:events",
	"realtime.heartbeat_interval": 30 * time.Second,
	"realtime.max_clients":        1000,

	"swagger.enabled":      true,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":                       false,
	"telemetry.collector_endpoint":            "localhost:4317",
	"telemetry.sampling_ratio":                1.0,
	"telemetry.service_name":                  "facturo-backend",
	"telemetry.insecure":                      false,
	"telemetry.metrics_enabled":               false,
	"telemetry.metrics_interval":              time.Minute,
	"telemetry.db_trace_enabled":              false,
	"telemetry.db_log_full_sql":               false,
	"telemetry.db_slow_query_threshold":       200 * time.Millisecond,
	"telemetry.logs_enabled":                  false,
	"telemetry.profiling_enabled":             false,
	"telemetry.profiling_server_address":      "http://localhost:4040",
	"telemetry.profiling_basic_auth_user":     "",
	"telemetry.profiling_basic_auth_password": "",
	"telemetry.profiling_contention":          false,
}

// Load reads config.toml from the working directory or /app, then lets
// FACTURO_* environment variables override any key (database.password is
// FACTURO_DATABASE_PASSWORD). A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	db := c.Database
	switch {
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	case c.Storage.Driver != "s3" && c.Storage.Driver != "memory":
		return fmt.Errorf("storage.driver must be s3 or memory, got %q", c.Storage.Driver)
	case c.Invoicing.NumberRetries < 1:
		return errors.New("invoicing.number_retries must be at least 1")
	case c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1:
		return fmt.Errorf("telemetry.sampling_ratio must be within [0, 1], got %g", c.Telemetry.SamplingRatio)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q is not a valid IANA zone: %w", c.App.Timezone, err)
	}
	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction refuses settings that are only safe on a laptop.
func (c *Config) validateProduction() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" || c.Database.Password == "postgres" {
		return errors.New("database.password must be set to a non-default value in production")
	}
	if c.Database.SSLMode == "disable" {
		return errors.New("database.sslmode cannot be 'disable' in production")
	}
	if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
		return errors.New("http.cors_allow_origins cannot contain '*' in production")
	}
	if c.Storage.Driver == "memory" {
		return errors.New("storage.driver 'memory' is not allowed in production")
	}
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		return errors.New("swagger must be disabled, require authentication or restrict allowed_ips in production")
	}
	if c.Telemetry.DBLogFullSQL {
		return errors.New("telemetry.db_log_full_sql must be false in production")
	}
	return nil
}

// Location returns the configured document timezone
func (a *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
