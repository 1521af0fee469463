package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the service configuration, one block per
// subsystem.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	Event       EventConfig
	HTTP        HTTPConfig
	Purchase    PurchaseConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig describes the Postgres connection and pool sizing.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token validation settings.
type JWTConfig struct {
	Secret string
	Issuer string
}

// EventConfig tunes the outbox relay.
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
}

// HTTPConfig covers server timeouts, body limits, rate limiting and
// CORS.
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// PurchaseConfig selects purchase document behavior.
type PurchaseConfig struct {
	ReceiveAdjustsStock bool
}

// IdempotencyConfig controls Idempotency-Key replay protection.
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// TelemetryConfig wires the OpenTelemetry exporters.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0 to 1.0
	ServiceName       string
	Insecure          bool // plaintext transport, development only
	SpanProfiles      bool // tag CPU profiles with span IDs, needs a running profiler
}

// Load reads config.toml and the environment. A BIZLEDGER_ prefixed
// environment variable wins over the file, the file wins over the
// built-in defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BIZLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Purchase receiving credits stock unless explicitly turned off
	v.SetDefault("purchase.receive_adjusts_stock", true)
	v.SetDefault("idempotency.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Event: EventConfig{
			ProcessorEnabled: v.GetBool("event.processor_enabled"),
			BatchSize:        v.GetInt("event.batch_size"),
			PollInterval:     v.GetDuration("event.poll_interval"),
			MaxRetries:       v.GetInt("event.max_retries"),
			CleanupEnabled:   v.GetBool("event.cleanup_enabled"),
			CleanupRetention: v.GetDuration("event.cleanup_retention"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Purchase: PurchaseConfig{
			ReceiveAdjustsStock: v.GetBool("purchase.receive_adjusts_stock"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			SpanProfiles:      v.GetBool("telemetry.span_profiles"),
		},
	}

	cfg.fillDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fillStr(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func fillInt(field *int, def int) {
	if *field == 0 {
		*field = def
	}
}

func fillDur(field *time.Duration, def time.Duration) {
	if *field == 0 {
		*field = def
	}
}

// fillDefaults completes whatever the file and environment left unset.
// Zero counts as unset for the numeric fields, none of them has a
// meaningful zero.
func (c *Config) fillDefaults() {
	fillStr(&c.App.Name, "bizledger-backend")
	fillStr(&c.App.Env, "development")
	fillStr(&c.App.Port, "8080")

	fillStr(&c.Database.Host, "localhost")
	fillInt(&c.Database.Port, 5432)
	fillStr(&c.Database.User, "postgres")
	fillStr(&c.Database.DBName, "bizledger")
	fillStr(&c.Database.SSLMode, "disable")
	fillInt(&c.Database.MaxOpenConns, 25)
	fillInt(&c.Database.MaxIdleConns, 5)
	fillInt(&c.Database.ConnMaxLifetime, 60)
	fillInt(&c.Database.ConnMaxIdleTime, 30)

	fillStr(&c.Redis.Host, "localhost")
	fillInt(&c.Redis.Port, 6379)

	fillStr(&c.JWT.Issuer, "bizledger-backend")

	fillStr(&c.Log.Level, "info")
	fillStr(&c.Log.Format, "console")
	fillStr(&c.Log.Output, "stdout")

	fillInt(&c.Event.BatchSize, 100)
	fillDur(&c.Event.PollInterval, 5*time.Second)
	fillInt(&c.Event.MaxRetries, 5)
	fillDur(&c.Event.CleanupRetention, 168*time.Hour)

	fillDur(&c.HTTP.ReadTimeout, 15*time.Second)
	fillDur(&c.HTTP.WriteTimeout, 15*time.Second)
	fillDur(&c.HTTP.IdleTimeout, 60*time.Second)
	fillInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	if c.HTTP.MaxBodySize == 0 {
		c.HTTP.MaxBodySize = 10 << 20
	}
	fillInt(&c.HTTP.RateLimitRequests, 100)
	fillDur(&c.HTTP.RateLimitWindow, time.Minute)

	// CORS origins deliberately get no fallback. An empty list allows
	// no cross-origin requests until someone configures them.
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"}
	}

	fillDur(&c.Idempotency.TTL, 24*time.Hour)

	fillStr(&c.Telemetry.CollectorEndpoint, "localhost:4317")
	if c.Telemetry.SamplingRatio == 0 {
		c.Telemetry.SamplingRatio = 1.0
	}
	fillStr(&c.Telemetry.ServiceName, "bizledger-backend")
}

// validate rejects configurations that would run but misbehave. The
// production checks stop the server from coming up with development
// credentials.
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN renders the Postgres connection URL. Credentials go through
// url.UserPassword so passwords with reserved characters survive.
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
