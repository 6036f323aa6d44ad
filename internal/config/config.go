package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Storage     StorageConfig
	SMS         SMSConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Tracing     TracingConfig
	Jobs        JobsConfig
	Templates   TemplatesConfig
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	SeedOnStart bool   `env:"SEED_ON_START" envDefault:"false"`
}

type ServerConfig struct {
	Host    string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"SERVER_PORT" envDefault:"8080"`
	BaseURL string `env:"SERVER_BASE_URL" envDefault:"http://localhost:8080"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type StorageConfig struct {
	Backend            string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL        string `env:"DATABASE_URL"`
	MaxConnections     int32  `env:"DATABASE_MAX_CONNECTIONS" envDefault:"25"`
	MigrationsPath     string `env:"DATABASE_MIGRATIONS_PATH"`
	SQLitePath         string `env:"SQLITE_PATH" envDefault:"glee.db"`
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`
}

type SMSConfig struct {
	Enabled             bool   `env:"SMS_ENABLED" envDefault:"false"`
	AccountSID          string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken           string `env:"TWILIO_AUTH_TOKEN"`
	MessagingServiceSID string `env:"TWILIO_MESSAGING_SERVICE_SID"`
	SenderID            string `env:"TWILIO_SENDER_ID"`
	PhoneNumber         string `env:"TWILIO_PHONE_NUMBER"`
	Concurrency         int    `env:"SMS_CONCURRENCY" envDefault:"4"`
}

type CORSConfig struct {
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowAllOrigins bool
}

type RateLimitConfig struct {
	PerMinute         int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`
}

type TracingConfig struct {
	Enabled      bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Exporter     string  `env:"TRACING_EXPORTER" envDefault:"stdout"`
	ServiceName  string  `env:"TRACING_SERVICE_NAME" envDefault:"glee"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRate   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

type JobsConfig struct {
	Enabled               bool `env:"JOBS_ENABLED" envDefault:"true"`
	RecurringHorizonDays  int  `env:"JOBS_RECURRING_HORIZON_DAYS" envDefault:"0"`
	SMSDispatchMaxAttempt int  `env:"JOBS_SMS_DISPATCH_MAX_ATTEMPTS" envDefault:"3"`
}

type TemplatesConfig struct {
	DefaultHour int `env:"TEMPLATES_DEFAULT_HOUR" envDefault:"17"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse()
}

func parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.CORS.AllowedOrigins = trimEmpty(cfg.CORS.AllowedOrigins)
	if !cfg.IsProduction() && len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowAllOrigins = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendFirestore:
		if c.Storage.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (must be postgres, sqlite or firestore)", c.Storage.Backend)
	}

	if c.SMS.Enabled {
		if c.SMS.AccountSID == "" || c.SMS.AuthToken == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required when SMS_ENABLED=true")
		}
		if c.SMS.MessagingServiceSID == "" && c.SMS.SenderID == "" && c.SMS.PhoneNumber == "" {
			return fmt.Errorf("one of TWILIO_MESSAGING_SERVICE_SID, TWILIO_SENDER_ID or TWILIO_PHONE_NUMBER is required when SMS_ENABLED=true")
		}
	}
	if c.SMS.Concurrency < 1 {
		return fmt.Errorf("SMS_CONCURRENCY must be at least 1")
	}

	if c.IsProduction() && len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production")
	}
	if c.Templates.DefaultHour < 0 || c.Templates.DefaultHour > 23 {
		return fmt.Errorf("TEMPLATES_DEFAULT_HOUR must be between 0 and 23")
	}
	return nil
}

func trimEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
