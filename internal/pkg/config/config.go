package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogFile   string        `env:"LOG_FILE"`

	Access  AccessConfig
	Billing BillingConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AccessConfig struct {
	// AdminOverride lets super-admin sessions through every role check.
	AdminOverride bool   `env:"AUTHZ_ADMIN_OVERRIDE,  default=false"`
	FallbackRoute string `env:"ACCESS_FALLBACK_ROUTE, default=/"`
	MenuFile      string `env:"MENU_FILE"`
}

type BillingConfig struct {
	IntervalDays int `env:"INSTALLMENT_INTERVAL_DAYS, default=30"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" && c.Env != "development" && c.Env != "test" {
		return fmt.Errorf("config: JWT_SECRET is required when ENV=%s", c.Env)
	}
	if c.Billing.IntervalDays < 1 {
		return fmt.Errorf("config: INSTALLMENT_INTERVAL_DAYS must be positive, got %d", c.Billing.IntervalDays)
	}
	if c.Audit.Workers < 1 {
		return fmt.Errorf("config: AUDIT_WORKERS must be positive, got %d", c.Audit.Workers)
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
