package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

type Config struct {
	Port      string `env:"PORT,       default=5001"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// SeedDemoData loads the demo accounts and catalog at startup.
	SeedDemoData bool     `env:"SEED_DEMO_DATA,     default=true"`
	CORSOrigins  []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Auth   AuthConfig
	Orders OrdersConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	// JWTSecret is required outside development. In development an empty value
	// is replaced by a random per-process key, so tokens do not survive restarts.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
}

type OrdersConfig struct {
	ShippingCost   float64       `env:"ORDER_SHIPPING_COST, default=15000"`
	TaxRate        float64       `env:"ORDER_TAX_RATE,      default=0.11"`
	AuditWorkers   int           `env:"AUDIT_WORKERS,       default=4"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,     default=24h"`
	// IdempotencyWait bounds how long a retry waits for the request holding its key.
	IdempotencyWait time.Duration `env:"IDEMPOTENCY_WAIT, default=5s"`
}

// MongoConfig configures the optional audit event sink. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=lewkins"`
}

// RedisConfig configures the optional idempotency store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load for main; it panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		c.Auth.JWTSecret = secret
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Orders.ShippingCost < 0 || c.Orders.TaxRate < 0 {
		return errors.New("ORDER_SHIPPING_COST and ORDER_TAX_RATE must not be negative")
	}
	if c.Orders.AuditWorkers < 1 {
		return errors.New("AUDIT_WORKERS must be at least 1")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
