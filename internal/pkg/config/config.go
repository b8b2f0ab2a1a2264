package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// devTokenSecret signs tokens outside production when JWT_SECRET is unset.
// Never use it in production; Validate rejects that case.
const devTokenSecret = "dev-only-insecure-secret-change-me"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

var ErrMissingSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED, default=true"`
	AuditWorkers     int  `env:"AUDIT_WORKERS,      default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=inventory"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
	SocketTimeout  time.Duration `env:"MONGO_SOCKET_TIMEOUT,  default=30s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
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
	return &cfg, nil
}

// Validate checks the rules that cannot be expressed with defaults.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// RateLimitActive reports whether the fixed-window limiters are mounted.
func (c *Config) RateLimitActive() bool {
	return c.RateLimitEnabled && c.Env != EnvTest
}

// TokenSecret returns the signing secret, falling back to the development
// secret with a warning when none is configured outside production.
func (c *Config) TokenSecret(log zerolog.Logger) string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	log.Warn().Str("env", c.Env).Msg("JWT_SECRET not set, using insecure development secret")
	return devTokenSecret
}
