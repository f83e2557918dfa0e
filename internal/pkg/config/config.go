package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// StoreBackend selects "mongo" or "memory". Memory keeps everything in
	// process and skips Redis; it is meant for local development.
	StoreBackend string `env:"STORE_BACKEND, default=mongo"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	// AdminSecret is the escalation secret accepted at signup. Empty disables
	// that path; existing admins can still promote users.
	AdminSecret string `env:"ADMIN_SECRET_KEY"`
	BcryptCost  int    `env:"BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookstore"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// ClientConfig configures the bookstore CLI.
type ClientConfig struct {
	APIURL    string `env:"BOOKSTORE_API_URL,    default=http://localhost:8080"`
	StateFile string `env:"BOOKSTORE_STATE_FILE"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom resolves the server configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.StoreBackend != "mongo" && cfg.StoreBackend != "memory" {
		return nil, fmt.Errorf("STORE_BACKEND must be mongo or memory, got %q", cfg.StoreBackend)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	return &cfg, nil
}

func LoadClient(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
