package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.StoreBackend != "mongo" {
		t.Fatalf("expected mongo backend by default, got %q", cfg.StoreBackend)
	}
	if cfg.Auth.AdminSecret != "" {
		t.Fatalf("admin secret must default to empty")
	}
	if cfg.Mongo.Database != "bookstore" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadFrom_RequiresJWTSecret(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"ADMIN_SECRET_KEY": "open-sesame",
		"TOKEN_TTL":        "90m",
		"ENV":              "production",
		"REDIS_DB":         "2",
	}))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Auth.AdminSecret != "open-sesame" || cfg.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.IsDevelopment() || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadFrom_RejectsBadBcryptCost(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  "s3cret",
		"BCRYPT_COST": "2",
	}))
	if err == nil {
		t.Fatal("expected error for bcrypt cost below minimum")
	}
}

func TestLoadClient(t *testing.T) {
	cfg, err := LoadClient(context.Background(), envconfig.MapLookuper(map[string]string{
		"BOOKSTORE_STATE_FILE": "/tmp/state.json",
	}))
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" || cfg.StateFile != "/tmp/state.json" {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
}

func TestLoadFrom_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"STORE_BACKEND": "postgres",
	}))
	if err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}
