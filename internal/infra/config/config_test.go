package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Env != "development" {
		t.Fatalf("expected development env, got %q", cfg.App.Env)
	}
	if cfg.JWT.Secret != devJWTSecret {
		t.Fatalf("expected dev secret fallback, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.TokenTTL != 720*time.Hour {
		t.Fatalf("expected 720h token ttl, got %v", cfg.JWT.TokenTTL)
	}
	if cfg.Uploads.Directory == "" {
		t.Fatal("expected default uploads directory")
	}
	if cfg.RateLimit.LoginMaxAttempts != 5 {
		t.Fatalf("expected 5 login attempts, got %d", cfg.RateLimit.LoginMaxAttempts)
	}
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("SAFEHEAVEN_APP_ENV", "production")
	t.Setenv("SAFEHEAVEN_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing jwt secret to fail in production")
	}
}

func TestLoadSecretFromEnv(t *testing.T) {
	t.Setenv("SAFEHEAVEN_APP_ENV", "production")
	t.Setenv("SAFEHEAVEN_JWT_SECRET", "super-secret-value")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.Secret != "super-secret-value" {
		t.Fatalf("expected env secret, got %q", cfg.JWT.Secret)
	}
}
