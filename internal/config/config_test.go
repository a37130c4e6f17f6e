package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
}

func TestLoadTrackerDefaults(t *testing.T) {
	cfg := LoadTracker()
	if cfg.APIBaseURL == "" {
		t.Fatalf("expected default api url")
	}
	if cfg.StateDir == "" {
		t.Fatalf("expected default state dir")
	}
	if cfg.Platform != "android" {
		t.Fatalf("expected default platform")
	}
	if !cfg.LocationGrant {
		t.Fatalf("expected grant default true")
	}
}

func TestLoadTrackerEnvOverrides(t *testing.T) {
	t.Setenv("RIDETRAIL_API_URL", "http://api.example")
	t.Setenv("RIDETRAIL_PLATFORM", "ios")
	t.Setenv("RIDETRAIL_THEME", "dark")

	cfg := LoadTracker()
	if cfg.APIBaseURL != "http://api.example" {
		t.Fatalf("expected override api url")
	}
	if cfg.Platform != "ios" {
		t.Fatalf("expected override platform")
	}
	if cfg.Theme != "dark" {
		t.Fatalf("expected override theme")
	}
}
