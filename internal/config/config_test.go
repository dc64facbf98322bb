package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("EVENT_STORE", "")

	cfg := Load()

	if cfg.Store != "postgres" {
		t.Fatalf("store = %s", cfg.Store)
	}

	if cfg.Env != "dev" || cfg.Port != 8080 {
		t.Fatalf("unexpected defaults env=%s port=%d", cfg.Env, cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}
	if cfg.WarmInterval >= cfg.CacheTTL {
		t.Fatalf("warm interval %v must be shorter than cache ttl %v", cfg.WarmInterval, cfg.CacheTTL)
	}
	if cfg.InitialPageSize != 8 || cfg.OverFetchFactor != 3 {
		t.Fatalf("unexpected listing defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("WARM_CITIES", "Москва, Казань ,,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "abc")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.DBURL != "postgres://u:p@db:5432/x" {
		t.Fatalf("db url = %s", cfg.DBURL)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.CacheTTL)
	}
	if len(cfg.WarmCities) != 2 || cfg.WarmCities[0] != "Москва" || cfg.WarmCities[1] != "Казань" {
		t.Fatalf("warm cities = %v", cfg.WarmCities)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("invalid int should fall back, got %d", cfg.RateLimitPerMinute)
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	if loc := (Config{TimeZone: "Nowhere/Special"}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
