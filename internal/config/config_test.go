package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CRYPTO_CURRENCY", "CRYPTO_PER_PAGE", "COINGECKO_BASE_URL",
		"COINGECKO_TIMEOUT", "WORKBOOK_PATH", "UPDATE_INTERVAL", "DB_DRIVER", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_DB", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Currency != "usd" || cfg.PerPage != 250 {
		t.Fatalf("currency/per_page: %q %d", cfg.Currency, cfg.PerPage)
	}
	if cfg.WorkbookPath != "Crypto.xlsx" {
		t.Fatalf("workbook path: %q", cfg.WorkbookPath)
	}
	if cfg.UpdateInterval != time.Hour {
		t.Fatalf("interval: %v", cfg.UpdateInterval)
	}
	if cfg.CoinGeckoTimeout != 0 {
		t.Fatalf("timeout should default to the transport's: %v", cfg.CoinGeckoTimeout)
	}
	if cfg.DBDriver != "sqlite3" || cfg.DatabaseURL != "database/runs.db" {
		t.Fatalf("db: %q %q", cfg.DBDriver, cfg.DatabaseURL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CRYPTO_CURRENCY", "EUR")
	t.Setenv("CRYPTO_PER_PAGE", "50")
	t.Setenv("UPDATE_INTERVAL", "15m")
	t.Setenv("COINGECKO_TIMEOUT", "45s")
	t.Setenv("COINGECKO_BASE_URL", "http://localhost:9000/api/")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Currency != "eur" || cfg.PerPage != 50 || cfg.UpdateInterval != 15*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.CoinGeckoTimeout != 45*time.Second {
		t.Fatalf("timeout: %v", cfg.CoinGeckoTimeout)
	}
	if cfg.CoinGeckoBaseURL != "http://localhost:9000/api" {
		t.Fatalf("base url: %q", cfg.CoinGeckoBaseURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string][2]string{
		"per page not a number": {"CRYPTO_PER_PAGE", "muchos"},
		"per page zero":         {"CRYPTO_PER_PAGE", "0"},
		"bad interval":          {"UPDATE_INTERVAL", "cada hora"},
		"negative interval":     {"UPDATE_INTERVAL", "-1m"},
		"unknown driver":        {"DB_DRIVER", "mysql"},
		"postgres without url":  {"DB_DRIVER", "postgres"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
