package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa la configuracion leida de variables de entorno
type Config struct {
	Port              string
	Currency          string
	PerPage           int
	CoinGeckoBaseURL  string
	CoinGeckoTimeout  time.Duration
	WorkbookPath      string
	UpdateInterval    time.Duration
	DBDriver          string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTSecret         string
	AdminPasswordHash string
	CORSOrigins       []string
}

const (
	DefaultCurrency         = "usd"
	DefaultPerPage          = 250
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	DefaultWorkbookPath     = "Crypto.xlsx"
)

// Load lee la configuracion. Se espera que godotenv ya haya cargado el .env
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Currency:          strings.ToLower(getEnv("CRYPTO_CURRENCY", DefaultCurrency)),
		CoinGeckoBaseURL:  strings.TrimRight(getEnv("COINGECKO_BASE_URL", DefaultCoinGeckoBaseURL), "/"),
		WorkbookPath:      getEnv("WORKBOOK_PATH", DefaultWorkbookPath),
		DBDriver:          getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.PerPage, err = getInt("CRYPTO_PER_PAGE", DefaultPerPage); err != nil {
		return nil, err
	}
	if cfg.PerPage <= 0 {
		return nil, fmt.Errorf("CRYPTO_PER_PAGE debe ser mayor a 0, se recibió %d", cfg.PerPage)
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CoinGeckoTimeout, err = getDuration("COINGECKO_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.UpdateInterval, err = getDuration("UPDATE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.UpdateInterval < 0 {
		return nil, fmt.Errorf("UPDATE_INTERVAL no puede ser negativo")
	}

	switch cfg.DBDriver {
	case "sqlite3":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "database/runs.db"
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL es obligatorio con DB_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER no soportado: %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("valor inválido para %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("valor inválido para %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
