package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	DatabaseURL     string
	ScanStore       string
	SQLitePath      string
	ModelPath       string
	ModelSHA256     string
	RedisAddr       string
	CacheTTL        time.Duration
	OFFBaseURL      string
	OFFTimeout      time.Duration
	MigrateOnStart  bool
	RawArchiveDir   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env.local", ".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	store := normalizeStore(getEnv("SCAN_STORE", "auto"))

	if store == "postgres" && dbURL == "" {
		log.Printf("DATABASE_URL is required when SCAN_STORE=postgres")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		ScanStore:       store,
		SQLitePath:      getEnv("SQLITE_PATH", "./data/nutriscan.db"),
		ModelPath:       getEnv("MODEL_PATH", ""),
		ModelSHA256:     getEnv("MODEL_SHA256", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CacheTTL:        secondsEnv("CACHE_TTL_SECONDS", 15*time.Minute),
		OFFBaseURL:      getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org"),
		OFFTimeout:      secondsEnv("OFF_TIMEOUT_SECONDS", 10*time.Second),
		MigrateOnStart:  boolEnv("MIGRATE_ON_START", true),
		RawArchiveDir:   getEnv("RAW_ARCHIVE_DIR", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func secondsEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		log.Printf("ignoring invalid %s=%q", key, raw)
		return def
	}
	return time.Duration(secs) * time.Second
}

func boolEnv(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("ignoring invalid %s=%q", key, raw)
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "memory":
		return "memory"
	case "sqlite":
		return "sqlite"
	case "postgres", "pg":
		return "postgres"
	default:
		return "auto"
	}
}
