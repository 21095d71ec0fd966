package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr     string
	Env      string
	LogLevel string

	DatabaseURL string
	MongoURI    string
	MongoDB     string
	// Backends is the ordered storage fallback chain, e.g. postgres,mongo,memory.
	Backends []string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	CookieSecure      bool
	SessionTTL        time.Duration

	MaxBodyBytes       int
	CORSOrigins        string
	LoginRatePerMinute int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	cfg := Config{
		Addr:     getEnv("STORE_ADDR", ":8080"),
		Env:      getEnv("APP_ENV", EnvDevelopment),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoURI:    getEnv("MONGO_URI", ""),
		MongoDB:     getEnv("MONGO_DB", "giftstore"),
		Backends:    splitList(getEnv("STORAGE_BACKENDS", "postgres,mongo,memory")),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		CookieSecure:      getBool("COOKIE_SECURE", false),
		SessionTTL:        7 * 24 * time.Hour,

		MaxBodyBytes:       getInt("MAX_BODY_BYTES", 1<<20),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MINUTE", 5),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
