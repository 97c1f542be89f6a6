package config

import (
	"fmt"
	"strings"
	"time"

	"merch_store_backend/pkg/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	RedisURL string
	CacheTTL time.Duration

	CORSAllowedOrigins []string

	JWTSecret   string
	JWTTTL      time.Duration
	AuthEnabled bool

	LogLevel  string
	LogPretty bool
	GinMode   string

	ShutdownTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	// Missing .env is fine outside of local development.
	_ = godotenv.Load()

	return &Config{
		Port: utils.Getenv("PORT", "8080"),

		DBHost:        utils.Getenv("DB_HOST", "localhost"),
		DBPort:        utils.Getenv("DB_PORT", "5432"),
		DBUser:        utils.Getenv("DB_USER", "merch_user"),
		DBPassword:    utils.Getenv("DB_PASSWORD", "merch_password"),
		DBName:        utils.Getenv("DB_NAME", "merch_store_db"),
		DBSSLMode:     utils.Getenv("DB_SSLMODE", "disable"),
		DBAutoMigrate: utils.GetenvBool("DB_AUTO_MIGRATE", true),

		RedisURL: utils.Getenv("REDIS_URL", ""),
		CacheTTL: time.Duration(utils.GetenvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		CORSAllowedOrigins: splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		JWTSecret:   utils.Getenv("JWT_SECRET", "change-me-merch-store-secret"),
		JWTTTL:      time.Duration(utils.GetenvInt("JWT_TTL_MINUTES", 60)) * time.Minute,
		AuthEnabled: utils.GetenvBool("AUTH_ENABLED", false),

		LogLevel:  utils.Getenv("LOG_LEVEL", "info"),
		LogPretty: utils.GetenvBool("LOG_PRETTY", true),
		GinMode:   utils.Getenv("GIN_MODE", ""),

		ShutdownTimeout: time.Duration(utils.GetenvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
