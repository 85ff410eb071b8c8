package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int32
	LogLevel    string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ViewCacheTTL  time.Duration

	LoginMaxAttempts int
	LoginWindow      time.Duration

	SummaryRefreshInterval time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

// Load reads an optional .env file and then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logg.Debug("No .env file found, relying on system environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure: getBool("COOKIE_SECURE", false),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		ViewCacheTTL:  getDuration("VIEW_CACHE_TTL", time.Minute),

		LoginMaxAttempts: getInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      getDuration("LOGIN_WINDOW", 15*time.Minute),

		SummaryRefreshInterval: getDuration("SUMMARY_REFRESH_INTERVAL", 5*time.Minute),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),
		MinioBucket:    getEnv("MINIO_BUCKET", "invoices"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
