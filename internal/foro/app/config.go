package app

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultSecretKey   = "esta-es-una-clave-secreta-muy-segura"
	DefaultDatabaseURL = "file:foro.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
)

type Config struct {
	SecretKey           string        // Session signing key (default: development key)
	DatabaseURL         string        // SQLite connection string (default: ./foro.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SessionTTL          time.Duration // Lifetime of a login session (default: 30 days)
	SessionCookieSecure bool          // Mark the session cookie Secure (default: false)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 5000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SecretKey:           getEnvOrDefault("SECRET_KEY", DefaultSecretKey),
		DatabaseURL:         getEnvOrDefault("DATABASE_URL", DefaultDatabaseURL),
		PepperFile:          getEnvOrDefault("FORO_PEPPER_FILE", "pepper"),
		SessionTTL:          getEnvDurationOrDefault("SESSION_TTL", 30*24*time.Hour),
		SessionCookieSecure: getEnvBoolOrDefault("SESSION_COOKIE_SECURE", false),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
