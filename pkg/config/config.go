package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries runtime settings, all sourced from the environment.
type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	JWTSecret               string
	AuthProvider            string
	FirebaseCredentialsPath string
	RateLimitWindow         time.Duration
	RateLimitMax            int
	RequestTimeout          time.Duration
	MaintenanceInterval     time.Duration
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:               getEnv("JWT_SECRET", "dev-secret-change-me"),
		AuthProvider:            getEnv("AUTH_PROVIDER", "jwt"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		RateLimitWindow:         getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:            getEnvInt("RATE_LIMIT_MAX", 100),
		RequestTimeout:          getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		MaintenanceInterval:     getEnvDuration("MAINTENANCE_INTERVAL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
