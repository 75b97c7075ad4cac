// apps/go-server/internal/config/config.go
//
// Environment-driven configuration. main loads `.env` with godotenv first, so
// values may come from the file or the process environment. SYMBOLS_FILE is
// read by the symbols package itself.
//
//	PORT               listen port                        (5175)
//	LOG_LEVEL          zerolog level                      (info)
//	DB_PATH            SQLite file; empty keeps memory    ("")
//	JWT_SECRET         HS256 signing key                  (dev_secret_change_me)
//	JWT_EXPIRES_DAYS   token lifetime in days             (14)
//	CLIENT_ORIGIN      CORS origin                        (http://localhost:5173)
//	DAILY_SALT         salt for daily board seeds         (local_dev_salt)
//	GRID_MAX_MISTAKES  mistakes before a grid game fails  (3)

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	LogLevel        string
	DBPath          string
	JWTSecret       string
	JWTExpires      time.Duration
	ClientOrigin    string
	DailySalt       string
	GridMaxMistakes int
}

// Load reads the environment, applying defaults for anything unset.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "5175"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          os.Getenv("DB_PATH"),
		JWTSecret:       getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpires:      time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		GridMaxMistakes: envInt("GRID_MAX_MISTAKES", 3),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive integer, falling back to def.
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}
