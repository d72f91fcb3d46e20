package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	StatusCacheTTL time.Duration

	SelfPingURL      string
	SelfPingDelay    time.Duration
	SelfPingInterval time.Duration

	QRSize int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		StatusCacheTTL: getEnvDuration("STATUS_CACHE_TTL", 5*time.Minute),

		SelfPingURL:      getEnv("SELF_PING_URL", getEnv("URL_automatica", "")),
		SelfPingDelay:    getEnvDuration("SELF_PING_DELAY", 30*time.Second),
		SelfPingInterval: getEnvDuration("SELF_PING_INTERVAL", 10*time.Minute),

		QRSize: getEnvInt("QR_SIZE", 370),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
