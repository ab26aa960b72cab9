package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	KlingBaseURL       string
	UpstreamTimeout    time.Duration
	UpstreamAttempts   int
	JobStore           string
	JobStorePath       string
	JobRetention       time.Duration
	RedisAddr          string
	RedisPassword      string
	KeyStorePath       string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		KlingBaseURL:       getEnv("KLING_BASE_URL", "https://api.kie.ai"),
		UpstreamTimeout:    time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 45)),
		UpstreamAttempts:   getEnvInt("UPSTREAM_MAX_ATTEMPTS", 3),
		JobStore:           getEnv("JOB_STORE", "file"),
		JobStorePath:       getEnv("JOB_STORE_PATH", "data/jobmap.json"),
		JobRetention:       time.Hour * 24 * time.Duration(getEnvInt("JOB_RETENTION_DAYS", 7)),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		KeyStorePath:       getEnv("KEY_STORE_PATH", "data/apikey"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.JobStore {
	case "file", "redis", "memory":
	default:
		return nil, fmt.Errorf("JOB_STORE must be one of file, redis, memory; got %q", cfg.JobStore)
	}

	if cfg.UpstreamAttempts < 1 {
		return nil, fmt.Errorf("UPSTREAM_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
