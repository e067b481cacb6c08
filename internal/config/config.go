package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	LogLevel   string
	DBUrl      string
	JWTSecret  string
	ServerPort string

	RedisAddr     string
	RedisPassword string

	// Evolution WhatsApp gateway. Each salon gets its own instance,
	// named <prefix>-<salonID>.
	WhatsAppBaseURL        string
	WhatsAppAPIKey         string
	WhatsAppInstancePrefix string
	WhatsAppTimeout        time.Duration

	// Public URL the gateway posts events back to; empty skips webhook
	// registration.
	WebhookURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DBUrl:      os.Getenv("DATABASE_URL"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		WhatsAppBaseURL:        getEnv("EVOLUTION_API_URL", "http://localhost:8081"),
		WhatsAppAPIKey:         getEnv("EVOLUTION_API_KEY", ""),
		WhatsAppInstancePrefix: getEnv("EVOLUTION_INSTANCE_PREFIX", "agendusalao"),
		WhatsAppTimeout:        getDuration("EVOLUTION_TIMEOUT", 30*time.Second),

		WebhookURL: getEnv("WEBHOOK_URL", ""),
	}

	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
