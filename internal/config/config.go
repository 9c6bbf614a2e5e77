package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"

	RelayLocal = "local"
	RelayRedis = "redis"
	RelayNATS  = "nats"
)

type Config struct {
	AppPort            string
	StoreDriver        string
	DbHost             string
	DbPort             string
	DbUser             string
	DbPassword         string
	DbName             string
	DbParams           string
	TrustedProxies     []string
	CorsAllowedOrigins []string
	TranslationFolder  string
	ShutdownTimeout    time.Duration

	NotifyRelay  string
	RedisAddr    string
	RedisChannel string
	NatsURL      string
	NatsSubject  string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreMySQL)),
		DbHost:             getEnv("MYSQL_HOST", "db"),
		DbPort:             getEnv("MYSQL_PORT", "3306"),
		DbUser:             getEnv("MYSQL_USER", "tasks"),
		DbPassword:         getEnv("MYSQL_PASSWORD", "tasks"),
		DbName:             getEnv("MYSQL_DATABASE", "tasks"),
		DbParams:           getEnv("MYSQL_PARAMS", "parseTime=true"),
		TrustedProxies:     parseList(os.Getenv("TRUSTED_PROXIES")),
		CorsAllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		TranslationFolder:  getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		NotifyRelay:        strings.ToLower(getEnv("NOTIFY_RELAY", RelayLocal)),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisChannel:       getEnv("REDIS_CHANNEL", "tasks:events"),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsSubject:        getEnv("NATS_SUBJECT", "tasks.events"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
