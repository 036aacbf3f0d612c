package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host                  string
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	AuthSecret            string
	AccessTokenTTLMinutes int
	ChatbotTTLSeconds     int
	DiaryBuffer           int
	LogLevel              string
	SeedAdminPassword     string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	chatTTL, err := strconv.Atoi(getEnv("CHATBOT_CACHE_TTL_SECONDS", "60"))
	if err != nil || chatTTL < 1 {
		chatTTL = 60
	}
	tokenTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	diaryBuffer, err := strconv.Atoi(getEnv("DIARY_BUFFER", "256"))
	if err != nil || diaryBuffer < 1 {
		diaryBuffer = 256
	}

	cfg := Config{
		Host:                  getEnv("APP_HOST", ""),
		Port:                  getEnv("APP_PORT", "8000"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		ChatbotTTLSeconds:     chatTTL,
		DiaryBuffer:           diaryBuffer,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SeedAdminPassword:     os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
