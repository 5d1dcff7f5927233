// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey   string
	SessionTTL  time.Duration
	// IdleTimeout - сессия без запросов дольше этого срока закрывается.
	IdleTimeout time.Duration
}

// CafeConfig - координаты доски Naver Cafe, куда публикуются заявки.
type CafeConfig struct {
	CafeID string
	MenuID string
}

// OfflineCacheConfig - кеш статики консоли. UpstreamURL - откуда берутся ресурсы.
type OfflineCacheConfig struct {
	Version     string
	TTL         time.Duration
	UpstreamURL string
}

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Cafe     CafeConfig
	Offline  OfflineCacheConfig
	LogFile  string
	LogDebug bool
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:   getEnv("JWT_SECRET_KEY", "testpark-console-dev-secret"),
			SessionTTL:  time.Hour * 12,
			IdleTimeout: time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 120)) * time.Minute,
		},
		Cafe: CafeConfig{
			CafeID: getEnv("NAVER_CAFE_ID", "29829680"),
			MenuID: getEnv("NAVER_CAFE_MENU_ID", "26"),
		},
		Offline: OfflineCacheConfig{
			Version:     getEnv("CACHE_VERSION", "testpark-v2"),
			TTL:         time.Hour * 24 * 7,
			UpstreamURL: strings.TrimRight(getEnv("ASSET_BASE_URL", "http://localhost:5173"), "/"),
		},
		LogFile:  getEnv("LOG_FILE", "./logs/app.log"),
		LogDebug: getEnv("LOG_LEVEL", "debug") == "debug",
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Предупреждение: %s=%q не является числом, используется %d", key, raw, fallback)
		return fallback
	}
	return v
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
