package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultProviderBaseURL = "https://vs.ikick.de/imageservice"
	defaultStorefrontURL   = "http://localhost:4200"
	defaultHTTPAddr        = ":8080"
	defaultSimilarCacheTTL = 24 * time.Hour
	defaultSessionIdleTTL  = 30 * time.Minute
)

type Config struct {
	TelegramToken   string
	ProviderBaseURL string        // адрес сервиса распознавания, без завершающего "/"
	StorefrontURL   string        // адрес витрины для ссылок на страницу поиска
	HTTPAddr        string        // адрес HTTP API
	DatabaseURL     string        // DSN PostgreSQL для кэша похожих товаров (необязательно)
	SimilarCacheTTL time.Duration // время жизни записей кэша похожих товаров
	SessionIdleTTL  time.Duration // сессия без обращений дольше этого закрывается
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		ProviderBaseURL: strings.TrimRight(getEnv("VISUAL_SEARCH_PROVIDER_URL", defaultProviderBaseURL), "/"),
		StorefrontURL:   strings.TrimRight(getEnv("STOREFRONT_URL", defaultStorefrontURL), "/"),
		HTTPAddr:        getEnv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SimilarCacheTTL: defaultSimilarCacheTTL,
		SessionIdleTTL:  defaultSessionIdleTTL,
	}

	if v := os.Getenv("SIMILAR_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SIMILAR_CACHE_TTL: %w", err)
		}
		cfg.SimilarCacheTTL = ttl
	}

	if v := os.Getenv("SESSION_IDLE_TTL"); v != "" {
		idle, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SESSION_IDLE_TTL: %w", err)
		}
		if idle <= 0 {
			return nil, fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", idle)
		}
		cfg.SessionIdleTTL = idle
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
