package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string

	// eBay Browse API credentials and search parameters
	EbayOAuthToken    string
	EbayMarketplaceID string
	EbayCategoryID    string
	SearchLimit       int
	HTTPTimeout       time.Duration

	// Ingestion tuning
	MaxConcurrency    int
	RequestsPerSecond float64
	IngestInterval    time.Duration

	// Optional Redis cache for computed averages
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "data/cards.db"),
		Port:        getEnv("PORT", "8080"),

		EbayOAuthToken:    getEnv("EBAY_OAUTH_TOKEN", ""),
		EbayMarketplaceID: getEnv("EBAY_MARKETPLACE_ID", "EBAY_US"),
		EbayCategoryID:    getEnv("EBAY_CATEGORY_ID", "261328"),
		SearchLimit:       getEnvInt("SEARCH_LIMIT", 200),
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 3),
		RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 1.0),
		IngestInterval:    time.Duration(getEnvInt("INGEST_INTERVAL_MINUTES", 60)) * time.Minute,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
