// config.go
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	RabbitURL string

	JWTSecret string
	TokenTTL  time.Duration

	// Scheduler settings. ScanInterval is how often the order scan pass runs;
	// the three thresholds are the minimum age per transition edge.
	ScanInterval        time.Duration
	PendingToProcessing time.Duration
	ProcessingToShipped time.Duration
	ShippedToDelivered  time.Duration

	ProductCacheTTL time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "food_ordering"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RabbitURL: getEnv("RABBIT_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		ScanInterval:        getDuration("ORDER_SCAN_INTERVAL", 2*time.Minute),
		PendingToProcessing: getDuration("PENDING_TO_PROCESSING_AFTER", 2*time.Minute),
		ProcessingToShipped: getDuration("PROCESSING_TO_SHIPPED_AFTER", 5*time.Minute),
		ShippedToDelivered:  getDuration("SHIPPED_TO_DELIVERED_AFTER", 10*time.Minute),

		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
