package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs, constructed once in main and
// passed down explicitly.
type Config struct {
	Port     string
	MongoURI string
	Database string

	JWTSecret string

	PaymentAPIURL string
	PaymentKey    string
	PaymentSecret string
}

// Load reads .env when present, then the environment.
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		Port:     getEnvOrDefault("PORT", "5000"),
		MongoURI: getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		Database: getEnvOrDefault("MONGODB_DATABASE", "shopping-mall"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "your-secret-key"),

		PaymentAPIURL: getEnvOrDefault("IMP_API_URL", ""),
		PaymentKey:    getEnvOrDefault("IMP_KEY", ""),
		PaymentSecret: getEnvOrDefault("IMP_SECRET", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
