package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the panel's runtime configuration.
type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// ShopServiceURL is the base URL of the remote inventory/sales
	// service the panel talks to. The service is authoritative for
	// every product record; the panel never stores catalog data.
	ShopServiceURL     string
	ShopServiceTimeout time.Duration

	// DataDir holds the operator's draft carts between sessions.
	DataDir string
}

// NewConfig loads configuration from the environment, with a .env file
// looked up in the working directory and up to two parents.
func NewConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:                getEnv("ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnvInt("PORT", 4000),
		ShopServiceURL:     getEnv("SHOP_SERVICE_URL", "http://localhost:8000"),
		ShopServiceTimeout: getEnvDuration("SHOP_SERVICE_TIMEOUT", 15*time.Second),
		DataDir:            getEnv("DATA_DIR", "./data"),
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.ShopServiceURL == "" {
		return nil, fmt.Errorf("SHOP_SERVICE_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
