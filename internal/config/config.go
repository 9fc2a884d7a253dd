package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrMissingBackendURL is reported when neither BACKEND_URL nor
// VITE_BACKEND_URL is set.
var ErrMissingBackendURL = errors.New("backend URL is not configured (set BACKEND_URL)")

type Config struct {
	Port           string
	BackendURL     string
	BackendTimeout time.Duration
	CacheTTL       time.Duration
	MongoURI       string
	MongoDB        string
	DeliveryFee    decimal.Decimal
	MapsAPIKey     string
	CORSOrigins    []string
	GinMode        string
}

// LoadConfig reads envFile when it exists and falls back to the process
// environment otherwise.
func LoadConfig(envFile string, log *zap.Logger) *Config {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			log.Warn("error loading env file", zap.String("file", envFile), zap.Error(err))
		} else {
			log.Info("env file loaded", zap.String("file", envFile))
		}
	} else {
		log.Info("using system environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", getEnv("VITE_BACKEND_URL", "")), "/"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 10*time.Second, log),
		CacheTTL:       getDuration("CACHE_TTL", 2*time.Minute, log),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "storefront"),
		DeliveryFee:    getDecimal("DELIVERY_FEE", decimal.Zero, log),
		MapsAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		GinMode:        getEnv("GIN_MODE", "release"),
	}
	return cfg
}

// Validate reports configuration problems that make the data-backed pages
// unusable. The server still starts so the condition is visible to users.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return ErrMissingBackendURL
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, log *zap.Logger) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// plain integers are seconds
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn("invalid duration, using default", zap.String("key", key), zap.String("value", raw))
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal, log *zap.Logger) decimal.Decimal {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Warn("invalid amount, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
