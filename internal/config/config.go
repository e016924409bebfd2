package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required"`
	Env             string        `json:"env" validate:"oneof=development staging production"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// WordPress source
	WPBaseURL      string        `json:"wp_base_url" validate:"required,url"`
	WPTimeout      time.Duration `json:"wp_timeout"`
	WPRetryCount   int           `json:"wp_retry_count" validate:"min=0"`
	WPRetryWait    time.Duration `json:"wp_retry_wait"`
	WPRetryMaxWait time.Duration `json:"wp_retry_max_wait"`
	WPRateLimitRPS int           `json:"wp_rate_limit_rps" validate:"min=0"`
	MaxConcurrency int           `json:"max_concurrency" validate:"min=1"`

	// Redis configuration; an empty URL selects the in-memory cache
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// Cloudflare R2 configuration; empty credentials disable uploads
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`
	R2AccountID string `json:"r2_account_id"`

	// Snapshot storage
	SnapshotPath string `json:"snapshot_path"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// WordPress source
		WPBaseURL:      getEnv("WP_BASE_URL", ""),
		WPTimeout:      getEnvAsDuration("WP_TIMEOUT", 30*time.Second),
		WPRetryCount:   getEnvAsInt("WP_RETRY_COUNT", 3),
		WPRetryWait:    getEnvAsDuration("WP_RETRY_WAIT", 2*time.Second),
		WPRetryMaxWait: getEnvAsDuration("WP_RETRY_MAX_WAIT", 10*time.Second),
		WPRateLimitRPS: getEnvAsInt("WP_RATE_LIMIT_RPS", 10),
		MaxConcurrency: getEnvAsInt("MAX_CONCURRENCY", 5),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "wpgate:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 720*time.Hour), // 30 days

		// Cloudflare R2 configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),

		// Snapshot storage
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.R2Enabled() {
		if c.R2Bucket == "" {
			return fmt.Errorf("R2_BUCKET is required when R2 credentials are set")
		}
		if c.R2AccountID == "" && c.R2Endpoint == "" {
			return fmt.Errorf("CLOUDFLARE_ACCOUNT_ID or R2_ENDPOINT is required when R2 credentials are set")
		}
	}

	return nil
}

// R2Enabled reports whether snapshot uploads to R2 are configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccessKey != "" && c.R2SecretKey != ""
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
