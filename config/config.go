package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for the custom food table
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort string
	ServerHost string
	// CORSOrigins lists the browser origins allowed to call the API
	CORSOrigins []string

	// OpenAI configuration. An empty key is the valid "unconfigured" state.
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// CustomFoodStore is one of StoreMemory, StoreRedis or StoreSQL
	CustomFoodStore string
	// MealStore is one of StoreMemory or StoreRedis
	MealStore string

	// SQL configuration, used when CustomFoodStore is StoreSQL
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// FoodTablePath optionally points at a YAML file extending the built-in table
	FoodTablePath string

	// S3 photo storage; photos are kept in memory when the bucket is empty
	S3BucketName string
	AWSRegion    string

	DebounceWindow     time.Duration
	ImageAnalysisDelay time.Duration
	AIRequestsPerHour  int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		CORSOrigins:        splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://frontend:5173")),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL:       getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisURL:           getEnv("REDIS_URL", ""),
		CustomFoodStore:    strings.ToLower(getEnv("CUSTOM_FOOD_STORE", StoreMemory)),
		MealStore:          strings.ToLower(getEnv("MEAL_STORE", StoreMemory)),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "mealsnap"),
		DBSSLMode:          getEnv("DB_SSL_MODE", "disable"),
		DBPath:             getEnv("DB_PATH", "mealsnap.db"),
		FoodTablePath:      getEnv("FOOD_TABLE_PATH", ""),
		S3BucketName:       getEnv("S3_BUCKET_NAME", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		DebounceWindow:     getEnvDuration("DEBOUNCE_WINDOW", 500*time.Millisecond),
		ImageAnalysisDelay: getEnvDuration("IMAGE_ANALYSIS_DELAY", 1500*time.Millisecond),
		AIRequestsPerHour:  getEnvInt("AI_REQUESTS_PER_HOUR", 60),
	}

	// Secrets override plain environment values when mounted
	if v := readSecret("openai_api_key"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.OpenAIAPIKey == "" {
		log.Printf("[Config] OPENAI_API_KEY not set, AI estimation is disabled")
	}

	return cfg, nil
}

// RedisEnabled reports whether any component needs a Redis connection
func (c *Config) RedisEnabled() bool {
	return c.CustomFoodStore == StoreRedis || c.MealStore == StoreRedis || c.RedisURL != ""
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
