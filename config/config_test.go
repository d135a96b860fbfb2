package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CUSTOM_FOOD_STORE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DEBOUNCE_WINDOW", "250ms")
	t.Setenv("IMAGE_ANALYSIS_DELAY", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com, ,http://localhost:3000 ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, StoreRedis, cfg.CustomFoodStore)
	assert.Equal(t, StoreMemory, cfg.MealStore)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 10*time.Millisecond, cfg.ImageAnalysisDelay)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"SERVER_PORT", "OPENAI_API_KEY", "CUSTOM_FOOD_STORE", "MEAL_STORE", "REDIS_URL", "DEBOUNCE_WINDOW", "CORS_ALLOWED_ORIGINS", "SERVER_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Empty(t, cfg.OpenAIAPIKey, "a missing key is a valid unconfigured state")
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, StoreMemory, cfg.CustomFoodStore)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 1500*time.Millisecond, cfg.ImageAnalysisDelay)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://localhost:5173", "http://frontend:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai_api_key"), []byte("sk-from-secret\n"), 0o600))

	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-secret", cfg.OpenAIAPIKey)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		ServerPort:      "8080",
		CustomFoodStore: "mongo",
		MealStore:       StoreMemory,
		DebounceWindow:  0,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUSTOM_FOOD_STORE")
	assert.Contains(t, err.Error(), "DEBOUNCE_WINDOW")

	cfg.CustomFoodStore = StoreSQL
	cfg.DBDriver = "sqlite"
	cfg.DBPath = "foods.db"
	cfg.DebounceWindow = time.Second
	assert.NoError(t, ValidateConfig(cfg))
}
