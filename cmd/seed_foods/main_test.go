package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealsnap/backend/config"
	"github.com/pageza/mealsnap/backend/internal/database"
)

func seedEnv(t *testing.T, store string) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("REDIS_URL", "")
	t.Setenv("MEAL_STORE", "memory")
	t.Setenv("CUSTOM_FOOD_STORE", store)
}

func writeFoods(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "foods.yaml")
	content := `
Oatmeal:
  calories: 150
  protein: 5
protein shake:
  calories: 160
  protein: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunRequiresFile(t *testing.T) {
	assert.ErrorContains(t, run(""), "-file is required")
}

func TestRunRefusesMemoryStore(t *testing.T) {
	seedEnv(t, config.StoreMemory)
	assert.ErrorContains(t, run(writeFoods(t)), "memory")
}

func TestRunReportsMissingFile(t *testing.T) {
	seedEnv(t, config.StoreSQL)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "foods.db"))

	assert.Error(t, run(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestRunSeedsSQLStore(t *testing.T) {
	seedEnv(t, config.StoreSQL)
	dbPath := filepath.Join(t.TempDir(), "foods.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", dbPath)

	require.NoError(t, run(writeFoods(t)))

	cfg := &config.Config{CustomFoodStore: config.StoreSQL, DBDriver: "sqlite", DBPath: dbPath}
	store, _, err := database.OpenCustomFoodStore(cfg, nil)
	require.NoError(t, err)
	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "oatmeal", entries[0].Key)
	assert.Equal(t, float64(150), entries[0].Calories)
	assert.Equal(t, "protein shake", entries[1].Key)
}
