package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealsnap/backend/config"
	"github.com/pageza/mealsnap/backend/internal/testhelpers"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: ":memory:"}

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	assert.NoError(t, HealthCheck(context.Background(), db))
	assert.True(t, db.Migrator().HasTable(&KVSnapshot{}))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	require.NoError(t, RunMigrations(db))

	snapshot := NewSQLSnapshot(db, CustomFoodsKey)
	ctx := context.Background()
	require.NoError(t, snapshot.Save(ctx, []byte(`{"a":1}`)))
	require.NoError(t, snapshot.Save(ctx, []byte(`{"a":2}`)))

	data, err := snapshot.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))
}
