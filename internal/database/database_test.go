package database

import (
	"testing"

	"epowrite/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults without error
	assert.NoError(t, configurePool(db, &config.Config{}))
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		env       string
		allow     bool
		wantSQL   bool
		wantAuto  bool
		wantError bool
	}{
		{name: "hybrid dev", mode: "hybrid", env: "development", wantSQL: true, wantAuto: true},
		{name: "hybrid prod", mode: "hybrid", env: "production", wantSQL: true, wantAuto: false},
		{name: "default is hybrid", mode: "", env: "development", wantSQL: true, wantAuto: true},
		{name: "sql only", mode: "sql", env: "production", wantSQL: true, wantAuto: false},
		{name: "auto dev", mode: "auto", env: "development", wantSQL: false, wantAuto: true},
		{name: "auto prod refused", mode: "auto", env: "production", wantError: true},
		{name: "auto prod allowed", mode: "auto", env: "production", allow: true, wantSQL: false, wantAuto: true},
		{name: "unknown mode", mode: "bogus", env: "development", wantError: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				DBSchemaMode:                  tt.mode,
				Env:                           tt.env,
				DBAutoMigrateAllowDestructive: tt.allow,
			}
			runSQL, runAuto, err := schemaPolicy(cfg)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestRegisteredMigrations(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, "init_schema", ms[0].Name)
	assert.Contains(t, ms[0].UpScript, "CREATE TABLE IF NOT EXISTS posts")
	assert.Contains(t, ms[0].DownScript, "DROP TABLE IF EXISTS posts")
}
