package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LEDGER_BACKEND", "LEDGER_PATH", "DB_PORT", "AUTO_MIGRATE", "DEFAULT_LANG", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendCSV, cfg.Ledger.Backend)
	assert.Equal(t, "orders.csv", cfg.Ledger.Path)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.False(t, cfg.Ledger.AutoMigrate)
	assert.Equal(t, "it", cfg.App.DefaultLang)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoadPostgresBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "Postgres")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("DB_PORT", "6543")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Ledger.Backend)
	assert.True(t, cfg.Ledger.AutoMigrate)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DB_PORT", "five")
	_, err := Load()
	assert.Error(t, err)
}
