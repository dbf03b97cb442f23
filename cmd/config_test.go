package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"orderentry/cmd"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"ORDER_NUMBER_SOURCE", "ORDER_NUMBER_PREFIX",
	"ACTIVE_ORDERS_GAUGE_SCHEDULE", "REFERENCE_DATA_RELOAD_SCHEDULE",
}

// clearEnv blanks every config variable for the test and restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DB_HOST=db\nDB_USER=orders\nDB_PASSWORD=secret\nDB_NAME=orderentry\n"+
			"ORDER_NUMBER_SOURCE=timestamp\nACTIVE_ORDERS_GAUGE_SCHEDULE=\"*/30 * * * * *\"\n",
	), 0o600))

	config, err := cmd.LoadConfig(envFile)

	require.NoError(t, err)
	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, "db", config.DBHost)
	assert.Equal(t, "5432", config.DBPort)
	assert.Equal(t, "disable", config.DBSslMode)
	assert.Equal(t, cmd.OrderNumberSourceTimestamp, config.OrderNumberSource)
	assert.Equal(t, "*/30 * * * * *", config.ActiveOrdersGaugeSchedule)
	assert.Equal(t, "host=db port=5432 user=orders password=secret dbname=orderentry sslmode=disable", config.DSN())
}

func TestLoadConfig_ProcessEnvironmentWins(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_HOST=from-file\nDB_USER=u\nDB_NAME=n\n"), 0o600))
	t.Setenv("DB_HOST", "from-env")

	config, err := cmd.LoadConfig(envFile)

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.DBHost)
}

func TestLoadConfig_MissingEnvFileIsTolerated(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_NAME", "n")

	config, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, cmd.OrderNumberSourceSequence, config.OrderNumberSource)
}

func TestLoadConfig_MissingDatabaseSettings(t *testing.T) {
	clearEnv(t)

	_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestConfig_ValidateOrderNumberSource(t *testing.T) {
	config := cmd.Config{DBHost: "db", DBUser: "u", DBName: "n", OrderNumberSource: "uuid"}

	assert.ErrorIs(t, config.Validate(), errs.ErrValueIsInvalid)
}
