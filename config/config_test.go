package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  address: 127.0.0.1
  port: 8080
  session_key: secret
database:
  path: /tmp/histoplot.db
  data_retention_days: 30
gradient:
  min: 5
  max: 10
  palette: grayscale
mqtt:
  host: broker.local
  port: 1883
  topic_prefix: lab/
logging:
  console_level: debug
  db_attrs_format: text
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	t.Run("Api", func(t *testing.T) {
		assert.Equal(t, int16(8080), config.Api.Port)
		assert.Equal(t, "secret", config.Api.SessionKey)
		assert.Nil(t, config.Api.WwwDir)
	})

	t.Run("Database", func(t *testing.T) {
		assert.Equal(t, 30, config.Database.GetDataRetentionDays())
		assert.Equal(t, 90, config.Database.GetBackupRetentionDays(), "default backup retention")
	})

	t.Run("Gradient", func(t *testing.T) {
		assert.Equal(t, gradient.Range{Min: 5, Max: 10}, config.Gradient.GetRange())
		p, err := config.Gradient.GetPalette()
		require.NoError(t, err)
		assert.Len(t, p, len(gradient.Grayscale))
	})

	t.Run("Mqtt", func(t *testing.T) {
		assert.True(t, config.Mqtt.Enabled())
		assert.Equal(t, "lab", config.Mqtt.GetTopicPrefix())
		assert.Equal(t, "histoplot", config.Mqtt.GetClientId(), "default client id")
	})

	t.Run("Logging", func(t *testing.T) {
		assert.Equal(t, slog.LevelDebug, config.Logging.GetConsoleLevel())
		assert.Equal(t, slog.LevelInfo, config.Logging.GetDbLevel(), "default db level")
		assert.Equal(t, logging.LogAttrFormatText, config.Logging.GetDbAttrsFormat())
		assert.Equal(t, 10000, config.Logging.GetDbMaxEntries(), "default max entries")
		assert.Equal(t, "30 2 * * *", config.Maintenance.GetRunAt(), "default maintenance schedule")
	})
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	config, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, int16(9090), config.Api.Port)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, "database:\n  path: x.db\n"))
	require.NoError(t, err)
	assert.Equal(t, gradient.Range{Min: 0, Max: 1}, config.Gradient.GetRange())
	assert.False(t, config.Mqtt.Enabled())
}

func TestLoadConfigUnknownPalette(t *testing.T) {
	_, err := Load(writeConfig(t, "gradient:\n  palette: viridis\n"))
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
