package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50.0, cfg.Pricing.CreditPrice)
	assert.Equal(t, "@every 5m", cfg.Workers.DashboardRefresh)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoadConfig_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, "agrocarbon", cfg.Database.DBName)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"server": {"port": 9090},
		"pricing": {"credit_price": 62.5},
		"storage": {"bucket": "farm-reports"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 62.5, cfg.Pricing.CreditPrice)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  db_name: farms
cache:
  redis_addr: localhost:6379
  ttl: 30s
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "farms", cfg.Database.DBName)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"server": `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=require")
	t.Setenv("CREDIT_PRICE", "75")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/x?sslmode=require", cfg.Database.GetDatabaseURL())
	assert.Equal(t, 75.0, cfg.Pricing.CreditPrice)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
}

func TestLoadConfig_RejectsBadPrice(t *testing.T) {
	t.Setenv("CREDIT_PRICE", "-1")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	db := DatabaseConfig{User: "farm", Password: "secret", Host: "db", Port: 5433, DBName: "carbon", SSLMode: "disable"}
	assert.Equal(t, "postgres://farm:secret@db:5433/carbon?sslmode=disable", db.GetDatabaseURL())

	srv := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", srv.GetServerAddr())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
