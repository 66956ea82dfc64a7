package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "farmconnect", cfg.Database.DBName)
	assert.Equal(t, "db/migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 30*time.Minute, cfg.Monitor.CheckInterval)
	assert.Equal(t, 2*time.Hour, cfg.Monitor.Cooldown)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Mandi.APIKey)
	assert.False(t, cfg.Kafka.Enabled)

	// Cached snapshots must expire before the next poll cycle reads them.
	assert.Less(t, cfg.Redis.TTL, cfg.Monitor.CheckInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "farmconnect_test")
	t.Setenv("DB_MIGRATIONS_PATH", "/opt/farmconnect/migrations")
	t.Setenv("PRICE_CHECK_INTERVAL_MINUTES", "5")
	t.Setenv("ALERT_COOLDOWN_MINUTES", "15")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "farmconnect_test", cfg.Database.DBName)
	assert.Equal(t, "/opt/farmconnect/migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 5*time.Minute, cfg.Monitor.CheckInterval)
	assert.Equal(t, 15*time.Minute, cfg.Monitor.Cooldown)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: "5432", User: "farm", Password: "secret",
		DBName: "farmconnect", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://farm:secret@db:5432/farmconnect?sslmode=disable", d.ConnectionString())
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("PRICE_CHECK_INTERVAL_MINUTES", "soon")
	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.Monitor.CheckInterval)
}
