package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 10, cfg.ListPerPage)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.OpenLibrary.Timeout)
	assert.Equal(t, "https://openlibrary.org", cfg.OpenLibrary.BaseURL)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "library.lending", cfg.Kafka.LendingTopic)
}

func TestLoadUsesModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_NAME", "library_prod")
	t.Setenv("DEV_DB_NAME", "library_dev")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "library_prod", cfg.Database.DBName)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("app mode", func(t *testing.T) {
		t.Setenv("APP_MODE", "staging")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("db driver", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadOptionalIntegrations(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("OPENLIBRARY_BASE_URL", "http://localhost:8081/")
	t.Setenv("OPENLIBRARY_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("LIST_PER_PAGE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "http://localhost:8081", cfg.OpenLibrary.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.OpenLibrary.Timeout)
	assert.Equal(t, 25, cfg.ListPerPage)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{User: "lib", Password: "pw", Host: "db", Port: "3306", DBName: "library"})
	assert.Equal(t, "lib:pw@tcp(db:3306)/library?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}
