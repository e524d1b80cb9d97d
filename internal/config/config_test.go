package config

import (
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, "24h", cfg.JWT.AccessExpiration)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 1.0, cfg.Security.LoginRateLimit)
	assert.Equal(t, 5, cfg.Security.LoginRateBurst)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ReportCacheTTL)
	assert.Equal(t, "attendance.events", cfg.Kafka.AttendanceTopic)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Equal(t, time.Hour, cfg.Cron.OpenSessionAuditInterval)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.GoogleEnabled())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "500ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://hr.example.com,https://admin.example.com")
	t.Setenv("FRONTEND_URL", "https://hr.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 500*time.Millisecond, cfg.Kafka.PublishTimeout)
	assert.Equal(t, []string{"https://hr.example.com", "https://admin.example.com"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, "https://hr.example.com", cfg.App.FrontendURL)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET_KEY"},
		{"unknown driver", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "mysql"}, "STORAGE_DRIVER"},
		{"bad port", map[string]string{"JWT_SECRET_KEY": "s", "APP_PORT": "abc"}, "APP_PORT"},
		{"bad ttl", map[string]string{"JWT_SECRET_KEY": "s", "REPORT_CACHE_TTL": "soon"}, "REPORT_CACHE_TTL"},
		{"bad kafka timeout", map[string]string{"JWT_SECRET_KEY": "s", "KAFKA_PUBLISH_TIMEOUT": "fast"}, "KAFKA_PUBLISH_TIMEOUT"},
		{"bad timezone", map[string]string{"JWT_SECRET_KEY": "s", "APP_TIMEZONE": "Mars/Olympus"}, "APP_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "hrms",
		Password: "pw",
		Name:     "hrms",
		SSLMode:  "disable",
	}}
	assert.Equal(t, "postgres://hrms:pw@db:5432/hrms?sslmode=disable", cfg.DatabaseURL())

	cfg.Database.URL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DatabaseURL())
}
