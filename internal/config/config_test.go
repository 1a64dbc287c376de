package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendStorage, cfg.ProductBackend)
	assert.Equal(t, "product-catalog-service", cfg.CalledBy)
	assert.Equal(t, "PRODUCTS__", cfg.CacheNamespace)
	assert.Equal(t, "https://fakestoreapi.com", cfg.UpstreamBaseURL)
	assert.Equal(t, "http://userservice", cfg.UserServiceURL)
	assert.False(t, cfg.RedisEnabled)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.UpstreamMaxRetries)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "9090")
	t.Setenv("PRODUCT_BACKEND", "remote")
	t.Setenv("CALLED_BY", "edge")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, BackendRemote, cfg.ProductBackend)
	assert.Equal(t, "edge", cfg.CalledBy)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"port out of range", "CATALOG_HTTP_PORT", "70000", "invalid HTTP port"},
		{"unknown backend", "PRODUCT_BACKEND", "memory", "PRODUCT_BACKEND"},
		{"sample rate", "OTEL_SAMPLE_RATE", "1.5", "OTEL_SAMPLE_RATE"},
		{"relative upstream", "UPSTREAM_BASE_URL", "fakestoreapi.com", "UPSTREAM_BASE_URL"},
		{"bad user service scheme", "USER_SERVICE_URL", "ftp://users", "USER_SERVICE_URL"},
		{"failure ratio", "CB_FAILURE_RATIO", "0", "CB_FAILURE_RATIO"},
		{"negative retries", "UPSTREAM_MAX_RETRIES", "-1", "UPSTREAM_MAX_RETRIES"},
		{"non-numeric port", "CATALOG_HTTP_PORT", "http", "load catalog config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPostgres(t *testing.T) {
	cfg := &Config{
		PostgresHost:          "db",
		PostgresPort:          5433,
		PostgresUser:          "u",
		PostgresPass:          "p@ss",
		PostgresDB:            "catalog",
		PostgresSSL:           "require",
		DBMaxConns:            8,
		DBMaxConnLifetimeMins: 2,
	}

	pg := cfg.Postgres()
	assert.Equal(t, "db", pg.Host)
	assert.Equal(t, int32(8), pg.MaxConns)
	assert.Equal(t, 2*time.Minute, pg.MaxConnLifetime)
	assert.Equal(t, 500*time.Millisecond, pg.SlowQueryThreshold)
	assert.Equal(t, "postgres://u:p%40ss@db:5433/catalog?sslmode=require", pg.DSN())
}
