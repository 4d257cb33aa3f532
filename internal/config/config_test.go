package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pizzaparty/backend-pizzeria/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                  "",
		"PORT":                     "",
		"CURRENCY_CODE":            "",
		"MENU_PATH":                "",
		"REDIS_URL":                "",
		"CORS_ALLOWED_ORIGINS":     "",
		"OBS_LOG_FORMAT":           "",
		"OBS_ENABLE_PROMETHEUS":    "",
		"OBS_ENABLE_TRACING":       "",
		"CHECKOUT_IDEMPOTENCY_TTL": "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "OMR", cfg.CurrencyCode)
	require.Empty(t, cfg.MenuPath)
	require.Empty(t, cfg.RedisURL)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, "pizzeria", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                  "production",
		"PORT":                     "9090",
		"CURRENCY_CODE":            "USD",
		"CORS_ALLOWED_ORIGINS":     "https://a.example.com, https://b.example.com",
		"OBS_ENABLE_PROMETHEUS":    "false",
		"OBS_ENABLE_TRACING":       "true",
		"CHECKOUT_IDEMPOTENCY_TTL": "90m",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.MetricsEnabled)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"CHECKOUT_IDEMPOTENCY_TTL": "soon",
	})
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestMustLoadReturnsDefaults(t *testing.T) {
	cfg := config.MustLoad()
	require.NotNil(t, cfg)
	require.NotEmpty(t, cfg.Port)
	require.NotEmpty(t, cfg.CurrencyCode)
}

func TestHTTPAddr(t *testing.T) {
	cfg := &config.Config{Port: "9090"}
	require.Equal(t, ":9090", cfg.HTTPAddr())

	cfg.Port = ":7070"
	require.Equal(t, ":7070", cfg.HTTPAddr())

	cfg.Port = "  "
	require.Equal(t, ":8080", cfg.HTTPAddr())
}
