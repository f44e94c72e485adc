package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 60, cfg.ReconcileIntervalSeconds)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("RECONCILE_INTERVAL_SECONDS", "15")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15, cfg.ReconcileIntervalSeconds)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestLoadIgnoresInvalidInterval(t *testing.T) {
	t.Setenv("RECONCILE_INTERVAL_SECONDS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 60, cfg.ReconcileIntervalSeconds)

	t.Setenv("RECONCILE_INTERVAL_SECONDS", "-5")
	cfg = Load()
	assert.Equal(t, 60, cfg.ReconcileIntervalSeconds)
}
