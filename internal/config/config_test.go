package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "UPSTREAM_TIMEOUT", "BACKEND_URL", "CORS_ALLOW_ORIGINS", "TAX_AMOUNT",
		"JWT_SECRET", "TRUST_IDENTITY_HEADERS", "SESSION_TTL", "RABBITMQ_URL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 14.0, cfg.TaxAmount)
	assert.False(t, cfg.TrustIdentityHeaders)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:5000/")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("TAX_AMOUNT", "0")
	t.Setenv("TRUST_IDENTITY_HEADERS", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "nonsense")
	t.Setenv("SESSION_TTL", "5m")

	cfg := Load()
	assert.Equal(t, "http://backend:5000", cfg.BackendURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 0.0, cfg.TaxAmount)
	assert.True(t, cfg.TrustIdentityHeaders)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestParseFloatRejectsNegative(t *testing.T) {
	assert.Equal(t, 14.0, parseFloat("-3", 14))
	assert.Equal(t, 14.0, parseFloat("abc", 14))
	assert.Equal(t, 7.5, parseFloat(" 7.5 ", 14))
}

func TestLoadBackend(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("RUN_MIGRATIONS", "0")

	cfg := LoadBackend()
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.False(t, cfg.RunMigrations)
}
