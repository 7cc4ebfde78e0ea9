package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "appointments.json", cfg.DataFile)
	assert.Equal(t, "clinic:appointments", cfg.AppointmentsKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModelID)
	assert.Equal(t, "Dr. Carlos", cfg.DoctorName)
	assert.Nil(t, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20, cfg.RateLimitBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example, https://admin.example ,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://clinic.example", "https://admin.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
}
