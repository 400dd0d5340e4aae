package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.PredictionServicePort)
	assert.Equal(t, "8001", cfg.SymptomServicePort)
	assert.Equal(t, "ensemble_model.json", cfg.DepressionModelPath)
	assert.Empty(t, cfg.DepressionModelURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.CORSAllowCredentials)
	assert.False(t, cfg.LogRequestPayloads)
	assert.False(t, cfg.ExposeErrorDetail)
	assert.Equal(t, 0, cfg.RateLimitRPS)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PREDICTION_SERVICE_PORT", "9000")
	t.Setenv("DOWNLOAD_TIMEOUT", "45s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("EXPOSE_ERROR_DETAIL", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	assert.Equal(t, "9000", cfg.PredictionServicePort)
	assert.Equal(t, 45*time.Second, cfg.DownloadTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ExposeErrorDetail)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "lots")
	t.Setenv("ARTIFACT_CACHE_ENABLED", "maybe")
	t.Setenv("READ_TIMEOUT", "soon")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg := Load()
	assert.Equal(t, 0, cfg.RateLimitRPS)
	assert.False(t, cfg.ArtifactCacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
