package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RANKING_MAX_ROWS", "")
	t.Setenv("LLM_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, 5000, cfg.Ranking.MaxRows)
	assert.Equal(t, 5*time.Second, cfg.Ranking.FitTimeout)
	assert.Equal(t, 30*time.Second, cfg.Ai.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RANKING_MAX_ROWS", "200")
	t.Setenv("RANKING_FIT_TIMEOUT", "750ms")
	t.Setenv("LLM_TIMEOUT", "12")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()
	assert.Equal(t, 200, cfg.Ranking.MaxRows)
	assert.Equal(t, 750*time.Millisecond, cfg.Ranking.FitTimeout)
	assert.Equal(t, 12*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.True(t, cfg.Otel.Enabled)
	assert.True(t, cfg.IsProduction())
}
