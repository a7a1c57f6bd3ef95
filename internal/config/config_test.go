package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "kkondeokji", cfg.Database.Namespace)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.InsightTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAMESPACE", "staging")
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_INSIGHT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Database.Namespace)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 2*time.Second, cfg.AI.InsightTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingAPIKeyIsValid(t *testing.T) {
	// No key means template-only insight generation, not a config error.
	cfg, err := Load()
	require.NoError(t, err)
	cfg.AI.APIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Server.Port = ""
	cfg.Server.Env = "bogus"
	cfg.Database.Host = ""
	cfg.AI.InsightTimeout = 0

	verr := cfg.Validate()
	require.Error(t, verr)

	msg := verr.Error()
	assert.True(t, strings.Contains(msg, "SERVER_PORT"))
	assert.True(t, strings.Contains(msg, "SERVER_ENV"))
	assert.True(t, strings.Contains(msg, "DB_HOST"))
	assert.True(t, strings.Contains(msg, "AI_INSIGHT_TIMEOUT"))
}

func TestValidate_AIKeyRequiresBaseURLAndModel(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.AI.APIKey = "sk-test"
	cfg.AI.BaseURL = ""
	cfg.AI.Model = ""

	verr := cfg.Validate()
	require.Error(t, verr)
	assert.True(t, strings.Contains(verr.Error(), "AI_BASE_URL"))
	assert.True(t, strings.Contains(verr.Error(), "AI_MODEL"))
}
