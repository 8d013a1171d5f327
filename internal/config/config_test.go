package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotts/autotts/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "en", cfg.TTS.DefaultLanguage)
	assert.True(t, cfg.TTS.AutoDetectLanguage)
	assert.Equal(t, "alloy", cfg.TTS.DefaultVoice)
	assert.Equal(t, "tts-1", cfg.TTS.DefaultModel)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "fs", cfg.Cache.Backend)
	assert.Equal(t, "cache", cfg.Cache.Dir)

	assert.True(t, cfg.Engines.OpenAI.Enabled)
	assert.False(t, cfg.Engines.Piper.Enabled)
	assert.Equal(t, "piper", cfg.Engines.Piper.BinaryPath)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("ENABLE_CACHE", "false")
	t.Setenv("DEFAULT_LANGUAGE", "de")
	t.Setenv("AUTO_DETECT_LANGUAGE", "false")
	t.Setenv("API_KEYS", "key-one,key-two")
	t.Setenv("ENGINE_PIPER_ENABLED", "true")
	t.Setenv("ENGINE_PIPER_MODEL", "/models/de_DE-thorsten-medium.onnx")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "de", cfg.TTS.DefaultLanguage)
	assert.False(t, cfg.TTS.AutoDetectLanguage)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
	assert.True(t, cfg.Engines.Piper.Enabled)
	assert.Equal(t, "/models/de_DE-thorsten-medium.onnx", cfg.Engines.Piper.ModelPath)
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "s3")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}
