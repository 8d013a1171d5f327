package tts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/tts"
)

func piperTestConfig() config.PiperEngineConfig {
	return config.PiperEngineConfig{
		Enabled:              true,
		BinaryPath:           "piper",
		SampleRate:           22050,
		QualityPrimary:       0.85,
		QualitySecondary:     0.75,
		QualityVoiceFallback: 0.6,
	}
}

func TestPiperEngineInitializeRequiresModel(t *testing.T) {
	t.Parallel()

	engine := tts.NewPiperEngine(piperTestConfig())
	err := engine.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model path")
}

func TestPiperEngineInitializeMissingBinary(t *testing.T) {
	t.Parallel()

	model := filepath.Join(t.TempDir(), "voice.onnx")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o644))

	cfg := piperTestConfig()
	cfg.BinaryPath = "piper-binary-that-does-not-exist"
	cfg.ModelPath = model

	engine := tts.NewPiperEngine(cfg)
	err := engine.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "piper binary")
}

func TestPiperEngineQualityTiers(t *testing.T) {
	t.Parallel()

	engine := tts.NewPiperEngine(piperTestConfig())

	assert.Equal(t, 0.85, engine.Quality("en", "alloy"))
	assert.Equal(t, 0.85, engine.Quality("de", "nova"))
	assert.Equal(t, 0.75, engine.Quality("fr", "alloy"))
	assert.Equal(t, 0.6, engine.Quality("en", "brian"))
	assert.Zero(t, engine.Quality("ar", "alloy"))

	assert.Greater(t, engine.Quality("fr", "alloy"), engine.Quality("fr", "brian"))
	assert.Greater(t, engine.Quality("fr", "brian"), engine.Quality("ar", "alloy"))
}

func TestPiperEngineCatalog(t *testing.T) {
	t.Parallel()

	engine := tts.NewPiperEngine(piperTestConfig())

	assert.Equal(t, "piper", engine.Name())
	assert.Len(t, engine.Voices(), 6)
	assert.Equal(t, []string{"wav", "pcm"}, engine.Formats())
	assert.NotContains(t, engine.Languages(), "ar")
}
