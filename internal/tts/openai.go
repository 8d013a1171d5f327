package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/autotts/autotts/internal/config"
)

var openaiLanguages = []string{
	"en", "de", "fr", "es", "it", "pt", "ru", "ja", "ko", "zh",
	"ar", "hi", "tr", "pl", "nl", "sv", "da", "no", "fi",
}

var openaiFormats = []string{"mp3", "opus", "aac", "flac", "wav", "pcm"}

// OpenAIEngine synthesizes through the OpenAI speech API. A token-bucket
// limiter keeps request bursts under the account's rate limit.
type OpenAIEngine struct {
	cfg     config.OpenAIEngineConfig
	client  *openai.Client
	limiter *rate.Limiter
}

func NewOpenAIEngine(cfg config.OpenAIEngineConfig) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &OpenAIEngine{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

func (e *OpenAIEngine) Name() string { return "openai" }

func (e *OpenAIEngine) Initialize(ctx context.Context) error {
	if e.cfg.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	clientCfg := openai.DefaultConfig(e.cfg.APIKey)
	if e.cfg.BaseURL != "" {
		clientCfg.BaseURL = e.cfg.BaseURL
	}
	e.client = openai.NewClientWithConfig(clientCfg)
	return nil
}

func (e *OpenAIEngine) Synthesize(ctx context.Context, in SynthesisInput) ([]byte, error) {
	if e.client == nil {
		return nil, errors.New("openai engine not initialized")
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.cfg.Model),
		Input:          in.Text,
		Voice:          openai.SpeechVoice(e.effectiveVoice(in.Voice)),
		ResponseFormat: openai.SpeechResponseFormat(in.Format),
		Speed:          in.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}

func (e *OpenAIEngine) Voices() []Voice { return standardVoices }

func (e *OpenAIEngine) Languages() []string { return openaiLanguages }

func (e *OpenAIEngine) Formats() []string { return openaiFormats }

func (e *OpenAIEngine) Quality(language, voice string) float64 {
	if !slices.Contains(openaiLanguages, language) {
		return 0
	}
	if !isStandardVoice(voice) {
		return e.cfg.QualityVoiceFallback
	}
	return e.cfg.QualityFull
}

func (e *OpenAIEngine) Close() error { return nil }

// effectiveVoice falls back to alloy for voice ids the API does not know,
// matching the degraded score Quality reports for them.
func (e *OpenAIEngine) effectiveVoice(voice string) string {
	if isStandardVoice(voice) {
		return voice
	}
	return "alloy"
}
