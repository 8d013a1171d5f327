package tts

import (
	"context"

	"github.com/autotts/autotts/internal/config"
)

// Voice describes one selectable voice of an engine.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender"`
}

// standardVoices is the OpenAI-compatible voice surface. Every engine maps
// these ids onto its own speakers so clients can switch engines freely.
var standardVoices = []Voice{
	{ID: "alloy", Name: "Alloy", Gender: "neutral"},
	{ID: "echo", Name: "Echo", Gender: "male"},
	{ID: "fable", Name: "Fable", Gender: "neutral"},
	{ID: "onyx", Name: "Onyx", Gender: "male"},
	{ID: "nova", Name: "Nova", Gender: "female"},
	{ID: "shimmer", Name: "Shimmer", Gender: "female"},
}

func isStandardVoice(id string) bool {
	for _, v := range standardVoices {
		if v.ID == id {
			return true
		}
	}
	return false
}

// SynthesisInput carries the parameters for one engine synthesis call.
// Language is always the resolved effective language, never empty.
type SynthesisInput struct {
	Text     string
	Voice    string
	Language string
	Speed    float64
	Format   string
}

// Request is a validated synthesis request. An empty Language asks the
// orchestrator to resolve one; the transport layer has already validated
// Speed and Format.
type Request struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice"`
	Language string  `json:"language,omitempty"`
	Model    string  `json:"model"`
	Speed    float64 `json:"speed"`
	Format   string  `json:"format"`
}

// Engine is one synthesis backend. Quality must be a pure function of the
// engine's declared support sets: 0 when the language is unsupported, a
// reduced nonzero score when only the voice is unknown, and the engine's
// full score when both are supported.
type Engine interface {
	Name() string
	Initialize(ctx context.Context) error
	Synthesize(ctx context.Context, in SynthesisInput) ([]byte, error)
	Voices() []Voice
	Languages() []string
	Formats() []string
	Quality(language, voice string) float64
	Close() error
}

// EnginesFromConfig builds the enabled engines in registration order,
// which is also the selection tie-break order.
func EnginesFromConfig(cfg config.EnginesConfig) []Engine {
	var engines []Engine
	if cfg.OpenAI.Enabled {
		engines = append(engines, NewOpenAIEngine(cfg.OpenAI))
	}
	if cfg.Piper.Enabled {
		engines = append(engines, NewPiperEngine(cfg.Piper))
	}
	return engines
}
