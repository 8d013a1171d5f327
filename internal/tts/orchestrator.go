package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/autotts/autotts/internal/config"
)

var (
	ErrNotInitialized     = errors.New("tts: orchestrator not initialized")
	ErrNoEnginesAvailable = errors.New("tts: no engines available")
)

// AllEnginesFailedError reports that every registered engine was tried
// exactly once and none produced audio. Last is the final engine's error.
type AllEnginesFailedError struct {
	Tried []string
	Last  error
}

func (e *AllEnginesFailedError) Error() string {
	return fmt.Sprintf("all tts engines failed (tried %s): %v", strings.Join(e.Tried, ", "), e.Last)
}

func (e *AllEnginesFailedError) Unwrap() error { return e.Last }

// Detector resolves the language of a text when the caller did not name one.
type Detector interface {
	Detect(text string) string
}

// Orchestrator owns the engine registry for the process lifetime. It scores
// engines per request, dispatches synthesis, and falls back across the
// remaining engines on failure. The registry is populated once by
// Initialize and read-only afterwards, so requests share it without
// locking.
type Orchestrator struct {
	candidates  []Engine
	engines     []Engine
	detector    Detector
	autoDetect  bool
	defaultLang string
	initialized bool
}

func NewOrchestrator(cfg config.TTSConfig, detector Detector, engines []Engine) *Orchestrator {
	return &Orchestrator{
		candidates:  engines,
		detector:    detector,
		autoDetect:  cfg.AutoDetectLanguage,
		defaultLang: cfg.DefaultLanguage,
	}
}

// Initialize brings up every configured engine once. An engine that fails
// stays excluded for the process lifetime; a restart is the only recovery
// path. Call it exactly once before serving requests.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	for _, e := range o.candidates {
		if err := e.Initialize(ctx); err != nil {
			slog.Warn("tts engine failed to initialize, excluding",
				"engine", e.Name(),
				"error", err,
			)
			continue
		}
		slog.Info("tts engine ready", "engine", e.Name())
		o.engines = append(o.engines, e)
	}

	if len(o.engines) == 0 {
		return ErrNoEnginesAvailable
	}
	o.initialized = true
	return nil
}

// SelectEngine resolves the effective language for the request and returns
// the engine with the strictly highest quality score for it. Ties go to
// the engine registered first. When no engine claims the language at all,
// the first registered engine is returned rather than an error, so a
// synthesis attempt is always made.
func (o *Orchestrator) SelectEngine(text, voice, language string) (Engine, string, error) {
	if !o.initialized {
		return nil, "", ErrNotInitialized
	}

	lang := o.resolveLanguage(text, language)

	var best Engine
	bestScore := 0.0
	for _, e := range o.engines {
		if score := e.Quality(lang, voice); score > bestScore {
			best = e
			bestScore = score
		}
	}

	if best == nil {
		best = o.engines[0]
		slog.Warn("no engine supports language, using first registered",
			"language", lang,
			"engine", best.Name(),
		)
	} else {
		slog.Debug("selected tts engine",
			"engine", best.Name(),
			"language", lang,
			"score", bestScore,
		)
	}
	return best, lang, nil
}

// Synthesize dispatches the request to the selected engine and, on
// failure, tries every other registered engine once in registration order.
// The first success wins; a total failure surfaces as AllEnginesFailedError.
func (o *Orchestrator) Synthesize(ctx context.Context, req Request) ([]byte, string, error) {
	selected, lang, err := o.SelectEngine(req.Text, req.Voice, req.Language)
	if err != nil {
		return nil, "", err
	}

	in := SynthesisInput{
		Text:     req.Text,
		Voice:    req.Voice,
		Language: lang,
		Speed:    req.Speed,
		Format:   req.Format,
	}

	audio, err := selected.Synthesize(ctx, in)
	if err == nil {
		return audio, selected.Name(), nil
	}

	slog.Warn("tts engine failed, trying fallbacks",
		"engine", selected.Name(),
		"error", err,
	)

	tried := []string{selected.Name()}
	lastErr := err
	for _, e := range o.engines {
		if e.Name() == selected.Name() {
			continue
		}

		audio, err := e.Synthesize(ctx, in)
		if err == nil {
			slog.Info("fallback engine succeeded", "engine", e.Name())
			return audio, e.Name(), nil
		}
		slog.Warn("fallback engine failed", "engine", e.Name(), "error", err)
		tried = append(tried, e.Name())
		lastErr = err
	}

	return nil, "", &AllEnginesFailedError{Tried: tried, Last: lastErr}
}

// Engines returns the initialized registry in registration order.
func (o *Orchestrator) Engines() []Engine {
	return o.engines
}

// ListVoices returns every voice of every registered engine, tagged with
// the engine that provides it.
func (o *Orchestrator) ListVoices() []VoiceInfo {
	var voices []VoiceInfo
	for _, e := range o.engines {
		for _, v := range e.Voices() {
			voices = append(voices, VoiceInfo{Voice: v, Engine: e.Name()})
		}
	}
	return voices
}

// ListLanguages returns the sorted union of the registered engines'
// supported languages.
func (o *Orchestrator) ListLanguages() []string {
	seen := make(map[string]bool)
	var languages []string
	for _, e := range o.engines {
		for _, l := range e.Languages() {
			if !seen[l] {
				seen[l] = true
				languages = append(languages, l)
			}
		}
	}
	sort.Strings(languages)
	return languages
}

// Close releases engine resources. Close errors are logged, not returned,
// since shutdown should proceed regardless.
func (o *Orchestrator) Close() error {
	for _, e := range o.engines {
		if err := e.Close(); err != nil {
			slog.Warn("tts engine close failed", "engine", e.Name(), "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) resolveLanguage(text, language string) string {
	if language != "" {
		return language
	}
	if o.autoDetect && o.detector != nil {
		return o.detector.Detect(text)
	}
	return o.defaultLang
}

// VoiceInfo is a voice together with the engine that provides it.
type VoiceInfo struct {
	Voice
	Engine string `json:"engine"`
}
