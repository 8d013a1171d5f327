package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/autotts/autotts/internal/config"
)

// piperSpeakers maps the public voice ids onto speaker ids of a
// multi-speaker Piper model.
var piperSpeakers = map[string]string{
	"alloy":   "0",
	"echo":    "1",
	"fable":   "2",
	"onyx":    "3",
	"nova":    "4",
	"shimmer": "5",
}

var (
	piperLanguages        = []string{"en", "de", "fr", "es", "it", "pt", "ru", "zh", "ja", "ko"}
	piperPrimaryLanguages = []string{"en", "de"}
	piperFormats          = []string{"wav", "pcm"}
)

// PiperEngine synthesizes locally by piping text through the Piper binary.
type PiperEngine struct {
	cfg config.PiperEngineConfig
}

func NewPiperEngine(cfg config.PiperEngineConfig) *PiperEngine {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "piper"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 22050
	}
	return &PiperEngine{cfg: cfg}
}

func (e *PiperEngine) Name() string { return "piper" }

func (e *PiperEngine) Initialize(ctx context.Context) error {
	if e.cfg.ModelPath == "" {
		return errors.New("piper model path is required (set ENGINE_PIPER_MODEL)")
	}
	if _, err := exec.LookPath(e.cfg.BinaryPath); err != nil {
		return fmt.Errorf("piper binary: %w", err)
	}
	if _, err := os.Stat(e.cfg.ModelPath); err != nil {
		return fmt.Errorf("piper model: %w", err)
	}
	return nil
}

// Synthesize pipes text into Piper via stdin and frames the raw PCM output
// as requested.
func (e *PiperEngine) Synthesize(ctx context.Context, in SynthesisInput) ([]byte, error) {
	args := []string{"--model", e.cfg.ModelPath, "--output-raw"}
	if speaker, ok := piperSpeakers[in.Voice]; ok {
		args = append(args, "--speaker", speaker)
	}
	if in.Speed > 0 && in.Speed != 1.0 {
		// Piper scales phoneme length, the inverse of playback speed.
		args = append(args, "--length-scale", strconv.FormatFloat(1/in.Speed, 'f', 2, 64))
	}

	cmd := exec.CommandContext(ctx, e.cfg.BinaryPath, args...)
	cmd.Stdin = strings.NewReader(in.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w (stderr: %s)", err, stderr.String())
	}

	pcm := stdout.Bytes()
	if in.Format == "pcm" {
		return pcm, nil
	}
	return wrapPCMInWAV(pcm, e.cfg.SampleRate), nil
}

func (e *PiperEngine) Voices() []Voice { return standardVoices }

func (e *PiperEngine) Languages() []string { return piperLanguages }

func (e *PiperEngine) Formats() []string { return piperFormats }

func (e *PiperEngine) Quality(language, voice string) float64 {
	if !slices.Contains(piperLanguages, language) {
		return 0
	}
	if _, ok := piperSpeakers[voice]; !ok {
		return e.cfg.QualityVoiceFallback
	}
	if slices.Contains(piperPrimaryLanguages, language) {
		return e.cfg.QualityPrimary
	}
	return e.cfg.QualitySecondary
}

func (e *PiperEngine) Close() error { return nil }
