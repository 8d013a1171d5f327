package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/autotts/autotts/internal/audit"
	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/tts"
)

const maxInputLength = 4096

var supportedFormats = []string{"mp3", "opus", "aac", "flac", "wav", "pcm"}

var formatContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"wav":  "audio/wav",
	"pcm":  "audio/pcm",
}

// SpeechRequest is the OpenAI-compatible synthesis request body.
type SpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Language       string  `json:"language,omitempty"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// Normalize fills unset fields with the configured defaults.
func (req *SpeechRequest) Normalize(cfg config.TTSConfig) {
	if req.Model == "" {
		req.Model = cfg.DefaultModel
	}
	if req.Voice == "" {
		req.Voice = cfg.DefaultVoice
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = "mp3"
	}
	if req.Speed == 0 {
		req.Speed = 1.0
	}
}

// Validate enforces the request contract before anything reaches the
// synthesis layer, which trusts speed and format to be in range.
func (req *SpeechRequest) Validate() error {
	if req.Input == "" {
		return errors.New("input is required")
	}
	if utf8.RuneCountInString(req.Input) > maxInputLength {
		return fmt.Errorf("input exceeds %d characters", maxInputLength)
	}
	if req.Speed < 0.25 || req.Speed > 4.0 {
		return fmt.Errorf("speed must be between 0.25 and 4.0, got %g", req.Speed)
	}
	if _, ok := formatContentTypes[req.ResponseFormat]; !ok {
		return fmt.Errorf("unsupported response_format %q", req.ResponseFormat)
	}
	return nil
}

type SpeechHandler struct {
	svc      *tts.Service
	auditSvc *audit.Service
	cfg      config.TTSConfig
}

func NewSpeechHandler(svc *tts.Service, auditSvc *audit.Service, cfg config.TTSConfig) *SpeechHandler {
	return &SpeechHandler{svc: svc, auditSvc: auditSvc, cfg: cfg}
}

// Speak synthesizes audio for the request body and streams it back with
// X-Cache and X-Engine headers describing how it was produced.
func (h *SpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Normalize(h.cfg)
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	result, err := h.svc.Speak(r.Context(), tts.Request{
		Text:     req.Input,
		Voice:    req.Voice,
		Language: req.Language,
		Model:    req.Model,
		Speed:    req.Speed,
		Format:   req.ResponseFormat,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tts.ErrNotInitialized) {
			status = http.StatusServiceUnavailable
		}
		h.record(requestID, req, nil, time.Since(start), "failed")
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	h.record(requestID, req, result, time.Since(start), "ok")

	w.Header().Set("Content-Type", formatContentTypes[req.ResponseFormat])
	w.Header().Set("X-Cache", cacheStatus(result.CacheHit))
	if result.Engine != "" {
		w.Header().Set("X-Engine", result.Engine)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Audio)
}

func (h *SpeechHandler) record(requestID string, req SpeechRequest, result *tts.Result, elapsed time.Duration, status string) {
	entry := audit.Entry{
		RequestID:  requestID,
		Voice:      req.Voice,
		Language:   req.Language,
		Format:     req.ResponseFormat,
		Characters: utf8.RuneCountInString(req.Input),
		DurationMs: elapsed.Milliseconds(),
		Status:     status,
	}
	if result != nil {
		entry.CacheHit = result.CacheHit
		entry.Engine = result.Engine
		if result.CacheHit {
			entry.Engine = "cache"
		}
	}
	go h.auditSvc.Record(context.Background(), entry)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
