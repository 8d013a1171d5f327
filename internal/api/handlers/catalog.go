package handlers

import (
	"net/http"

	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/tts"
)

// modelCreated is the fixed creation timestamp advertised for every model,
// matching what OpenAI-compatible clients expect to find in the field.
const modelCreated = 1699046015

type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

type CatalogHandler struct {
	orch *tts.Orchestrator
	svc  *tts.Service
	cfg  config.TTSConfig
}

func NewCatalogHandler(orch *tts.Orchestrator, svc *tts.Service, cfg config.TTSConfig) *CatalogHandler {
	return &CatalogHandler{orch: orch, svc: svc, cfg: cfg}
}

// Models lists the base models plus one alias per registered engine, in the
// OpenAI list envelope.
func (h *CatalogHandler) Models(w http.ResponseWriter, r *http.Request) {
	models := []Model{
		{ID: "tts-1", Object: "model", Created: modelCreated, OwnedBy: config.ServiceName},
		{ID: "tts-1-hd", Object: "model", Created: modelCreated, OwnedBy: config.ServiceName},
	}
	for _, e := range h.orch.Engines() {
		models = append(models, Model{
			ID:      "tts-1-" + e.Name(),
			Object:  "model",
			Created: modelCreated,
			OwnedBy: config.ServiceName,
		})
	}
	writeJSON(w, http.StatusOK, ModelList{Object: "list", Data: models})
}

func (h *CatalogHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices := h.orch.ListVoices()
	if voices == nil {
		voices = []tts.VoiceInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"voices": voices})
}

func (h *CatalogHandler) Languages(w http.ResponseWriter, r *http.Request) {
	languages := h.orch.ListLanguages()
	if languages == nil {
		languages = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"languages": languages})
}

type engineInfo struct {
	Name      string   `json:"name"`
	Voices    int      `json:"voices"`
	Languages int      `json:"languages"`
	Formats   []string `json:"formats"`
}

// Info describes the running service: registered engines with their
// catalog sizes, cache state, and the formats the API accepts.
func (h *CatalogHandler) Info(w http.ResponseWriter, r *http.Request) {
	engines := []engineInfo{}
	for _, e := range h.orch.Engines() {
		engines = append(engines, engineInfo{
			Name:      e.Name(),
			Voices:    len(e.Voices()),
			Languages: len(e.Languages()),
			Formats:   e.Formats(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"server":                  config.ServiceName,
		"version":                 config.Version,
		"engines":                 engines,
		"cache_enabled":           h.svc.CacheEnabled(),
		"auto_language_detection": h.cfg.AutoDetectLanguage,
		"supported_formats":       supportedFormats,
		"api_base":                "/v1",
	})
}
