package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/queue"
)

const maxBatchItems = 100

type BatchRequest struct {
	Items []SpeechRequest `json:"items"`
}

type BatchHandler struct {
	queue *queue.Client
	cfg   config.TTSConfig
}

func NewBatchHandler(qc *queue.Client, cfg config.TTSConfig) *BatchHandler {
	return &BatchHandler{queue: qc, cfg: cfg}
}

// Enqueue validates every item up front and queues them for background
// synthesis, which warms the cache for later lookups. Nothing is queued
// unless the whole batch is valid.
func (h *BatchHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items is required"})
		return
	}
	if len(req.Items) > maxBatchItems {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("batch exceeds %d items", maxBatchItems),
		})
		return
	}

	for i := range req.Items {
		req.Items[i].Normalize(h.cfg)
		if err := req.Items[i].Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("items[%d]: %v", i, err),
			})
			return
		}
	}

	taskIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := h.queue.EnqueueSpeechSynthesize(queue.SpeechSynthesizePayload{
			RequestID: uuid.NewString(),
			Text:      item.Input,
			Voice:     item.Voice,
			Language:  item.Language,
			Model:     item.Model,
			Speed:     item.Speed,
			Format:    item.ResponseFormat,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		taskIDs = append(taskIDs, id)
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":   "queued",
		"task_ids": taskIDs,
	})
}
