package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/autotts/autotts/internal/audit"
)

type AdminHandler struct {
	auditSvc *audit.Service
}

func NewAdminHandler(auditSvc *audit.Service) *AdminHandler {
	return &AdminHandler{auditSvc: auditSvc}
}

// Usage reports per-engine synthesis totals, optionally bounded by
// start_date and end_date (RFC3339). Malformed dates are ignored rather
// than rejected.
func (h *AdminHandler) Usage(w http.ResponseWriter, r *http.Request) {
	var startDate, endDate *time.Time

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			startDate = &t
		}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			endDate = &t
		}
	}

	summary, err := h.auditSvc.GetUsageSummary(r.Context(), startDate, endDate)
	if err != nil {
		writeAuditError(w, err)
		return
	}
	if summary == nil {
		summary = []audit.UsageSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"usage": summary})
}

// Logs returns recent synthesis outcomes, newest first.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}

	logs, err := h.auditSvc.Recent(r.Context(), limit, offset)
	if err != nil {
		writeAuditError(w, err)
		return
	}
	if logs == nil {
		logs = []audit.SynthesisLog{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs, "count": len(logs)})
}

func writeAuditError(w http.ResponseWriter, err error) {
	if errors.Is(err, audit.ErrDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
