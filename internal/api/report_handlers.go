package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prosalmed/sstcheck/internal/service"
)

// ReportHandlers serves the active report and its exports.
type ReportHandlers struct {
	svc *service.Service
}

// NewReportHandlers creates report handlers.
func NewReportHandlers(svc *service.Service) *ReportHandlers {
	return &ReportHandlers{svc: svc}
}

// HandleReport returns the active report HTML (GET) or discards it (DELETE).
func (h *ReportHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]string{"html": h.svc.Report()})
	case http.MethodDelete:
		h.svc.ClearReport()
		writeJSON(w, map[string]string{"status": "cleared"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTemplate renders the standard template as the active report.
func (h *ReportHandlers) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"html": h.svc.RenderTemplate()})
}

// HandleNarrative asks the external service to draft the report. On failure
// the previous report stays active and a single error is returned.
func (h *ReportHandlers) HandleNarrative(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	html, err := h.svc.GenerateNarrative(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGenerationBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNothingAnswered):
			writeError(w, http.StatusBadRequest, "Complete la inspección primero.")
		case errors.Is(err, service.ErrNoNarrator):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusBadGateway, "Fallo al conectar con la IA.")
		}
		return
	}
	writeJSON(w, map[string]string{"html": html})
}

// HandlePDF streams the exported document as an attachment.
func (h *ReportHandlers) HandlePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc, filename, err := h.svc.ExportPDF()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(doc)
}
