package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prosalmed/sstcheck/internal/history"
	"github.com/prosalmed/sstcheck/internal/service"
)

// HistoryHandlers serves the saved inspection records.
type HistoryHandlers struct {
	svc *service.Service
}

// NewHistoryHandlers creates history handlers.
func NewHistoryHandlers(svc *service.Service) *HistoryHandlers {
	return &HistoryHandlers{svc: svc}
}

// recordSummary is the listing shape: id and denormalized header fields,
// without the full item state.
type recordSummary struct {
	ID      string `json:"id"`
	Date    string `json:"fecha"`
	Company string `json:"cliente"`
}

// HandleList returns all records, most recent first.
func (h *HistoryHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records := h.svc.History()
	summaries := make([]recordSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, recordSummary{ID: rec.ID, Date: rec.Date, Company: rec.Company})
	}
	writeJSON(w, summaries)
}

// HandleRecord routes DELETE /api/history/{id} and POST
// /api/history/{id}/load.
func (h *HistoryHandlers) HandleRecord(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/history/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.Error(w, "Record ID required", http.StatusBadRequest)
		return
	}

	switch {
	case r.Method == http.MethodDelete && action == "":
		if err := h.svc.DeleteRecord(id); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	case r.Method == http.MethodPost && action == "load":
		if err := h.svc.LoadRecord(id); err != nil {
			if errors.Is(err, history.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]interface{}{
			"client": h.svc.Client(),
			"items":  h.svc.Items(),
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
