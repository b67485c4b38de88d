package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prosalmed/sstcheck/internal/history"
	"github.com/prosalmed/sstcheck/internal/inspection"
	"github.com/prosalmed/sstcheck/internal/service"
)

// SessionHandlers serves the current inspection session.
type SessionHandlers struct {
	svc *service.Service
}

// NewSessionHandlers creates session handlers.
func NewSessionHandlers(svc *service.Service) *SessionHandlers {
	return &SessionHandlers{svc: svc}
}

// HandleSession returns the whole session (GET) or discards it for a fresh
// one (DELETE).
func (h *SessionHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]interface{}{
			"client": h.svc.Client(),
			"items":  h.svc.Items(),
		})
	case http.MethodDelete:
		h.svc.Reset()
		writeJSON(w, map[string]string{"status": "reset"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleClient reads or replaces the client metadata.
func (h *SessionHandlers) HandleClient(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.svc.Client())
	case http.MethodPut:
		var client inspection.ClientData
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			writeError(w, http.StatusBadRequest, "invalid client data")
			return
		}
		h.svc.SetClient(client)
		writeJSON(w, client)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleItem routes /api/session/items/{key}/status and .../detail.
func (h *SessionHandlers) HandleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/session/items/")
	key, action, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch action {
	case "status":
		var body struct {
			Status inspection.Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid status payload")
			return
		}
		if err := h.svc.SetStatus(key, body.Status); err != nil {
			writeItemError(w, err)
			return
		}
	case "detail":
		var body struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid detail payload")
			return
		}
		if err := h.svc.SetDetail(key, body.Field, body.Value); err != nil {
			writeItemError(w, err)
			return
		}
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	writeJSON(w, h.svc.Stats())
}

// HandleStats returns the tally and risk for the current session.
func (h *SessionHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.svc.Stats())
}

// HandleFinances reads or replaces the financial parameters.
func (h *SessionHandlers) HandleFinances(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.svc.Finances())
	case http.MethodPut:
		var params inspection.FinancialParameters
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid financial parameters")
			return
		}
		writeJSON(w, h.svc.SetFinances(params))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSave appends the current session to history.
func (h *SessionHandlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	record, err := h.svc.Save()
	if err != nil {
		if errors.Is(err, history.ErrCompanyRequired) {
			writeError(w, http.StatusBadRequest, "Debe ingresar el nombre de la empresa.")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, record)
}

func writeItemError(w http.ResponseWriter, err error) {
	if errors.Is(err, inspection.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
