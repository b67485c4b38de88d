// Package api exposes the inspection service over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prosalmed/sstcheck/internal/config"
	"github.com/prosalmed/sstcheck/internal/logging"
	"github.com/prosalmed/sstcheck/internal/service"
)

// Router handles HTTP routing.
type Router struct {
	mux *http.ServeMux
	cfg *config.Config
	svc *service.Service
}

// NewRouter creates the API handler.
func NewRouter(cfg *config.Config, svc *service.Service) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		cfg: cfg,
		svc: svc,
	}
	r.setupRoutes()
	return requestLogger(r.mux)
}

func (r *Router) setupRoutes() {
	sessionHandlers := NewSessionHandlers(r.svc)
	historyHandlers := NewHistoryHandlers(r.svc)
	reportHandlers := NewReportHandlers(r.svc)

	r.mux.HandleFunc("/api/health", r.handleHealth)
	r.mux.HandleFunc("/api/catalog", r.handleCatalog)

	r.mux.HandleFunc("/api/session", sessionHandlers.HandleSession)
	r.mux.HandleFunc("/api/session/client", sessionHandlers.HandleClient)
	r.mux.HandleFunc("/api/session/items/", sessionHandlers.HandleItem)
	r.mux.HandleFunc("/api/session/stats", sessionHandlers.HandleStats)
	r.mux.HandleFunc("/api/session/finances", sessionHandlers.HandleFinances)
	r.mux.HandleFunc("/api/session/save", sessionHandlers.HandleSave)

	r.mux.HandleFunc("/api/history", historyHandlers.HandleList)
	r.mux.HandleFunc("/api/history/", historyHandlers.HandleRecord)

	r.mux.HandleFunc("/api/report", reportHandlers.HandleReport)
	r.mux.HandleFunc("/api/report/template", reportHandlers.HandleTemplate)
	r.mux.HandleFunc("/api/report/narrative", reportHandlers.HandleNarrative)
	r.mux.HandleFunc("/api/report/pdf", reportHandlers.HandlePDF)
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (r *Router) handleCatalog(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, r.svc.Catalog().Categories())
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, requestID := logging.WithRequestID(req.Context(), req.Header.Get("X-Request-ID"))
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req.WithContext(ctx))

		log.Debug().
			Str("request_id", requestID).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
