package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sstcheck_history_saves_total",
		Help: "Number of inspection snapshots appended to history.",
	})

	narrativeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sstcheck_narrative_requests_total",
		Help: "Narrative generation requests by outcome.",
	}, []string{"status"})

	pdfExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sstcheck_pdf_exports_total",
		Help: "Number of PDF report exports.",
	})
)
