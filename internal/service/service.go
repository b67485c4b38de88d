// Package service owns the one active inspection session and coordinates the
// stores, the aggregations, the report state and the narrative collaborator.
// All state lives on the Service; there are no package-level sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/prosalmed/sstcheck/internal/ai"
	"github.com/prosalmed/sstcheck/internal/catalog"
	"github.com/prosalmed/sstcheck/internal/history"
	"github.com/prosalmed/sstcheck/internal/inspection"
	"github.com/prosalmed/sstcheck/internal/report"
)

var (
	// ErrNothingAnswered is returned when a narrative is requested before
	// any item has been answered.
	ErrNothingAnswered = errors.New("complete the inspection first")

	// ErrGenerationBusy is returned while a narrative request is already
	// in flight. Requests are not queued and cannot be cancelled.
	ErrGenerationBusy = errors.New("narrative generation already in progress")

	// ErrNoNarrator is returned when no narrative backend is configured.
	ErrNoNarrator = errors.New("narrative service not configured")
)

// Narrator drafts report text from a prompt. Implemented by ai.GeminiClient.
type Narrator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service is the single-session application core.
type Service struct {
	mu         sync.Mutex
	catalog    *catalog.Catalog
	session    *inspection.Session
	finances   inspection.FinancialParameters
	reportHTML string
	generating bool

	store    history.Store
	narrator Narrator
}

// New creates a service with a fresh session over the given catalog.
func New(cat *catalog.Catalog, store history.Store, narrator Narrator, finances inspection.FinancialParameters) *Service {
	return &Service{
		catalog:  cat,
		session:  inspection.NewSession(cat),
		finances: finances.Normalize(),
		store:    store,
		narrator: narrator,
	}
}

// Catalog returns the questionnaire behind the session.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Reset discards the current session and starts a fresh one. The report and
// the persisted history are untouched.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = inspection.NewSession(s.catalog)
}

// Client returns the current client metadata.
func (s *Service) Client() inspection.ClientData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Client
}

// SetClient replaces the client metadata.
func (s *Service) SetClient(client inspection.ClientData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Client = client
}

// ItemView pairs an item with its key for ordered listings.
type ItemView struct {
	Key string `json:"key"`
	inspection.Item
}

// Items returns the session items in catalog order.
func (s *Service) Items() []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.session.Keys()
	out := make([]ItemView, 0, len(keys))
	for _, k := range keys {
		item, err := s.session.Item(k)
		if err != nil {
			continue
		}
		out = append(out, ItemView{Key: k, Item: item})
	}
	return out
}

// SetStatus answers one item.
func (s *Service) SetStatus(key string, status inspection.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SetStatus(key, status)
}

// SetDetail updates a finding field on one item.
func (s *Service) SetDetail(key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SetDetail(key, field, value)
}

// Finances returns the current financial parameters.
func (s *Service) Finances() inspection.FinancialParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finances
}

// SetFinances replaces the financial parameters, normalizing degenerate
// values (zero exchange rate, zero workers).
func (s *Service) SetFinances(p inspection.FinancialParameters) inspection.FinancialParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finances = p.Normalize()
	return s.finances
}

// Stats bundles the two aggregations.
type Stats struct {
	Tally inspection.Tally `json:"tally"`
	Risk  inspection.Risk  `json:"risk"`
}

// Stats re-derives tally and risk from the current session.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Service) statsLocked() Stats {
	return Stats{
		Tally: s.session.ComputeTally(),
		Risk:  s.session.ComputeRisk(s.finances),
	}
}

// Save snapshots the session into a new history record. The session stays
// editable; a later save appends another record.
func (s *Service) Save() (history.Record, error) {
	s.mu.Lock()
	client := s.session.Client
	state := s.session.State()
	s.mu.Unlock()

	record, err := s.store.Append(client, state)
	if err != nil {
		return history.Record{}, err
	}
	savesTotal.Inc()
	return record, nil
}

// History returns all saved records, most recent first.
func (s *Service) History() []history.Record {
	return s.store.Load()
}

// DeleteRecord removes a record by id; unknown ids are a no-op.
func (s *Service) DeleteRecord(id string) error {
	return s.store.Delete(id)
}

// LoadRecord restores a saved record as the current session, replacing the
// in-memory state wholesale.
func (s *Service) LoadRecord(id string) error {
	record, err := s.store.Record(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Restore(record.Client, record.State)
	log.Info().Str("id", id).Str("company", record.Company).Msg("History record restored into session")
	return nil
}

// RenderTemplate builds the standard memorándum from the current session and
// makes it the active report.
func (s *Service) RenderTemplate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.statsLocked()
	html := report.RenderTemplate(s.session.Client, s.session.Findings(), stats.Tally, stats.Risk)
	s.reportHTML = html
	return html
}

// GenerateNarrative asks the external service to draft the memorándum. Only
// one request may be in flight; on any failure the previous report content is
// left untouched.
func (s *Service) GenerateNarrative(ctx context.Context) (string, error) {
	if s.narrator == nil {
		return "", ErrNoNarrator
	}

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return "", ErrGenerationBusy
	}
	if s.session.Answered() == 0 {
		s.mu.Unlock()
		return "", ErrNothingAnswered
	}
	s.generating = true
	client := s.session.Client
	findings := s.session.Findings()
	stats := s.statsLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	prompt := ai.BuildPrompt(client, findings,
		fmt.Sprintf("%d%%", stats.Tally.Percentage),
		fmt.Sprintf("%s Bs.", report.FormatBs(stats.Risk.Base)),
		fmt.Sprintf("$%s", report.FormatUSD(stats.Risk.Secondary)))

	text, err := s.narrator.Generate(ctx, prompt)
	if err != nil {
		narrativeTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("narrative service: %w", err)
	}

	clean, err := report.Sanitize(text)
	if err != nil {
		narrativeTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("sanitize narrative: %w", err)
	}

	s.mu.Lock()
	s.reportHTML = clean
	s.mu.Unlock()
	narrativeTotal.WithLabelValues("ok").Inc()
	return clean, nil
}

// Report returns the active report HTML, empty if none was produced yet.
func (s *Service) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportHTML
}

// ClearReport discards the active report.
func (s *Service) ClearReport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportHTML = ""
}

// ExportPDF renders the memorándum as a PDF and returns the document with
// its download filename.
func (s *Service) ExportPDF() ([]byte, string, error) {
	s.mu.Lock()
	data := report.PDFData{
		Client:   s.session.Client,
		Findings: s.session.Findings(),
	}
	stats := s.statsLocked()
	s.mu.Unlock()

	data.Tally = stats.Tally
	data.Risk = stats.Risk

	doc, err := report.GeneratePDF(data)
	if err != nil {
		return nil, "", err
	}
	pdfExportsTotal.Inc()
	return doc, report.PDFFilename(data.Client.Company), nil
}
