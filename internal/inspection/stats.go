package inspection

import (
	"math"

	"github.com/prosalmed/sstcheck/internal/catalog"
)

// Severity point multipliers from the LOPCYMAT sanction tiers (Art. 118-120).
// Domain constants, taken as given.
const (
	pointsMinor       = 20
	pointsSerious     = 50
	pointsVerySerious = 80
)

// Tally summarizes the answered items of a session.
type Tally struct {
	Compliant     int `json:"compliant"`
	NonCompliant  int `json:"nonCompliant"`
	NotApplicable int `json:"notApplicable"`
	Answered      int `json:"answered"`
	// Percentage is compliant over (compliant + non-compliant), rounded.
	// Not-applicable answers count toward Answered but never toward the
	// percentage denominator.
	Percentage int `json:"percentage"`
}

// ComputeTally re-derives the tally from scratch. At a couple dozen items a
// full pass per change is cheaper than maintaining it incrementally.
func (s *Session) ComputeTally() Tally {
	var t Tally
	for _, item := range s.items {
		switch item.Status {
		case StatusCompliant:
			t.Compliant++
		case StatusNonCompliant:
			t.NonCompliant++
		case StatusNotApplies:
			t.NotApplicable++
		default:
			continue
		}
		t.Answered++
	}
	denom := t.Compliant + t.NonCompliant
	if denom == 0 {
		denom = 1
	}
	t.Percentage = int(math.Round(100 * float64(t.Compliant) / float64(denom)))
	return t
}

// FinancialParameters are the user-editable scalars behind the penalty
// estimate: the tax-unit value (Bs.), the BCV exchange rate (Bs. per USD) and
// the company head count.
type FinancialParameters struct {
	FineUnit     float64 `json:"ut"`
	ExchangeRate float64 `json:"bcv"`
	Workers      int     `json:"workers"`
}

// Normalize replaces degenerate inputs with safe values: a non-positive
// exchange rate becomes 1 so the secondary amount can never be Inf or NaN,
// and a non-positive worker count becomes 1.
func (p FinancialParameters) Normalize() FinancialParameters {
	if p.ExchangeRate <= 0 {
		p.ExchangeRate = 1
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	return p
}

// Risk is the monetary penalty estimate for the session's non-compliant
// items.
type Risk struct {
	Points    int     `json:"points"`
	Base      float64 `json:"bs"`  // Bs.
	Secondary float64 `json:"usd"` // base divided by the exchange rate
}

// ComputeRisk estimates the fine exposure. Every non-compliant item adds its
// severity multiplier times the worker count; not-applicable and unanswered
// items never contribute.
func (s *Session) ComputeRisk(params FinancialParameters) Risk {
	params = params.Normalize()
	points := 0
	for _, item := range s.items {
		if item.Status != StatusNonCompliant {
			continue
		}
		points += severityPoints(item.Severity) * params.Workers
	}
	base := float64(points) * params.FineUnit
	return Risk{
		Points:    points,
		Base:      base,
		Secondary: base / params.ExchangeRate,
	}
}

func severityPoints(s catalog.Severity) int {
	switch s {
	case catalog.SeverityVerySerious:
		return pointsVerySerious
	case catalog.SeveritySerious:
		return pointsSerious
	default:
		return pointsMinor
	}
}
