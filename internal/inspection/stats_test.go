package inspection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyEmptySession(t *testing.T) {
	s := NewSession(testCatalog())
	tally := s.ComputeTally()

	assert.Zero(t, tally.Answered)
	assert.Zero(t, tally.Percentage)
}

func TestTallyWorkedExample(t *testing.T) {
	// Two categories of three questions, six items total: two "No" (one
	// minor, one very serious), one "NA", three unanswered.
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s0q0", StatusNonCompliant)) // leve
	require.NoError(t, s.SetStatus("s1q0", StatusNonCompliant)) // muy-grave
	require.NoError(t, s.SetStatus("s0q1", StatusNotApplies))

	tally := s.ComputeTally()
	assert.Equal(t, 0, tally.Compliant)
	assert.Equal(t, 2, tally.NonCompliant)
	assert.Equal(t, 1, tally.NotApplicable)
	assert.Equal(t, 3, tally.Answered)
	assert.Equal(t, 0, tally.Percentage)

	risk := s.ComputeRisk(FinancialParameters{FineUnit: 45.0, ExchangeRate: 1, Workers: 1})
	assert.Equal(t, 100, risk.Points)
	assert.InDelta(t, 4500.0, risk.Base, 1e-9)
}

func TestTallyCountsAddUp(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s0q0", StatusCompliant))
	require.NoError(t, s.SetStatus("s0q1", StatusCompliant))
	require.NoError(t, s.SetStatus("s0q2", StatusNonCompliant))
	require.NoError(t, s.SetStatus("s1q0", StatusNotApplies))

	tally := s.ComputeTally()
	assert.Equal(t, tally.Answered, tally.Compliant+tally.NonCompliant+tally.NotApplicable)
	assert.LessOrEqual(t, tally.Answered, len(s.Keys()))
	// 2 of 3 answered sí/no → 67%.
	assert.Equal(t, 67, tally.Percentage)
}

func TestTallyAllNotApplicable(t *testing.T) {
	s := NewSession(testCatalog())
	for _, k := range s.Keys() {
		require.NoError(t, s.SetStatus(k, StatusNotApplies))
	}
	tally := s.ComputeTally()
	assert.Equal(t, 6, tally.Answered)
	assert.Zero(t, tally.Percentage)
}

func TestRiskZeroWithoutFindings(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s0q0", StatusCompliant))
	require.NoError(t, s.SetStatus("s0q1", StatusNotApplies))

	risk := s.ComputeRisk(FinancialParameters{FineUnit: 45, ExchangeRate: 56.4, Workers: 10})
	assert.Zero(t, risk.Points)
	assert.Zero(t, risk.Base)
	assert.Zero(t, risk.Secondary)
}

func TestRiskSeverityWeights(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s0q0", StatusNonCompliant)) // leve: 20
	require.NoError(t, s.SetStatus("s0q1", StatusNonCompliant)) // grave: 50
	require.NoError(t, s.SetStatus("s1q0", StatusNonCompliant)) // muy-grave: 80

	risk := s.ComputeRisk(FinancialParameters{FineUnit: 1, ExchangeRate: 1, Workers: 1})
	assert.Equal(t, 150, risk.Points)
}

func TestRiskMonotonicInWorkersAndFineUnit(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s1q0", StatusNonCompliant))

	base := s.ComputeRisk(FinancialParameters{FineUnit: 45, ExchangeRate: 1, Workers: 1})
	moreWorkers := s.ComputeRisk(FinancialParameters{FineUnit: 45, ExchangeRate: 1, Workers: 5})
	higherUnit := s.ComputeRisk(FinancialParameters{FineUnit: 90, ExchangeRate: 1, Workers: 1})

	assert.GreaterOrEqual(t, moreWorkers.Base, base.Base)
	assert.GreaterOrEqual(t, higherUnit.Base, base.Base)
	assert.Equal(t, base.Base*5, moreWorkers.Base)
	assert.Equal(t, base.Base*2, higherUnit.Base)
}

func TestRiskZeroExchangeRateNeverNaN(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s1q0", StatusNonCompliant))

	risk := s.ComputeRisk(FinancialParameters{FineUnit: 45, ExchangeRate: 0, Workers: 1})
	assert.False(t, math.IsNaN(risk.Secondary))
	assert.False(t, math.IsInf(risk.Secondary, 0))
	// Rate falls back to 1: secondary equals base.
	assert.Equal(t, risk.Base, risk.Secondary)
}

func TestNormalize(t *testing.T) {
	p := FinancialParameters{FineUnit: 45, ExchangeRate: 0, Workers: 0}.Normalize()
	assert.Equal(t, 1.0, p.ExchangeRate)
	assert.Equal(t, 1, p.Workers)

	p = FinancialParameters{FineUnit: 45, ExchangeRate: 56.4, Workers: 3}.Normalize()
	assert.Equal(t, 56.4, p.ExchangeRate)
	assert.Equal(t, 3, p.Workers)
}

func TestRiskSecondaryConversion(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.SetStatus("s0q0", StatusNonCompliant)) // 20 points

	risk := s.ComputeRisk(FinancialParameters{FineUnit: 45, ExchangeRate: 56.4, Workers: 2})
	assert.Equal(t, 40, risk.Points)
	assert.InDelta(t, 1800.0, risk.Base, 1e-9)
	assert.InDelta(t, 1800.0/56.4, risk.Secondary, 1e-9)
}
