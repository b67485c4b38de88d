package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

func TestGeneratePDF(t *testing.T) {
	doc, err := GeneratePDF(PDFData{
		Client:   reportClient(),
		Findings: reportFindings(),
		Tally:    inspection.Tally{Percentage: 64, Answered: 14},
		Risk:     inspection.Risk{Points: 100, Base: 4500, Secondary: 79.79},
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGeneratePDFEmptySession(t *testing.T) {
	doc, err := GeneratePDF(PDFData{Client: inspection.ClientData{Date: "01/01/2026"}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGeneratePDFManyFindingsPaginates(t *testing.T) {
	var findings []inspection.Item
	for i := 0; i < 60; i++ {
		findings = append(findings, inspection.Item{
			Section:     "4. Condiciones de Riesgo",
			Observation: "Observación repetida para forzar varias páginas del documento",
		})
	}
	doc, err := GeneratePDF(PDFData{Client: reportClient(), Findings: findings})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestPDFFilename(t *testing.T) {
	assert.Equal(t, "Informe_SST_Industrias_Acme_C.A..pdf", PDFFilename("Industrias Acme C.A."))
	assert.Equal(t, "Informe_SST_Taller.pdf", PDFFilename("  Taller  "))
	assert.Equal(t, "Informe_SST_a_b.pdf", PDFFilename("a\t\nb"))
	assert.Equal(t, "Informe_SST_etcpasswd.pdf", PDFFilename("../etc/passwd"))
}
