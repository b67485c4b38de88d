package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

// Color scheme matching the memorándum template.
var (
	colorHeader    = [3]int{30, 58, 138}  // #1e3a8a
	colorTextDark  = [3]int{30, 41, 59}   // Slate
	colorTextMuted = [3]int{100, 116, 139}
	colorRisk      = [3]int{194, 65, 12} // #c2410c
	colorBoxFill   = [3]int{248, 250, 252}
	colorRule      = [3]int{226, 232, 240}
)

// PDFData carries everything the exported document needs.
type PDFData struct {
	Client   inspection.ClientData
	Findings []inspection.Item
	Tally    inspection.Tally
	Risk     inspection.Risk
}

// GeneratePDF renders the memorándum as a single A4 document. The layout
// mirrors the HTML template sections: header, memo block, resumen, hallazgos,
// riesgo, firmas.
func GeneratePDF(data PDFData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 40

	// Header
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 10, tr("INFORME DE INSPECCIÓN SST"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s | FECHA: %s", strings.ToUpper(data.Client.Company), data.Client.Date)), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(colorHeader[0], colorHeader[1], colorHeader[2])
	pdf.SetLineWidth(1.2)
	pdf.Line(20, pdf.GetY()+3, pageWidth-20, pdf.GetY()+3)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 8, tr("MEMORÁNDUM TÉCNICO EJECUTIVO"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Memo block
	pdf.SetFont("Arial", "", 10)
	memoLine(pdf, tr, "PARA:", "Gerencia General / Dirección de Operaciones")
	memoLine(pdf, tr, "DE:", "Departamento de Seguridad e Higiene Ocupacional (SHA)")
	memoLine(pdf, tr, "ASUNTO:", "Diagnóstico situacional de cumplimiento legal LOPCYMAT.")

	pdf.SetDrawColor(colorRule[0], colorRule[1], colorRule[2])
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY()+4, pageWidth-20, pdf.GetY()+4)
	pdf.Ln(10)

	// 1. Resumen ejecutivo
	sectionTitle(pdf, tr, "1. RESUMEN EJECUTIVO")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(contentWidth, 5.5, tr(fmt.Sprintf(
		"Tras la auditoría realizada el día %s, se determinó un cumplimiento legal del %d%%.",
		data.Client.Date, data.Tally.Percentage)), "", "L", false)
	pdf.Ln(4)

	// 2. Hallazgos
	sectionTitle(pdf, tr, "2. HALLAZGOS CRÍTICOS")
	pdf.SetFont("Arial", "", 10)
	if len(data.Findings) == 0 {
		pdf.MultiCell(contentWidth, 5.5, tr("No se detectaron no conformidades críticas."), "", "L", false)
	}
	for _, f := range data.Findings {
		obs := f.Observation
		if obs == "" {
			obs = f.Text
		}
		act := f.Action
		if act == "" {
			act = defaultAction
		}
		pdf.SetX(24)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(4, 5.5, "-", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(contentWidth-8, 5.5, tr(fmt.Sprintf(
			"%s: %s. Acción recomendada: %s.", f.Section, obs, act)), "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(3)

	// 3. Marco legal y riesgos
	sectionTitle(pdf, tr, "3. MARCO LEGAL Y RIESGOS")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(contentWidth, 5.5, tr(
		"El incumplimiento expone a sanciones pecuniarias (Art. 118-120 LOPCYMAT). Pasivo estimado:"), "", "L", false)
	pdf.Ln(4)

	// Risk box
	if pdf.GetY() > 230 {
		pdf.AddPage()
	}
	boxY := pdf.GetY()
	pdf.SetFillColor(colorBoxFill[0], colorBoxFill[1], colorBoxFill[2])
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	pdf.RoundedRect(20, boxY, contentWidth, 24, 4, "1234", "FD")
	pdf.SetY(boxY + 8)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(colorRisk[0], colorRisk[1], colorRisk[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s Bs. (~$%s USD)", FormatBs(data.Risk.Base), FormatUSD(data.Risk.Secondary))), "", 1, "C", false, 0, "")
	pdf.SetY(boxY + 30)

	// Signature blocks
	if pdf.GetY() < 230 {
		pdf.SetY(230)
	}
	inspector := data.Client.Inspector
	if inspector == "" {
		inspector = "INSPECTOR SHA"
	}
	sigY := pdf.GetY()
	sigWidth := contentWidth * 0.4
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, sigY, 20+sigWidth, sigY)
	pdf.Line(pageWidth-20-sigWidth, sigY, pageWidth-20, sigY)
	pdf.SetY(sigY + 4)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.SetX(20)
	pdf.CellFormat(sigWidth, 5, tr(strings.ToUpper(inspector)), "", 0, "C", false, 0, "")
	pdf.SetX(pageWidth - 20 - sigWidth)
	pdf.CellFormat(sigWidth, 5, tr("RECIBIDO POR EMPRESA"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(colorHeader[0], colorHeader[1], colorHeader[2])
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func memoLine(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(22, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// PDFFilename derives the download name from the company: whitespace becomes
// underscores, path separators are stripped.
func PDFFilename(company string) string {
	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(company), "_")
	name = strings.NewReplacer("/", "", "\\", "", "..", "").Replace(name)
	return fmt.Sprintf("Informe_SST_%s.pdf", name)
}
