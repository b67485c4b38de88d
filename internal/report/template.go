// Package report renders the inspection memorándum: either a fixed local
// template or an externally drafted narrative, and the PDF export of the
// active report.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

// defaultAction is the corrective-action fallback when a finding has none.
const defaultAction = "Adecuación inmediata"

// RenderTemplate builds the standard memorándum HTML. The structure is fixed
// and deterministic for the same inputs, so exports can be compared
// byte-for-byte.
func RenderTemplate(client inspection.ClientData, findings []inspection.Item, tally inspection.Tally, risk inspection.Risk) string {
	var b strings.Builder

	b.WriteString(`<div class="report-page">`)
	b.WriteString(`<div style="text-align:center; border-bottom:4px solid #1e3a8a; padding-bottom:25px; margin-bottom:40px;">`)
	b.WriteString(`<h1 style="margin:0; font-size:24pt;">INFORME DE INSPECCIÓN SST</h1>`)
	fmt.Fprintf(&b, `<p style="font-size:10pt; font-weight:bold;">%s | FECHA: %s</p>`, strings.ToUpper(client.Company), client.Date)
	b.WriteString(`</div>`)
	b.WriteString(`<h2 style="text-align:center; font-size:16pt; margin-bottom:40px;">MEMORÁNDUM TÉCNICO EJECUTIVO</h2>`)
	b.WriteString(`<p><b>PARA:</b> Gerencia General / Dirección de Operaciones</p>`)
	b.WriteString(`<p><b>DE:</b> Departamento de Seguridad e Higiene Ocupacional (SHA)</p>`)
	b.WriteString(`<p><b>ASUNTO:</b> Diagnóstico situacional de cumplimiento legal LOPCYMAT.</p>`)
	b.WriteString(`<hr style="margin:25px 0; border:1px solid #e2e8f0;">`)

	b.WriteString(`<h3>1. RESUMEN EJECUTIVO</h3>`)
	fmt.Fprintf(&b, `<p>Tras la auditoría realizada el día %s, se determinó un cumplimiento legal del <b>%d%%</b>.</p>`, client.Date, tally.Percentage)

	b.WriteString(`<h3>2. HALLAZGOS CRÍTICOS</h3><ul>`)
	if len(findings) == 0 {
		b.WriteString(`<li>No se detectaron no conformidades críticas.</li>`)
	}
	for _, f := range findings {
		obs := f.Observation
		if obs == "" {
			obs = f.Text
		}
		act := f.Action
		if act == "" {
			act = defaultAction
		}
		fmt.Fprintf(&b, `<li><b>%s:</b> %s. Acción recomendada: %s.</li>`, f.Section, obs, act)
	}
	b.WriteString(`</ul>`)

	b.WriteString(`<h3>3. MARCO LEGAL Y RIESGOS</h3>`)
	b.WriteString(`<p>El incumplimiento expone a sanciones pecuniarias (Art. 118-120 LOPCYMAT). Pasivo estimado:</p>`)
	b.WriteString(`<div style="background:#f8fafc; border:2px solid #000; padding:30px; text-align:center; margin:30px 0; border-radius:25px;">`)
	fmt.Fprintf(&b, `<p style="margin:0; font-size:24pt; font-weight:900; color:#c2410c;">%s Bs. (~$%s USD)</p>`, FormatBs(risk.Base), FormatUSD(risk.Secondary))
	b.WriteString(`</div>`)

	inspector := client.Inspector
	if inspector == "" {
		inspector = "INSPECTOR SHA"
	}
	b.WriteString(`<div style="display:flex; justify-content:space-between; margin-top:100px;">`)
	fmt.Fprintf(&b, `<div style="border-top:2px solid #000; width:40%%; text-align:center; padding-top:20px;"><b>%s</b></div>`, inspector)
	b.WriteString(`<div style="border-top:2px solid #000; width:40%; text-align:center; padding-top:20px;"><b>RECIBIDO POR EMPRESA</b></div>`)
	b.WriteString(`</div></div>`)

	return b.String()
}

// FormatBs renders a bolívar amount in es-VE style: "." as the thousands
// separator, "," for decimals, decimals only when the amount is fractional.
func FormatBs(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := v - float64(whole)

	s := groupThousands(whole, ".")
	if frac > 1e-9 {
		s += "," + fmt.Sprintf("%02d", int(math.Round(frac*100)))
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatUSD renders a dollar amount with two decimals.
func FormatUSD(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func groupThousands(n int64, sep string) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + sep + strings.Join(parts, sep)
}
