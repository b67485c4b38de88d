package ai

import (
	"fmt"
	"strings"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

// BuildPrompt assembles the memorándum drafting prompt: consultant persona,
// key figures, findings grouped by checklist area, and the required document
// structure. compliance, riskBs and riskUsd arrive pre-formatted.
func BuildPrompt(client inspection.ClientData, findings []inspection.Item, compliance, riskBs, riskUsd string) string {
	var areas []string
	grouped := make(map[string][]inspection.Item)
	for _, f := range findings {
		if _, seen := grouped[f.Section]; !seen {
			areas = append(areas, f.Section)
		}
		grouped[f.Section] = append(grouped[f.Section], f)
	}

	var context strings.Builder
	for i, area := range areas {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "ÁREA: %s\n", area)
		for j, item := range grouped[area] {
			if j > 0 {
				context.WriteString("\n")
			}
			fmt.Fprintf(&context, "- Desviación: %s\n  Hallazgo: %s\n  Acción Recomendada: %s", item.Text, item.Observation, item.Action)
		}
	}

	return fmt.Sprintf(`Actúa como un Consultor Senior de Seguridad y Salud en el Trabajo (SST) experto en la LOPCYMAT.
  Genera un INFORME TÉCNICO en formato de MEMORÁNDUM EJECUTIVO para '%s'.

  DATOS CLAVE:
  - Cliente: %s
  - Fecha: %s
  - Nivel de Cumplimiento: %s
  - Riesgo Económico: %s (%s)
  - Inspector: %s

  HALLAZGOS TÉCNICOS:
  %s

  REQUISITOS DEL DOCUMENTO:
  - Usa tags HTML: <h3>, <p>, <ul>, <li>, <b>.
  - El texto debe ser negro (#000).
  - Estructura: Encabezado de Memorándum (De, Para, Asunto, Fecha), Resumen Ejecutivo, Diagnóstico Situacional Narrativo, Marco Legal y Recomendaciones Prioritarias.
  - El tono debe ser profesional, persuasivo y técnico.`,
		client.Company, client.Company, client.Date, compliance, riskBs, riskUsd, client.Inspector, context.String())
}
