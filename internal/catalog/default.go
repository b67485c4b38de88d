package catalog

// Default returns the master SST questionnaire. The keys follow the historic
// s<section>q<question> scheme so records saved by earlier versions keep
// their item associations; they are assigned here as data, not computed.
func Default() *Catalog {
	return New([]Category{
		{
			Name: "1. Documentación Legal",
			Questions: []Question{
				{Key: "s0q0", Text: "¿La empresa posee RIF, NIL y solvencia IVSS/INCES?", Ref: "C.Com, Ley SS", Severity: SeverityMinor},
				{Key: "s0q1", Text: "¿Existe una Política de SST visible y aprobada?", Ref: "Art. 56 LOPCYMAT", Severity: SeveritySerious},
				{Key: "s0q2", Text: "¿Se mantiene la nómina al día?", Ref: "LOTTT", Severity: SeveritySerious},
			},
		},
		{
			Name: "2. Gestión de Trabajadores",
			Questions: []Question{
				{Key: "s1q0", Text: "¿Registro IVSS (14-02)?", Ref: "Art. 53 LOPCYMAT", Severity: SeveritySerious},
				{Key: "s1q1", Text: "¿Rutagramas firmados?", Ref: "Art. 69 LOPCYMAT", Severity: SeverityMinor},
				{Key: "s1q2", Text: "¿Notificación de Riesgos?", Ref: "Art. 56 LOPCYMAT", Severity: SeverityVerySerious},
			},
		},
		{
			Name: "3. Organización Preventiva",
			Questions: []Question{
				{Key: "s2q0", Text: "¿Delegados de Prevención electos?", Ref: "Art. 41 LOPCYMAT", Severity: SeveritySerious},
				{Key: "s2q1", Text: "¿Comité CSSL registrado?", Ref: "Art. 46 LOPCYMAT", Severity: SeveritySerious},
				{Key: "s2q2", Text: "¿El Servicio de SST funciona?", Ref: "Art. 39 LOPCYMAT", Severity: SeverityVerySerious},
			},
		},
		{
			Name: "4. Programa de SST",
			Questions: []Question{
				{Key: "s3q0", Text: "¿PSST aprobado bajo NT-04?", Ref: "NT-04", Severity: SeverityVerySerious},
				{Key: "s3q1", Text: "¿AST por puesto de trabajo?", Ref: "NT-04", Severity: SeveritySerious},
				{Key: "s3q2", Text: "¿Estadísticas de accidentes al día?", Ref: "Art. 73 LOPCYMAT", Severity: SeveritySerious},
			},
		},
		{
			Name: "5. Salud Ocupacional",
			Questions: []Question{
				{Key: "s4q0", Text: "¿Exámenes médicos al día?", Ref: "Art. 27 RLOPCYMAT", Severity: SeverityVerySerious},
				{Key: "s4q1", Text: "¿Vigilancia epidemiológica activa?", Ref: "Art. 34 RLOPCYMAT", Severity: SeveritySerious},
			},
		},
		{
			Name: "6. Seguridad Industrial",
			Questions: []Question{
				{Key: "s5q0", Text: "¿Tableros eléctricos cerrados e identificados?", Ref: "COVENIN 2000", Severity: SeverityVerySerious},
				{Key: "s5q1", Text: "¿Máquinas con guardas de seguridad?", Ref: "NT-04", Severity: SeverityVerySerious},
				{Key: "s5q2", Text: "¿Procedimiento de Bloqueo LOTO?", Ref: "Art. 59 LOPCYMAT", Severity: SeveritySerious},
			},
		},
		{
			Name: "7. Emergencias",
			Questions: []Question{
				{Key: "s6q0", Text: "¿Extintores vigentes y señalizados?", Ref: "COVENIN 1040", Severity: SeveritySerious},
				{Key: "s6q1", Text: "¿Rutas de evacuación libres?", Ref: "COVENIN 810", Severity: SeverityVerySerious},
			},
		},
		{
			Name: "8. EPP",
			Questions: []Question{
				{Key: "s7q0", Text: "¿Entrega de EPP registrada con firmas?", Ref: "Art. 53 LOPCYMAT", Severity: SeverityVerySerious},
				{Key: "s7q1", Text: "¿Uso correcto del EPP en planta?", Ref: "Art. 53", Severity: SeveritySerious},
			},
		},
	})
}
