package models

// Nombres de las hojas del libro
const (
	SheetWholeData = "Whole Data"
	SheetHighTop   = "High top ten"
	SheetLowTop    = "Low top ten"
)

// WorkbookSheets es el orden en que se escriben las hojas
var WorkbookSheets = []string{SheetWholeData, SheetHighTop, SheetLowTop}

// IsWorkbookSheet indica si el nombre corresponde a una de las tres hojas
func IsWorkbookSheet(name string) bool {
	for _, s := range WorkbookSheets {
		if s == name {
			return true
		}
	}
	return false
}

// Table es una hoja en memoria: encabezado mas filas de celdas
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// RowMaps convierte las filas en mapas columna -> valor para responder en JSON
func (t Table) RowMaps() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				m[col] = row[i]
			} else {
				m[col] = nil
			}
		}
		out = append(out, m)
	}
	return out
}
