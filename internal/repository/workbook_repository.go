package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrMalformedWorkbook indica que el archivo existe pero no se puede leer
	ErrMalformedWorkbook = errors.New("existing workbook is malformed")
	// ErrWorkbookNotFound indica que todavía no se guardó ninguna corrida
	ErrWorkbookNotFound = errors.New("workbook not found")
)

// Columnas que siempre se guardan como texto
var textColumns = map[string]bool{
	"name": true,
	"roi":  true,
	"Date": true,
	"Time": true,
}

type WorkbookRepository struct {
	path string
}

func NewWorkbookRepository(path string) *WorkbookRepository {
	return &WorkbookRepository{path: path}
}

func (r *WorkbookRepository) Path() string {
	return r.path
}

// Append agrega las filas nuevas a las tres hojas y reescribe el archivo completo.
// Si el archivo no existe se crea solo con los datos de esta corrida.
func (r *WorkbookRepository) Append(rows, gainers, losers []models.MarketRow) error {
	existing := map[string]models.Table{}

	_, err := os.Stat(r.path)
	switch {
	case err == nil:
		log.Println("Appending to existing file...")
		existing, err = r.readAll()
		if err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("No existe %s, se crea un libro nuevo", r.path)
	default:
		return fmt.Errorf("error al verificar %s: %w", r.path, err)
	}

	merged := map[string]models.Table{
		models.SheetWholeData: appendRows(existing[models.SheetWholeData], rows),
		models.SheetHighTop:   appendRows(existing[models.SheetHighTop], gainers),
		models.SheetLowTop:    appendRows(existing[models.SheetLowTop], losers),
	}

	if err := r.write(merged); err != nil {
		return err
	}

	log.Println("Data saved successfully!")
	return nil
}

// ReadSheet lee una de las tres hojas del libro
func (r *WorkbookRepository) ReadSheet(sheet string) (models.Table, error) {
	if !models.IsWorkbookSheet(sheet) {
		return models.Table{}, fmt.Errorf("hoja desconocida: %q", sheet)
	}
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Table{}, ErrWorkbookNotFound
		}
		return models.Table{}, err
	}

	tables, err := r.readAll()
	if err != nil {
		return models.Table{}, err
	}
	return tables[sheet], nil
}

func (r *WorkbookRepository) readAll() (map[string]models.Table, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedWorkbook, r.path, err)
	}
	defer f.Close()

	present := map[string]bool{}
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	tables := map[string]models.Table{}
	for _, sheet := range models.WorkbookSheets {
		// Una hoja ausente se toma como tabla vacía
		if !present[sheet] {
			continue
		}
		raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: hoja %q: %v", ErrMalformedWorkbook, sheet, err)
		}
		tables[sheet] = parseTable(raw)
	}
	return tables, nil
}

func parseTable(raw [][]string) models.Table {
	if len(raw) == 0 {
		return models.Table{}
	}

	table := models.Table{Columns: append([]string(nil), raw[0]...)}
	for _, cells := range raw[1:] {
		row := make([]interface{}, len(table.Columns))
		for i := range row {
			if i < len(cells) {
				row[i] = parseCell(table.Columns[i], cells[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func parseCell(column, value string) interface{} {
	if value == "" {
		return nil
	}
	if textColumns[column] {
		return value
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// appendRows concatena por nombre de columna. Las columnas nuevas se agregan al final.
func appendRows(existing models.Table, rows []models.MarketRow) models.Table {
	columns := append([]string(nil), existing.Columns...)
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	for _, c := range models.MarketColumns {
		if _, ok := index[c]; !ok {
			index[c] = len(columns)
			columns = append(columns, c)
		}
	}

	out := models.Table{Columns: columns, Rows: make([][]interface{}, 0, len(existing.Rows)+len(rows))}
	for _, old := range existing.Rows {
		row := make([]interface{}, len(columns))
		copy(row, old)
		out.Rows = append(out.Rows, row)
	}
	for _, r := range rows {
		row := make([]interface{}, len(columns))
		for i, v := range r.Values() {
			row[index[models.MarketColumns[i]]] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// write genera el libro completo en un temporal y lo renombra sobre el destino
func (r *WorkbookRepository) write(tables map[string]models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range models.WorkbookSheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("error al renombrar hoja: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("error al crear hoja %q: %w", sheet, err)
		}
		if err := writeTable(f, sheet, tables[sheet]); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".workbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("error al crear archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("error al escribir el libro: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// CreateTemp usa 0600; el libro conserva los permisos que ya tenía
	mode := os.FileMode(0644)
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("error al ajustar permisos: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("error al reemplazar %s: %w", r.path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, table models.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("error al escribir fila %d de %q: %w", i+2, sheet, err)
		}
	}
	return sw.Flush()
}
