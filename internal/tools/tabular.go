package tools

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is tabular data parsed from a CSV or spreadsheet upload. Cells stay
// strings; numeric interpretation happens per analysis.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadTable parses CSV or Excel bytes into a Table. Excel reads use the
// first sheet.
func LoadTable(data []byte, fileType string) (*Table, error) {
	switch strings.ToLower(fileType) {
	case "csv":
		return loadCSV(data)
	case "excel", "xlsx", "xls":
		return loadExcel(data)
	default:
		return nil, fmt.Errorf("unsupported tabular file type: %s", fileType)
	}
}

func loadCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}
	return tableFromRecords(records), nil
}

func loadExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return tableFromRecords(rows), nil
}

func tableFromRecords(records [][]string) *Table {
	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}
	t := &Table{Columns: columns}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		// pad short rows so every row has a cell per column
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row[:len(columns)])
	}
	return t
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var currencyRunes = regexp.MustCompile(`[$,()%€£¥]`)

// parseNumeric interprets a cell as a number, tolerating currency symbols
// and thousands separators.
func parseNumeric(cell string) (float64, bool) {
	cleaned := currencyRunes.ReplaceAllString(strings.TrimSpace(cell), "")
	cleaned = strings.ReplaceAll(cleaned, "−", "-")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// columnValues extracts the numeric values of one column, skipping cells
// that do not parse.
func (t *Table) columnValues(idx int) []float64 {
	var values []float64
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		if v, ok := parseNumeric(row[idx]); ok {
			values = append(values, v)
		}
	}
	return values
}

// isNumericColumn reports whether more than half the column's non-empty
// cells parse as numbers.
func (t *Table) isNumericColumn(idx int) bool {
	var total, numeric int
	for _, row := range t.Rows {
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			continue
		}
		total++
		if _, ok := parseNumeric(row[idx]); ok {
			numeric++
		}
	}
	return total > 0 && numeric*2 > total
}

var columnKeywordMapping = []struct {
	keyword      string
	alternatives []string
}{
	{"sales", []string{"sales", "revenue", "income"}},
	{"profit", []string{"profit", "earnings", "net"}},
	{"expense", []string{"expense", "cost", "spending"}},
	{"product", []string{"product", "item", "name", "description"}},
}

// findColumn locates a column index by name: exact match first, then
// substring containment either way, then financial keyword synonyms.
func (t *Table) findColumn(target string) (int, bool) {
	targetLower := strings.ToLower(strings.TrimSpace(target))
	if targetLower == "" {
		return 0, false
	}
	for i, col := range t.Columns {
		if strings.ToLower(col) == targetLower {
			return i, true
		}
	}
	for i, col := range t.Columns {
		colLower := strings.ToLower(col)
		if strings.Contains(colLower, targetLower) || strings.Contains(targetLower, colLower) {
			return i, true
		}
	}
	for _, mapping := range columnKeywordMapping {
		if strings.Contains(targetLower, mapping.keyword) {
			for _, alt := range mapping.alternatives {
				for i, col := range t.Columns {
					if strings.Contains(strings.ToLower(col), alt) {
						return i, true
					}
				}
			}
		}
	}
	return 0, false
}

// firstNumericColumn returns the index of the first mostly-numeric column.
func (t *Table) firstNumericColumn() (int, bool) {
	for i := range t.Columns {
		if t.isNumericColumn(i) {
			return i, true
		}
	}
	return 0, false
}

// sortRowsBy orders rows by the numeric value of one column. Cells that do
// not parse sort last.
func (t *Table) sortRowsBy(idx int, ascending bool) [][]string {
	sorted := make([][]string, len(t.Rows))
	copy(sorted, t.Rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, oki := parseNumeric(sorted[i][idx])
		vj, okj := parseNumeric(sorted[j][idx])
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
	return sorted
}

// rowMaps renders rows as column-keyed maps for JSON output.
func (t *Table) rowMaps(rows [][]string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if v, ok := parseNumeric(cell); ok {
				m[col] = v
			} else {
				m[col] = cell
			}
		}
		out = append(out, m)
	}
	return out
}
