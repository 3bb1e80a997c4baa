package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// TableExtractor selects slices of tabular data: top-N rows by a column,
// filtered rows, or everything.
type TableExtractor struct{}

func NewTableExtractor() *TableExtractor {
	return &TableExtractor{}
}

func (e *TableExtractor) Name() string { return "extract_table_data" }

func (e *TableExtractor) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: e.Name(),
		Desc: "Extracts specific data points and top entries from tables and structured data",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"file_data": {
				Desc:     "Base64 encoded file data (CSV or Excel)",
				Type:     schema.String,
				Required: true,
			},
			"file_type": {
				Desc:     "Type of file being processed",
				Type:     schema.String,
				Enum:     []string{"csv", "excel", "xlsx", "xls"},
				Required: true,
			},
			"extraction_type": {
				Desc: "Type of data extraction to perform",
				Type: schema.String,
				Enum: []string{"top_n", "filter", "all"},
			},
			"sort_column": {
				Desc: "Column to sort by for top_n extraction",
				Type: schema.String,
			},
			"n_results": {
				Desc: "Number of top results to return",
				Type: schema.Integer,
			},
			"ascending": {
				Desc: "Sort order (true for ascending, false for descending)",
				Type: schema.Boolean,
			},
		}),
	}
}

func (e *TableExtractor) Execute(ctx context.Context, req Request) models.ToolResult {
	table, err := LoadTable(req.FileData, req.FileType)
	if err != nil {
		return models.FailureResult(fmt.Sprintf("Data extraction failed: %s", err))
	}

	// column names are matched case-insensitively downstream
	for i, col := range table.Columns {
		table.Columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	params := req.Table
	rows := table.Rows
	if len(params.Filters) > 0 {
		rows = applyFilters(table, rows, params.Filters)
	}

	summary := fmt.Sprintf("Extracted %d records", len(rows))
	switch params.ExtractionType {
	case "top_n":
		rows = extractTopN(table, rows, params)
		summary = fmt.Sprintf("Extracted top %d records sorted by %s", len(rows), params.SortColumn)
	case "all", "":
		if len(params.Filters) > 0 {
			summary = fmt.Sprintf("Found %d records matching filter criteria", len(rows))
		}
	default:
		return models.FailureResult(fmt.Sprintf("Unknown extraction type: %s", params.ExtractionType))
	}

	return models.SuccessResult(map[string]any{
		"extraction_type":   params.ExtractionType,
		"file_type":         req.FileType,
		"total_records":     len(table.Rows),
		"extracted_records": len(rows),
		"results": map[string]any{
			"type":    "dataframe",
			"data":    table.rowMaps(rows),
			"columns": table.Columns,
		},
		"summary": summary,
	})
}

func extractTopN(table *Table, rows [][]string, params models.TableParams) [][]string {
	scoped := &Table{Columns: table.Columns, Rows: rows}
	idx, ok := scoped.findColumn(params.SortColumn)
	if !ok {
		// fall back to the first numeric column, or unsorted head
		idx, ok = scoped.firstNumericColumn()
		if !ok {
			return head(rows, params.NResults)
		}
	}
	return head(scoped.sortRowsBy(idx, params.Ascending), params.NResults)
}

func head(rows [][]string, n int) [][]string {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

func applyFilters(table *Table, rows [][]string, filters []models.Filter) [][]string {
	for _, f := range filters {
		idx, ok := table.findColumn(f.Column)
		if !ok {
			continue
		}
		var kept [][]string
		for _, row := range rows {
			if idx < len(row) && matchesFilter(row[idx], f) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	return rows
}

func matchesFilter(cell string, f models.Filter) bool {
	switch want := f.Value.(type) {
	case int:
		return compareNumeric(cell, float64(want), f.Operator)
	case float64:
		return compareNumeric(cell, want, f.Operator)
	default:
		got := strings.TrimSpace(strings.ToLower(cell))
		target := strings.ToLower(fmt.Sprint(f.Value))
		switch f.Operator {
		case "!=":
			return got != target
		default:
			return got == target
		}
	}
}

func compareNumeric(cell string, want float64, operator string) bool {
	v, ok := parseNumeric(cell)
	if !ok {
		return false
	}
	switch operator {
	case ">":
		return v > want
	case ">=":
		return v >= want
	case "<":
		return v < want
	case "<=":
		return v <= want
	case "!=":
		return v != want
	default:
		return v == want
	}
}
