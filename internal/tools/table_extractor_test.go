package tools

import (
	"context"
	"testing"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

func TestTableExtractorTopN(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: salesCSV,
		FileType: "csv",
		Table: models.TableParams{
			ExtractionType: "top_n",
			NResults:       2,
			SortColumn:     "sales",
			Ascending:      false,
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if got := result.Data["extracted_records"].(int); got != 2 {
		t.Fatalf("extracted_records = %d, want 2", got)
	}
	if got := result.Data["total_records"].(int); got != 4 {
		t.Fatalf("total_records = %d, want 4", got)
	}
	results := result.Data["results"].(map[string]any)
	data := results["data"].([]map[string]any)
	if data[0]["product"] != "Gadget" {
		t.Fatalf("expected Gadget first, got %v", data[0]["product"])
	}
	if data[1]["product"] != "Doohickey" {
		t.Fatalf("expected Doohickey second, got %v", data[1]["product"])
	}
	if got := result.Data["summary"].(string); got != "Extracted top 2 records sorted by sales" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestTableExtractorFilter(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: salesCSV,
		FileType: "csv",
		Table: models.TableParams{
			ExtractionType: "all",
			Filters: []models.Filter{
				{Column: "sales", Operator: ">", Value: 100},
			},
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if got := result.Data["extracted_records"].(int); got != 2 {
		t.Fatalf("expected 2 rows above 100, got %d", got)
	}
	if got := result.Data["summary"].(string); got != "Found 2 records matching filter criteria" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestTableExtractorStringFilter(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: salesCSV,
		FileType: "csv",
		Table: models.TableParams{
			ExtractionType: "all",
			Filters: []models.Filter{
				{Column: "region", Operator: "=", Value: "north"},
			},
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if got := result.Data["extracted_records"].(int); got != 1 {
		t.Fatalf("expected 1 matching row, got %d", got)
	}
}

func TestTableExtractorUnknownFilterColumnSkipped(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: salesCSV,
		FileType: "csv",
		Table: models.TableParams{
			ExtractionType: "all",
			Filters: []models.Filter{
				{Column: "bogus", Operator: ">", Value: 5},
			},
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if got := result.Data["extracted_records"].(int); got != 4 {
		t.Fatalf("unmatched filter column should be skipped, got %d rows", got)
	}
}

func TestTableExtractorUnknownExtractionType(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: salesCSV,
		FileType: "csv",
		Table:    models.TableParams{ExtractionType: "pivot"},
	})
	if result.Success {
		t.Fatalf("expected failure for unknown extraction type")
	}
	if result.Error != "Unknown extraction type: pivot" {
		t.Fatalf("unexpected error %q", result.Error)
	}
}

func TestTableExtractorBadFile(t *testing.T) {
	result := NewTableExtractor().Execute(context.Background(), Request{
		FileData: []byte("not,a\nvalid"),
		FileType: "parquet",
	})
	if result.Success {
		t.Fatalf("expected failure for unsupported file type")
	}
}
