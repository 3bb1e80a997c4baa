package params

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

func TestParseTableParamsDefaults(t *testing.T) {
	p := ParseTableParams("show me everything")
	if p.ExtractionType != "all" {
		t.Fatalf("expected all extraction, got %s", p.ExtractionType)
	}
	if p.NResults != 10 {
		t.Fatalf("expected default n_results 10, got %d", p.NResults)
	}
	if !p.Ascending {
		t.Fatalf("expected ascending by default")
	}
	if len(p.Filters) != 0 {
		t.Fatalf("expected no filters, got %d", len(p.Filters))
	}
}

func TestParseTableParamsTopN(t *testing.T) {
	p := ParseTableParams("top 5 products by revenue")
	if p.ExtractionType != "top_n" {
		t.Fatalf("expected top_n, got %s", p.ExtractionType)
	}
	if p.NResults != 5 {
		t.Fatalf("expected n_results 5, got %d", p.NResults)
	}
	if p.SortColumn != "revenue" {
		t.Fatalf("expected sort column revenue, got %s", p.SortColumn)
	}
	if p.Ascending {
		t.Fatalf("top-by queries should sort descending")
	}
}

func TestParseTableParamsSortDirections(t *testing.T) {
	cases := []struct {
		query     string
		column    string
		ascending bool
	}{
		{"show the highest profit rows", "profit", false},
		{"show the lowest cost entries", "cost", true},
		{"bottom 3 items by quantity", "quantity", true},
	}
	for _, tc := range cases {
		p := ParseTableParams(tc.query)
		if p.SortColumn != tc.column {
			t.Errorf("%q: expected column %s, got %s", tc.query, tc.column, p.SortColumn)
		}
		if p.Ascending != tc.ascending {
			t.Errorf("%q: expected ascending=%v, got %v", tc.query, tc.ascending, p.Ascending)
		}
	}
}

func TestParseTableParamsFilters(t *testing.T) {
	p := ParseTableParams("show rows where price>100")
	if len(p.Filters) == 0 {
		t.Fatalf("expected at least one filter")
	}
	f := p.Filters[0]
	if f.Column != "price" || f.Operator != ">" {
		t.Fatalf("unexpected filter %+v", f)
	}
	if v, ok := f.Value.(int); !ok || v != 100 {
		t.Fatalf("expected int value 100, got %T %v", f.Value, f.Value)
	}

	p = ParseTableParams("filter where rate>=10.5")
	if len(p.Filters) == 0 {
		t.Fatalf("expected float filter")
	}
	if v, ok := p.Filters[0].Value.(float64); !ok || v != 10.5 {
		t.Fatalf("expected float value 10.5, got %T %v", p.Filters[0].Value, p.Filters[0].Value)
	}
}

func TestParseTableParamsColumnMapping(t *testing.T) {
	// no explicit sort pattern, so the income mention maps onto sales
	p := ParseTableParams("which items have income")
	if p.SortColumn != "sales" {
		t.Fatalf("expected income to map to sales, got %s", p.SortColumn)
	}
}

func TestFallbackTableParams(t *testing.T) {
	p := FallbackTableParams()
	want := models.TableParams{ExtractionType: "top_n", NResults: 10, SortColumn: "sales", Ascending: false}
	if p.ExtractionType != want.ExtractionType || p.NResults != want.NResults ||
		p.SortColumn != want.SortColumn || p.Ascending != want.Ascending {
		t.Fatalf("unexpected fallback params %+v", p)
	}
}

func TestExtractMetric(t *testing.T) {
	cases := map[string]string{
		"show profit trends":              "profit",
		"what are our expenses this year": "expenses",
		"tell me about the weather":       "revenue",
	}
	for query, want := range cases {
		if got := ExtractMetric(query); got != want {
			t.Errorf("%q: expected %s, got %s", query, want, got)
		}
	}
}

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("check https://example.com/report.html and http://other.org")
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://example.com/report.html" {
		t.Fatalf("unexpected first url %s", urls[0])
	}
	if len(ExtractURLs("no links here")) != 0 {
		t.Fatalf("expected no urls")
	}
}

func TestConversationContextKeepsLastFive(t *testing.T) {
	var messages []models.Message
	for i := 0; i < 8; i++ {
		role := models.RoleHuman
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		messages = append(messages, models.Message{
			Role:      role,
			Content:   strings.Repeat("x", 10),
			CreatedAt: time.Now(),
		})
	}
	ctx := ConversationContext(messages)
	if got := strings.Count(ctx, "\n"); got != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", got, ctx)
	}
	if !strings.Contains(ctx, "User: ") || !strings.Contains(ctx, "Assistant: ") {
		t.Fatalf("expected both role labels in context:\n%s", ctx)
	}
}

func TestConversationContextTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	ctx := ConversationContext([]models.Message{{Role: models.RoleHuman, Content: long}})
	if strings.Contains(ctx, strings.Repeat("a", 201)) {
		t.Fatalf("content not truncated to 200 characters")
	}
	if !strings.HasSuffix(strings.TrimSpace(ctx), "...") {
		t.Fatalf("expected ellipsis suffix, got %q", ctx)
	}
}

func TestConversationContextRuneSafeTruncation(t *testing.T) {
	long := strings.Repeat("न", 250)
	out := ConversationContext([]models.Message{{Role: models.RoleHuman, Content: long}})
	if !utf8.ValidString(out) {
		t.Fatalf("context is not valid UTF-8: %q", out)
	}
	want := "User: " + strings.Repeat("न", 200) + "...\n"
	if out != want {
		t.Fatalf("unexpected truncation, got %q", out)
	}
}

func TestFormatHistoryRuneSafeTruncation(t *testing.T) {
	long := strings.Repeat("ñ", 150)
	out := FormatHistory([]models.Message{{Role: models.RoleAssistant, Content: long}})
	if !utf8.ValidString(out) {
		t.Fatalf("history is not valid UTF-8: %q", out)
	}
	want := "Assistant: " + strings.Repeat("ñ", 100) + "...\n"
	if out != want {
		t.Fatalf("unexpected truncation, got %q", out)
	}
}
