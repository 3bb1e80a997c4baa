package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// TrendAnalyzer extracts quarterly trends for a financial metric from
// CSV or Excel data and derives growth insights.
type TrendAnalyzer struct{}

func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

func (t *TrendAnalyzer) Name() string { return "financial_trend_analysis" }

func (t *TrendAnalyzer) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: t.Name(),
		Desc: "Analyze financial trends from Excel/CSV data and generate insights",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"message_id": {
				Desc:     "Unique identifier for the message/request",
				Type:     schema.String,
				Required: true,
			},
			"file_data": {
				Desc:     "Base64 encoded Excel/CSV file data",
				Type:     schema.String,
				Required: true,
			},
			"file_type": {
				Desc: "File type: 'excel' or 'csv'",
				Type: schema.String,
				Enum: []string{"excel", "csv"},
			},
			"metric": {
				Desc: "Financial metric to analyze (e.g., 'revenue', 'sales', 'profit')",
				Type: schema.String,
			},
		}),
	}
}

var defaultQuarters = []string{"Q1", "Q2"}

type quarterData struct {
	Values  []float64 `json:"values"`
	Total   float64   `json:"total"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

func (t *TrendAnalyzer) Execute(ctx context.Context, req Request) models.ToolResult {
	table, err := LoadTable(req.FileData, req.FileType)
	if err != nil {
		return models.FailureResult(err.Error())
	}

	metric := strings.ToLower(req.Metric)
	if metric == "" {
		metric = "revenue"
	}

	metricIdx, ok := findMetricColumn(table, metric)
	if !ok {
		return models.FailureResult(fmt.Sprintf("Could not find %s column in the data", metric))
	}

	trend := extractQuarterlyTrends(table, defaultQuarters, metricIdx)
	insights := trendInsights(trend, defaultQuarters)

	return models.SuccessResult(map[string]any{
		"trend_data":    trend,
		"insights":      insights,
		"metric_column": table.Columns[metricIdx],
		"quarters":      defaultQuarters,
	})
}

func findMetricColumn(table *Table, metric string) (int, bool) {
	for i, col := range table.Columns {
		if strings.Contains(strings.ToLower(col), metric) {
			return i, true
		}
	}
	synonyms := map[string][]string{
		"revenue":  {"revenue", "sales", "income", "turnover"},
		"expenses": {"expenses", "costs", "expenditure", "expense"},
		"profit":   {"profit", "earnings", "net income"},
	}
	for _, alt := range synonyms[metric] {
		for i, col := range table.Columns {
			if strings.Contains(strings.ToLower(col), alt) {
				return i, true
			}
		}
	}
	return table.firstNumericColumn()
}

func findQuarterColumn(table *Table) (int, bool) {
	for i, col := range table.Columns {
		if strings.Contains(strings.ToLower(col), "quarter") {
			return i, true
		}
	}
	return 0, false
}

func findDateColumn(table *Table) int {
	for i, col := range table.Columns {
		lowered := strings.ToLower(col)
		for _, kw := range []string{"month", "date", "period"} {
			if strings.Contains(lowered, kw) {
				return i
			}
		}
	}
	return 0
}

func mapMonthToQuarter(raw string) string {
	lowered := strings.ToLower(raw)
	quarters := []struct {
		name   string
		months []string
	}{
		{"Q1", []string{"jan", "feb", "mar", "01", "02", "03"}},
		{"Q2", []string{"apr", "may", "jun", "04", "05", "06"}},
		{"Q3", []string{"jul", "aug", "sep", "07", "08", "09"}},
		{"Q4", []string{"oct", "nov", "dec", "10", "11", "12"}},
	}
	for _, q := range quarters {
		for _, m := range q.months {
			if strings.Contains(lowered, m) {
				return q.name
			}
		}
	}
	return "Unknown"
}

func extractQuarterlyTrends(table *Table, quarters []string, metricIdx int) map[string]*quarterData {
	trend := make(map[string]*quarterData, len(quarters))
	for _, q := range quarters {
		trend[q] = &quarterData{Values: []float64{}}
	}

	if quarterIdx, ok := findQuarterColumn(table); ok {
		for _, row := range table.Rows {
			if quarterIdx >= len(row) || metricIdx >= len(row) {
				continue
			}
			for _, q := range quarters {
				if strings.Contains(strings.ToLower(row[quarterIdx]), strings.ToLower(q)) {
					if v, numOK := parseNumeric(row[metricIdx]); numOK {
						trend[q].Values = append(trend[q].Values, v)
					}
					break
				}
			}
		}
	} else {
		dateIdx := findDateColumn(table)
		for _, row := range table.Rows {
			if dateIdx >= len(row) || metricIdx >= len(row) {
				continue
			}
			q := mapMonthToQuarter(row[dateIdx])
			data, wanted := trend[q]
			if !wanted {
				continue
			}
			if v, numOK := parseNumeric(row[metricIdx]); numOK {
				data.Values = append(data.Values, v)
			}
		}
	}

	for _, data := range trend {
		if len(data.Values) > 0 {
			data.Total = sum(data.Values)
			data.Average = data.Total / float64(len(data.Values))
			data.Count = len(data.Values)
		}
	}
	return trend
}

func trendInsights(trend map[string]*quarterData, quarters []string) map[string]any {
	insights := map[string]any{
		"growth_analysis":     map[string]any{},
		"performance_summary": map[string]any{},
		"recommendations":     []string{},
	}

	var valid []string
	for _, q := range quarters {
		if data, ok := trend[q]; ok && data.Total > 0 {
			valid = append(valid, q)
		}
	}
	if len(valid) < 2 {
		return insights
	}

	first, second := valid[0], valid[1]
	firstTotal := trend[first].Total
	secondTotal := trend[second].Total
	if firstTotal <= 0 {
		return insights
	}

	growthRate := (secondTotal - firstTotal) / firstTotal * 100
	direction := "flat"
	if growthRate > 0 {
		direction = "positive"
	} else if growthRate < 0 {
		direction = "negative"
	}
	insights["growth_analysis"] = map[string]any{
		first + "_total":   firstTotal,
		second + "_total":  secondTotal,
		"growth_rate":      round2(growthRate),
		"growth_direction": direction,
		"absolute_change":  secondTotal - firstTotal,
	}

	best := first
	if secondTotal > firstTotal {
		best = second
	}
	insights["performance_summary"] = map[string]any{
		"best_quarter":      best,
		"total_revenue":     firstTotal + secondTotal,
		"average_quarterly": (firstTotal + secondTotal) / 2,
		"quarters_analyzed": valid,
	}
	insights["recommendations"] = []string{growthRecommendation(growthRate)}
	return insights
}

func growthRecommendation(growthRate float64) string {
	switch {
	case growthRate > 15:
		return "Exceptional growth momentum - consider aggressive expansion strategies"
	case growthRate > 5:
		return "Strong growth trend - maintain current strategies and optimize operations"
	case growthRate > 0:
		return "Positive growth trend - look for opportunities to accelerate growth"
	case growthRate > -5:
		return "Stable performance - focus on efficiency improvements and new revenue streams"
	case growthRate > -15:
		return "Declining trend - review pricing strategy and cost management"
	default:
		return "Significant decline - urgent review of business strategy required"
	}
}
