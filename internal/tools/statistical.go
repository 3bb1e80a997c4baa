package tools

import (
	"context"
	"math"
	"sort"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// StatisticalAnalyzer computes descriptive statistics over the numeric
// columns of a CSV or Excel upload.
type StatisticalAnalyzer struct{}

func NewStatisticalAnalyzer() *StatisticalAnalyzer {
	return &StatisticalAnalyzer{}
}

func (s *StatisticalAnalyzer) Name() string { return "statistical_analysis" }

func (s *StatisticalAnalyzer) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: s.Name(),
		Desc: "Performs statistical analysis on CSV and Excel files",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"file_data": {
				Desc:     "Base64 encoded file data (CSV or Excel)",
				Type:     schema.String,
				Required: true,
			},
			"file_type": {
				Desc:     "Type of file being analyzed",
				Type:     schema.String,
				Enum:     []string{"csv", "excel", "xlsx", "xls"},
				Required: true,
			},
		}),
	}
}

func (s *StatisticalAnalyzer) Execute(ctx context.Context, req Request) models.ToolResult {
	table, err := LoadTable(req.FileData, req.FileType)
	if err != nil {
		return models.FailureResult(err.Error())
	}

	var results []map[string]any
	for i, col := range table.Columns {
		if !table.isNumericColumn(i) {
			continue
		}
		values := table.columnValues(i)
		if len(values) == 0 {
			continue
		}
		results = append(results, map[string]any{
			col: columnStatistics(values, len(table.Rows)),
		})
	}
	if len(results) == 0 {
		return models.FailureResult("No numeric columns found for statistical analysis")
	}
	return models.SuccessResult(map[string]any{"columns": results})
}

func columnStatistics(values []float64, totalRows int) map[string]any {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	mean := sum(sorted) / n
	variance := sampleVariance(sorted, mean)
	std := math.Sqrt(variance)
	minV := sorted[0]
	maxV := sorted[len(sorted)-1]
	q1 := quantile(sorted, 0.25)
	q2 := quantile(sorted, 0.5)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	var outliers int
	for _, v := range sorted {
		if v < lower || v > upper {
			outliers++
		}
	}
	unique := countUnique(sorted)

	return map[string]any{
		"count":              len(sorted),
		"non_null_count":     len(sorted),
		"null_count":         totalRows - len(sorted),
		"mean":               mean,
		"median":             q2,
		"mode":               mode(sorted),
		"std":                std,
		"variance":           variance,
		"min":                minV,
		"max":                maxV,
		"range":              maxV - minV,
		"skewness":           skewness(sorted, mean, n),
		"kurtosis":           kurtosis(sorted, mean, n),
		"q1":                 q1,
		"q2":                 q2,
		"q3":                 q3,
		"outlier_count":      outliers,
		"outlier_percentage": round2(float64(outliers) / n * 100),
		"unique_values":      unique,
		"unique_percentage":  round2(float64(unique) / n * 100),
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func sampleVariance(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var s float64
	for _, v := range values {
		d := v - mean
		s += d * d
	}
	return s / float64(len(values)-1)
}

// quantile uses linear interpolation between closest ranks over a sorted
// slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func skewness(values []float64, mean, n float64) float64 {
	if n < 2 {
		return 0
	}
	var m2, m3 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// kurtosis reports excess kurtosis (normal distribution scores 0).
func kurtosis(values []float64, mean, n float64) float64 {
	if n < 2 {
		return 0
	}
	var m2, m4 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

// mode returns the smallest most frequent value of a sorted slice.
func mode(sorted []float64) float64 {
	best := sorted[0]
	bestCount := 0
	current := sorted[0]
	currentCount := 0
	for _, v := range sorted {
		if v == current {
			currentCount++
		} else {
			current = v
			currentCount = 1
		}
		if currentCount > bestCount {
			best = current
			bestCount = currentCount
		}
	}
	return best
}

func countUnique(sorted []float64) int {
	count := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			count++
		}
	}
	return count
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
