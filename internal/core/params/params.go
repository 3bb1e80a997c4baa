package params

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:top|first|show)\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+(?:rows?|records?|entries?)`),
	regexp.MustCompile(`limit\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+(?:results?)`),
}

type sortPattern struct {
	re *regexp.Regexp
	// nil: keep default direction, false: descending, true: ascending
	ascending *bool
}

func boolPtr(b bool) *bool { return &b }

var sortPatterns = []sortPattern{
	{regexp.MustCompile(`(?:sort|order)\s+by\s+(\w+)`), nil},
	{regexp.MustCompile(`highest\s+(\w+)`), boolPtr(false)},
	{regexp.MustCompile(`lowest\s+(\w+)`), boolPtr(true)},
	{regexp.MustCompile(`largest\s+(\w+)`), boolPtr(false)},
	{regexp.MustCompile(`smallest\s+(\w+)`), boolPtr(true)},
	{regexp.MustCompile(`maximum\s+(\w+)`), boolPtr(false)},
	{regexp.MustCompile(`minimum\s+(\w+)`), boolPtr(true)},
	{regexp.MustCompile(`top\s+.*?by\s+(\w+)`), boolPtr(false)},
	{regexp.MustCompile(`bottom\s+.*?by\s+(\w+)`), boolPtr(true)},
}

var filterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`where\s+(\w+)\s*([><=!]+)\s*([^\s]+)`),
	regexp.MustCompile(`(\w+)\s*([><=!]+)\s*([^\s,]+)`),
	regexp.MustCompile(`filter\s+by\s+(\w+)\s*([><=!]+)\s*([^\s]+)`),
}

var descendingWords = []string{"desc", "descending", "highest", "largest", "maximum"}
var ascendingWords = []string{"asc", "ascending", "lowest", "smallest", "minimum"}

// columnMappings resolves informal column mentions onto canonical names.
type columnMapping struct {
	canonical  string
	variations []string
}

var columnMappings = []columnMapping{
	{"sales", []string{"sales", "revenue", "income"}},
	{"profit", []string{"profit", "earnings", "net_income"}},
	{"cost", []string{"cost", "expense", "expenditure"}},
	{"quantity", []string{"quantity", "qty", "amount"}},
	{"price", []string{"price", "cost", "rate"}},
	{"date", []string{"date", "time", "timestamp"}},
	{"name", []string{"name", "title", "product", "item"}},
}

var defaultSortColumns = []string{"sales", "revenue", "profit", "amount", "value"}

// DefaultTableParams are the values used before any hint is found.
func DefaultTableParams() models.TableParams {
	return models.TableParams{
		ExtractionType: "all",
		NResults:       10,
		Ascending:      true,
	}
}

// FallbackTableParams are used when parameter extraction itself fails.
func FallbackTableParams() models.TableParams {
	return models.TableParams{
		ExtractionType: "top_n",
		NResults:       10,
		SortColumn:     "sales",
		Ascending:      false,
	}
}

// ParseTableParams derives table extraction parameters from a free-text
// query. Hints it cannot find keep their defaults.
func ParseTableParams(query string) models.TableParams {
	lowered := strings.ToLower(query)
	p := DefaultTableParams()

	for _, pattern := range numberPatterns {
		if m := pattern.FindStringSubmatch(lowered); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				p.NResults = n
				p.ExtractionType = "top_n"
				break
			}
		}
	}

	for _, sp := range sortPatterns {
		if m := sp.re.FindStringSubmatch(lowered); m != nil {
			p.SortColumn = m[1]
			if sp.ascending != nil {
				p.Ascending = *sp.ascending
				p.ExtractionType = "top_n"
			}
			break
		}
	}

	if p.SortColumn != "" {
		if containsAny(lowered, descendingWords) {
			p.Ascending = false
		} else if containsAny(lowered, ascendingWords) {
			p.Ascending = true
		}
	}

	for _, pattern := range filterPatterns {
		for _, m := range pattern.FindAllStringSubmatch(lowered, -1) {
			p.Filters = append(p.Filters, models.Filter{
				Column:   m[1],
				Operator: m[2],
				Value:    coerceValue(m[3]),
			})
		}
	}

	if p.SortColumn == "" {
		for _, mapping := range columnMappings {
			for _, variation := range mapping.variations {
				if strings.Contains(lowered, variation) {
					p.SortColumn = mapping.canonical
					if containsAny(lowered, []string{"top", "highest", "maximum", "best"}) {
						p.Ascending = false
						p.ExtractionType = "top_n"
					}
					break
				}
			}
			if p.SortColumn != "" {
				break
			}
		}
	}

	if p.ExtractionType == "top_n" && p.SortColumn == "" {
		p.SortColumn = defaultSortColumns[0]
	}
	return p
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// coerceValue turns a filter literal into a float when it carries a decimal
// point, an int when it parses, and otherwise leaves it a string.
func coerceValue(raw string) any {
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
