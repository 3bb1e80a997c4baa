package models

import "strings"

// Intent is one of the seven analysis categories a user query resolves to.
type Intent string

const (
	IntentStatisticalAnalysis    Intent = "statistical_analysis"
	IntentFinancialTrendAnalysis Intent = "financial_trend_analysis"
	IntentExtractTableData       Intent = "extract_table_data"
	IntentDocumentSummarizer     Intent = "document_summarizer"
	IntentWebResearch            Intent = "web_research"
	IntentComparativeAnalysis    Intent = "comparative_analysis"
	IntentGeneralQuery           Intent = "general_query"
)

// AllIntents lists every valid intent in declaration order. The order matters:
// rule-based classification resolves ties by it.
var AllIntents = []Intent{
	IntentStatisticalAnalysis,
	IntentFinancialTrendAnalysis,
	IntentExtractTableData,
	IntentDocumentSummarizer,
	IntentWebResearch,
	IntentComparativeAnalysis,
	IntentGeneralQuery,
}

// ParseIntent maps a string to a known intent, case-insensitively.
func ParseIntent(s string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, intent := range AllIntents {
		if candidate == intent {
			return intent, true
		}
	}
	return "", false
}
